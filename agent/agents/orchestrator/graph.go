package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	turnnode "github.com/homelocar/sofia/agent/nodes"
)

func (o *Orchestrator) compileHandleTurnGraph(
	ctx context.Context,
) (compose.Runnable[turnnode.TurnInput, turnnode.TurnOutput], error) {
	graph := compose.NewGraph[turnnode.TurnInput, turnnode.TurnOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in turnnode.TurnInput) (*turnnode.TurnState, error) {
			return turnnode.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_context",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.LoadContext(ctx, in, o.store, o.contextTTL, o.maxTurns, o.maxRecentCalls)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_context: %w", err)
	}

	if err := graph.AddLambdaNode("classify_lead",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.ClassifyLead(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_lead: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_model",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.InvokeModel(ctx, in, o.proposer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_model: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_args",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.ResolveArgs(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_args: %w", err)
	}

	if err := graph.AddLambdaNode("guard_calls",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.GuardCalls(in, o.guard, o.registry)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node guard_calls: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_calls",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.DispatchCalls(ctx, in, o.registry)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_calls: %w", err)
	}

	if err := graph.AddLambdaNode("compose_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.ComposeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_reply: %w", err)
	}

	if err := graph.AddLambdaNode("update_context",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.UpdateContext(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node update_context: %w", err)
	}

	if err := graph.AddLambdaNode("save_context",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (*turnnode.TurnState, error) {
			return turnnode.SaveContext(ctx, in, o.store, o.contextTTL)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_context: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_turn",
		compose.InvokableLambda(func(ctx context.Context, in *turnnode.TurnState) (turnnode.TurnOutput, error) {
			return turnnode.FinalizeTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_turn: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_context"},
		{"load_context", "classify_lead"},
		{"classify_lead", "invoke_model"},
		{"invoke_model", "resolve_args"},
		{"resolve_args", "guard_calls"},
		{"guard_calls", "dispatch_calls"},
		{"dispatch_calls", "compose_reply"},
		{"compose_reply", "update_context"},
		{"update_context", "save_context"},
		{"save_context", "finalize_turn"},
		{"finalize_turn", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
