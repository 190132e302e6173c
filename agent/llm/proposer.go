// Package llm implements the proposal model behind the agent: one
// tool-calling chat completion per turn, fed with the conversation context
// and the new inbound message.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
	statex "github.com/homelocar/sofia/agent/state"
	"github.com/homelocar/sofia/pkg/metrics"
)

// Proposer turns one inbound message plus conversation context into a reply
// draft and zero-or-more function calls. It never executes anything.
type Proposer struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Proposer = (*Proposer)(nil)

// NewProposer binds the registry's tool schemas to the chat model and
// compiles the prompt graph once, at startup.
func NewProposer(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	tools []*schema.ToolInfo,
	systemPrompt string,
) (*Proposer, error) {
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}

	runner, err := compileProposalGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile proposal graph: %v", contractx.ErrModelInvoke, err)
	}

	return &Proposer{runner: runner}, nil
}

func (p *Proposer) Propose(ctx context.Context, req contractx.ProposalRequest) (contractx.Proposal, error) {
	payload := map[string]any{
		"message":           req.Message,
		"today":             req.Now.Format("2006-01-02"),
		"candidates":        candidateSummaries(req.Context),
		"pending_quote":     quoteSummary(req.Context),
		"registered_client": clientSummary(req.Context),
		"recent_turns":      turnSummaries(req.Context),
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.Proposal{}, fmt.Errorf("%w: marshal proposal payload: %v", contractx.ErrValidation, err)
	}

	started := time.Now()
	msg, err := p.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	metrics.ModelInvokeDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return contractx.Proposal{}, fmt.Errorf("%w: proposal invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.Proposal{}, fmt.Errorf("%w: empty proposal response", contractx.ErrSchemaViolation)
	}

	calls, err := toFunctionCalls(msg.ToolCalls)
	if err != nil {
		return contractx.Proposal{}, err
	}

	return contractx.Proposal{
		Reply: strings.TrimSpace(msg.Content),
		Calls: calls,
	}, nil
}

func compileProposalGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("llm.proposal_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile proposal graph: %w", err)
	}
	return runner, nil
}

func toFunctionCalls(calls []schema.ToolCall) ([]contractx.FunctionCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]contractx.FunctionCall, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid arguments for function=%s: %v", contractx.ErrSchemaViolation, name, err)
			}
		}

		out = append(out, contractx.FunctionCall{
			Name:      name,
			Arguments: args,
		})
	}
	return out, nil
}

func candidateSummaries(c *statex.ConversationContext) []map[string]any {
	if c == nil || len(c.CandidateProperties) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(c.CandidateProperties))
	for i, p := range c.CandidateProperties {
		out = append(out, map[string]any{
			"position":           i + 1,
			"property_id":        p.ID,
			"title":              p.Title,
			"city":               p.City,
			"max_guests":         p.MaxGuests,
			"nightly_rate_cents": p.NightlyRateCents,
		})
	}
	return out
}

func quoteSummary(c *statex.ConversationContext) map[string]any {
	if c == nil || c.PendingQuote == nil {
		return nil
	}
	q := c.PendingQuote
	return map[string]any{
		"property_id": q.PropertyID,
		"check_in":    q.CheckIn.Format("2006-01-02"),
		"check_out":   q.CheckOut.Format("2006-01-02"),
		"guests":      q.GuestCount,
		"total_cents": q.TotalAmountCents,
	}
}

func clientSummary(c *statex.ConversationContext) map[string]any {
	if c == nil || c.RegisteredClient == nil {
		return nil
	}
	return map[string]any{
		"client_id": c.RegisteredClient.ID,
		"name":      c.RegisteredClient.Name,
	}
}

func turnSummaries(c *statex.ConversationContext) []map[string]string {
	if c == nil || len(c.Turns) == 0 {
		return nil
	}
	out := make([]map[string]string, 0, len(c.Turns))
	for _, t := range c.Turns {
		out = append(out, map[string]string{
			"role": t.Role,
			"text": t.Text,
		})
	}
	return out
}
