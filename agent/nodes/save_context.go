package turnnode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/homelocar/sofia/agent/contract"
	statex "github.com/homelocar/sofia/agent/state"
)

// SaveContext persists the updated conversation. It is the only durable write
// in the pipeline: everything before it operates on the in-memory copy.
func SaveContext(ctx context.Context, in *TurnState, store statex.Store, ttl time.Duration) (*TurnState, error) {
	if in == nil || in.Context == nil {
		return nil, errors.New("turn state is incomplete")
	}

	in.Context.Touch(in.Now, ttl)
	if err := in.Context.Validate(); err != nil {
		return nil, fmt.Errorf("conversation context: %w", err)
	}
	if err := store.Save(ctx, in.Context); err != nil {
		return nil, fmt.Errorf("save context %s: %w: %v", in.Context.Key(), contractx.ErrTransient, err)
	}
	return in, nil
}

// FinalizeTurn flattens the turn state into the caller-facing output.
func FinalizeTurn(in *TurnState) (TurnOutput, error) {
	if in == nil {
		return TurnOutput{}, errors.New("turn state is incomplete")
	}

	out := TurnOutput{
		RequestID:      in.RequestID,
		Reply:          in.Reply,
		Classification: in.Classification,
	}
	for _, gc := range in.Guarded {
		if gc.Unknown {
			continue
		}
		out.FunctionsAttempted = append(out.FunctionsAttempted, gc.Call.Name)
	}
	for _, res := range in.Results {
		switch res.Status {
		case contractx.StatusExecuted:
			out.FunctionsExecuted = append(out.FunctionsExecuted, res.Name)
		case contractx.StatusSuppressedDuplicate:
			out.FunctionsSuppressed = append(out.FunctionsSuppressed, res.Name)
		}
	}
	return out, nil
}
