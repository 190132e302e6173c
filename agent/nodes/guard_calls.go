package turnnode

import (
	"errors"

	"github.com/rs/zerolog/log"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/funcs"
	guardx "github.com/homelocar/sofia/agent/guard"
)

// GuardCalls runs every proposed call through the loop guard. Unknown
// functions are flagged here (a model-quality signal) so dispatch can skip
// them without failing the turn. The guard only sees calls from earlier
// turns, so duplicates inside one proposal are caught here with a per-turn
// seen set: the first instance runs, the rest are suppressed.
func GuardCalls(in *TurnState, g *guardx.Guard, registry *funcs.Registry) (*TurnState, error) {
	if in == nil || in.Context == nil {
		return nil, errors.New("turn state is incomplete")
	}

	seen := make(map[string]struct{})
	guarded := make([]GuardedCall, 0, len(in.Proposal.Calls))
	for _, call := range in.Proposal.Calls {
		if _, known := registry.Lookup(call.Name); !known {
			// Model-quality signal, not a turn failure.
			log.Warn().
				Err(contractx.ErrUnknownFunction).
				Str("request_id", in.RequestID).
				Str("function", call.Name).
				Msg("model proposed unknown function")
			guarded = append(guarded, GuardedCall{Call: call, Allow: false, Unknown: true})
			continue
		}

		decision := g.ShouldExecute(in.Context, call, registry.SideEffecting(call.Name), in.Now)
		if decision.Allow && decision.Reason != guardx.ReasonReadOnly {
			key := call.Name + ":" + decision.Hash
			if _, dup := seen[key]; dup {
				decision.Allow = false
				decision.Reason = guardx.ReasonDuplicate
			} else {
				seen[key] = struct{}{}
			}
		}
		guarded = append(guarded, GuardedCall{
			Call:   call,
			Allow:  decision.Allow,
			Reason: decision.Reason,
			Hash:   decision.Hash,
		})
	}

	in.Guarded = guarded
	return in, nil
}
