package turnnode

import (
	"errors"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
	"github.com/homelocar/sofia/agent/funcs"
	guardx "github.com/homelocar/sofia/agent/guard"
	statex "github.com/homelocar/sofia/agent/state"
)

// UpdateContext folds the turn back into the conversation: transcript turns,
// loop-window entries for executed side-effecting calls, and the implicit
// memory fields (candidates, pending quote, registered client). All of it
// happens on the in-memory copy; nothing is durable until SaveContext, so a
// failed turn rolls back as a unit.
func UpdateContext(in *TurnState) (*TurnState, error) {
	if in == nil || in.Context == nil {
		return nil, errors.New("turn state is incomplete")
	}

	c := in.Context
	c.AppendTurn("user", in.Text, in.Now)
	c.AppendTurn("assistant", in.Reply, in.Now)

	for _, res := range in.Results {
		if res.Status == contractx.StatusExecuted {
			foldResult(c, res)
		}
	}
	// Dispatch appends exactly one result per non-unknown guarded call, so
	// walking both in lockstep pairs each result with its own hash even when
	// the same function was called twice with different arguments.
	ri := 0
	for _, gc := range in.Guarded {
		if gc.Unknown {
			continue
		}
		if ri >= len(in.Results) {
			break
		}
		res := in.Results[ri]
		ri++

		// Only executed side-effecting calls enter the loop window;
		// read-only calls and rejections are never counted as repeats.
		if !gc.Allow || gc.Reason == guardx.ReasonReadOnly {
			continue
		}
		if res.Status != contractx.StatusExecuted {
			continue
		}
		c.AppendCall(statex.RecentCall{
			Name:         gc.Call.Name,
			ArgumentHash: gc.Hash,
			ExecutedAt:   in.Now,
			Summary:      res.HumanSummary,
		})
	}

	return in, nil
}

func foldResult(c *statex.ConversationContext, res contractx.FunctionResult) {
	switch res.Name {
	case funcs.FuncSearchProperties:
		if out, ok := res.Payload.(funcs.SearchOutput); ok {
			c.SetCandidates(out.Candidates)
		}

	case funcs.FuncCalculatePrice:
		if q, ok := res.Payload.(*statex.PendingQuote); ok {
			c.SetPendingQuote(q)
		}

	case funcs.FuncRegisterClient:
		if cl, ok := res.Payload.(*domain.Client); ok {
			c.SetRegisteredClient(&statex.RegisteredClient{
				ID:       cl.ID,
				Name:     cl.Name,
				Document: cl.Document,
				Email:    cl.Email,
			})
		}

	case funcs.FuncCreateReservation:
		// The quote is consumed only by a reservation for the quoted
		// property; booking a different one leaves it pending.
		r, ok := res.Payload.(*domain.Reservation)
		if !ok {
			return
		}
		if q := c.PendingQuote; q != nil && q.PropertyID == r.PropertyID {
			c.ClearPendingQuote()
		}
	}
}
