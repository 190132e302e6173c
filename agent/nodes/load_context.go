package turnnode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/homelocar/sofia/agent/contract"
	statex "github.com/homelocar/sofia/agent/state"
)

// LoadContext loads the conversation, creating a fresh one lazily for a new
// (tenant, phone) pair or when the stored one expired. Store failures fail
// the turn closed: no function executes against unknown state.
func LoadContext(
	ctx context.Context,
	in *TurnState,
	store statex.Store,
	ttl time.Duration,
	maxTurns, maxRecentCalls int,
) (*TurnState, error) {
	if in == nil {
		return nil, errors.New("turn state is nil")
	}

	c, err := store.Load(ctx, in.TenantID, in.Phone)
	switch {
	case err == nil:
		if c.Expired(in.Now) {
			c = statex.NewConversationContext(in.TenantID, in.Phone, in.Now, ttl)
		}
	case errors.Is(err, statex.ErrContextNotFound):
		c = statex.NewConversationContext(in.TenantID, in.Phone, in.Now, ttl)
	default:
		return nil, fmt.Errorf("%w: load context: %v", contractx.ErrTransient, err)
	}

	c.SetWindows(maxTurns, maxRecentCalls)
	in.Context = c
	return in, nil
}
