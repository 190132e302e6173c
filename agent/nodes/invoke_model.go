package turnnode

import (
	"context"
	"errors"

	contractx "github.com/homelocar/sofia/agent/contract"
)

// InvokeModel asks the language-model capability for a reply and function
// proposals. The model sees the persisted context plus the new message and
// nothing else.
func InvokeModel(ctx context.Context, in *TurnState, proposer contractx.Proposer) (*TurnState, error) {
	if in == nil || in.Context == nil {
		return nil, errors.New("turn state is incomplete")
	}

	proposal, err := proposer.Propose(ctx, contractx.ProposalRequest{
		Message: in.Text,
		Context: in.Context,
		Now:     in.Now,
	})
	if err != nil {
		return nil, err
	}

	in.Proposal = proposal
	return in, nil
}
