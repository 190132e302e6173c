package turnnode

import (
	"errors"

	"github.com/homelocar/sofia/agent/classify"
)

// ClassifyLead labels the inbound message. It cannot fail the turn.
func ClassifyLead(in *TurnState) (*TurnState, error) {
	if in == nil {
		return nil, errors.New("turn state is nil")
	}
	in.Classification = classify.Classify(in.Text)
	return in, nil
}
