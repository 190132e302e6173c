package turnnode

import (
	"errors"
	"strings"
)

// DefaultReply keeps the channel alive when neither the model nor any
// function produced text.
const DefaultReply = "Oi! Sou a Sofia. Posso te ajudar a encontrar um imóvel, calcular valores ou agendar uma visita. O que você procura?"

// ComposeReply assembles the outbound message from the model's text and the
// human summaries of every dispatched call. The reply is never empty.
func ComposeReply(in *TurnState) (*TurnState, error) {
	if in == nil {
		return nil, errors.New("turn state is nil")
	}

	var parts []string
	if reply := strings.TrimSpace(in.Proposal.Reply); reply != "" {
		parts = append(parts, reply)
	}
	for _, res := range in.Results {
		if s := strings.TrimSpace(res.HumanSummary); s != "" {
			parts = append(parts, s)
		}
	}

	reply := strings.Join(parts, "\n\n")
	if reply == "" {
		reply = DefaultReply
	}

	in.Reply = reply
	return in, nil
}
