// Package turnnode holds the per-turn pipeline steps. Each node is a small
// function over a shared TurnState so the orchestrator graph stays a flat
// list of named stages.
package turnnode

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	contractx "github.com/homelocar/sofia/agent/contract"
	statex "github.com/homelocar/sofia/agent/state"
)

var (
	ErrInvalidTenant = errors.New("tenant id is empty")
	ErrInvalidPhone  = errors.New("customer phone is empty")
)

type TurnInput struct {
	TenantID string
	Phone    string
	Text     string
	Metadata map[string]string
}

type TurnOutput struct {
	RequestID           string
	Reply               string
	FunctionsExecuted   []string
	FunctionsAttempted  []string
	FunctionsSuppressed []string
	Classification      contractx.LeadClassification
}

// GuardedCall is one proposed call after the loop-guard decision.
type GuardedCall struct {
	Call    contractx.FunctionCall
	Allow   bool
	Reason  string
	Hash    string
	Unknown bool
}

type TurnState struct {
	RequestID string
	TenantID  string
	Phone     string
	Text      string
	Now       time.Time

	Context        *statex.ConversationContext
	Classification contractx.LeadClassification
	Proposal       contractx.Proposal
	Guarded        []GuardedCall
	Results        []contractx.FunctionResult
	Reply          string
}

// ValidateRequest checks the conversation key and stamps the turn. An empty
// message is allowed: degenerate input must still produce a reply.
func ValidateRequest(in TurnInput, nowFn func() time.Time) (*TurnState, error) {
	tenantID := strings.TrimSpace(in.TenantID)
	if tenantID == "" {
		return nil, ErrInvalidTenant
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, ErrInvalidPhone
	}

	return &TurnState{
		RequestID: uuid.NewString(),
		TenantID:  tenantID,
		Phone:     phone,
		Text:      strings.TrimSpace(in.Text),
		Now:       nowFn().UTC(),
	}, nil
}
