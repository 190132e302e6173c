package contract

import (
	"time"

	statex "github.com/homelocar/sofia/agent/state"
)

// CallStatus is the terminal status of one dispatched function call.
type CallStatus string

const (
	StatusExecuted            CallStatus = "executed"
	StatusSuppressedDuplicate CallStatus = "suppressed_duplicate"
	StatusRejectedValidation  CallStatus = "rejected_validation"
	StatusFailed              CallStatus = "failed"
)

// FunctionCall is a named domain action proposed by the model. Arguments come
// straight from the model and must be schema-validated before use.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	TenantID  string         `json:"tenant_id"`
	Phone     string         `json:"phone"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FunctionResult is returned by the registry for every dispatched call.
// HumanSummary is a reply fragment the orchestrator may surface verbatim.
type FunctionResult struct {
	Name         string       `json:"name"`
	Status       CallStatus   `json:"status"`
	Payload      any          `json:"payload,omitempty"`
	HumanSummary string       `json:"human_summary,omitempty"`
	FieldErrors  []FieldError `json:"field_errors,omitempty"`
}

// ProposalRequest is what the language-model capability sees for one turn:
// the persisted conversation context plus the new inbound message. The model
// is treated as a stateless function of the two.
type ProposalRequest struct {
	Message string
	Context *statex.ConversationContext
	Now     time.Time
}

// Proposal is the model's output for a turn: optional reply text and
// zero-or-more function calls. Neither is trusted until validated downstream.
type Proposal struct {
	Reply string
	Calls []FunctionCall
}

type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// LeadClassification is computed fresh per turn and never persisted.
type LeadClassification struct {
	Temperature Temperature `json:"temperature"`
	Signals     []string    `json:"signals,omitempty"`
}
