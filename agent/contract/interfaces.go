package contract

import "context"

// Proposer is the language-model capability. Implementations decide which
// functions (if any) to call for the inbound message; they never execute them.
type Proposer interface {
	Propose(ctx context.Context, req ProposalRequest) (Proposal, error)
}

// Notifier delivers hot-lead follow-up requests to an external collaborator
// (CRM tagging, human handoff). Failures must not block the turn.
type Notifier interface {
	NotifyHotLead(ctx context.Context, tenantID, phone string, c LeadClassification) error
}
