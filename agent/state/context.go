package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTTL is how long an untouched conversation stays alive.
	DefaultTTL = 24 * time.Hour
	// DefaultMaxTurns bounds the transcript window kept in context.
	DefaultMaxTurns = 20
	// DefaultMaxRecentCalls bounds the loop-detection window.
	DefaultMaxRecentCalls = 10
)

var (
	ErrInvalidKey = errors.New("tenant id and phone are required")
)

// Turn is one transcript entry.
type Turn struct {
	Role string    `json:"role"` // "user" | "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// PropertySummary is the slice of a property kept "in view" for pronoun
// resolution ("the first one").
type PropertySummary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	City             string `json:"city"`
	MaxGuests        int    `json:"max_guests"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
}

// PendingQuote is the most recent, not-yet-confirmed price calculation.
// All amounts are integer centavos.
type PendingQuote struct {
	PropertyID         string    `json:"property_id"`
	CheckIn            time.Time `json:"check_in"`
	CheckOut           time.Time `json:"check_out"`
	Nights             int       `json:"nights"`
	GuestCount         int       `json:"guest_count"`
	BaseAmountCents    int64     `json:"base_amount_cents"`
	CleaningFeeCents   int64     `json:"cleaning_fee_cents"`
	ExtraGuestFeeCents int64     `json:"extra_guest_fee_cents"`
	TotalAmountCents   int64     `json:"total_amount_cents"`
	CreatedAt          time.Time `json:"created_at"`
}

// RegisteredClient is a captured identity pending confirmation.
type RegisteredClient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
}

// RecentCall records one executed side-effecting function call for the
// loop-detection window.
type RecentCall struct {
	Name         string    `json:"name"`
	ArgumentHash string    `json:"argument_hash"`
	ExecutedAt   time.Time `json:"executed_at"`
	Summary      string    `json:"summary,omitempty"`
}

// ConversationContext is the persisted state for one (tenant, phone)
// dialogue. The bounded windows on Turns and RecentCalls are owned by this
// package: callers append through the methods below and never mutate the
// slices directly.
type ConversationContext struct {
	TenantID string `json:"tenant_id"`
	Phone    string `json:"phone"`

	Turns               []Turn            `json:"turns,omitempty"`
	CandidateProperties []PropertySummary `json:"candidate_properties,omitempty"`
	PendingQuote        *PendingQuote     `json:"pending_quote,omitempty"`
	RegisteredClient    *RegisteredClient `json:"registered_client,omitempty"`
	RecentCalls         []RecentCall      `json:"recent_calls,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`

	maxTurns       int
	maxRecentCalls int
}

func NewConversationContext(tenantID, phone string, now time.Time, ttl time.Duration) *ConversationContext {
	now = now.UTC()
	return &ConversationContext{
		TenantID:       strings.TrimSpace(tenantID),
		Phone:          strings.TrimSpace(phone),
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
	}
}

// SetWindows overrides the bounded-window sizes. Zero keeps the default.
func (c *ConversationContext) SetWindows(maxTurns, maxRecentCalls int) {
	c.maxTurns = maxTurns
	c.maxRecentCalls = maxRecentCalls
}

func (c *ConversationContext) turnWindow() int {
	if c.maxTurns > 0 {
		return c.maxTurns
	}
	return DefaultMaxTurns
}

func (c *ConversationContext) callWindow() int {
	if c.maxRecentCalls > 0 {
		return c.maxRecentCalls
	}
	return DefaultMaxRecentCalls
}

func (c *ConversationContext) Key() string {
	return ContextKey(c.TenantID, c.Phone)
}

// ContextKey builds the storage key for a conversation.
func ContextKey(tenantID, phone string) string {
	return strings.TrimSpace(tenantID) + ":" + strings.TrimSpace(phone)
}

func (c *ConversationContext) Validate() error {
	if strings.TrimSpace(c.TenantID) == "" || strings.TrimSpace(c.Phone) == "" {
		return ErrInvalidKey
	}
	if w := c.turnWindow(); len(c.Turns) > w {
		return fmt.Errorf("turns window exceeded: %d > %d", len(c.Turns), w)
	}
	if w := c.callWindow(); len(c.RecentCalls) > w {
		return fmt.Errorf("recent calls window exceeded: %d > %d", len(c.RecentCalls), w)
	}
	return nil
}

// Expired reports whether the context is logically destroyed.
func (c *ConversationContext) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.UTC().After(c.ExpiresAt)
}

// Touch refreshes activity and expiry. Called once per turn.
func (c *ConversationContext) Touch(now time.Time, ttl time.Duration) {
	c.LastActivityAt = now.UTC()
	c.ExpiresAt = c.LastActivityAt.Add(ttl)
}

// AppendTurn appends a transcript entry, evicting the oldest beyond the window.
func (c *ConversationContext) AppendTurn(role, text string, at time.Time) {
	c.Turns = append(c.Turns, Turn{Role: role, Text: text, At: at.UTC()})
	if over := len(c.Turns) - c.turnWindow(); over > 0 {
		c.Turns = append(c.Turns[:0:0], c.Turns[over:]...)
	}
}

// AppendCall records an executed side-effecting call in the loop window.
func (c *ConversationContext) AppendCall(rc RecentCall) {
	rc.ExecutedAt = rc.ExecutedAt.UTC()
	c.RecentCalls = append(c.RecentCalls, rc)
	if over := len(c.RecentCalls) - c.callWindow(); over > 0 {
		c.RecentCalls = append(c.RecentCalls[:0:0], c.RecentCalls[over:]...)
	}
}

// RecentWindow returns up to n most recent calls, newest last.
func (c *ConversationContext) RecentWindow(n int) []RecentCall {
	if n <= 0 || n >= len(c.RecentCalls) {
		return c.RecentCalls
	}
	return c.RecentCalls[len(c.RecentCalls)-n:]
}

func (c *ConversationContext) SetCandidates(props []PropertySummary) {
	c.CandidateProperties = append([]PropertySummary(nil), props...)
}

func (c *ConversationContext) SetPendingQuote(q *PendingQuote) {
	c.PendingQuote = q
}

// ClearPendingQuote drops the pending quote, typically because a reservation
// consumed it.
func (c *ConversationContext) ClearPendingQuote() {
	c.PendingQuote = nil
}

func (c *ConversationContext) SetRegisteredClient(rc *RegisteredClient) {
	c.RegisteredClient = rc
}

// LastUserTurn returns the text of the most recent user turn, if any.
func (c *ConversationContext) LastUserTurn() (string, bool) {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == "user" {
			return c.Turns[i].Text, true
		}
	}
	return "", false
}
