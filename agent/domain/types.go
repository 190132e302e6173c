// Package domain holds the rental-domain records and the outbound
// collaborator contracts the agent calls into. Everything is scoped by
// tenant; no operation crosses tenant boundaries.
package domain

import "time"

// Property is a rentable unit. Monetary fields are integer centavos.
type Property struct {
	ID                 string   `json:"id"`
	TenantID           string   `json:"tenant_id"`
	Title              string   `json:"title"`
	City               string   `json:"city"`
	MaxGuests          int      `json:"max_guests"`
	IncludedGuests     int      `json:"included_guests"`
	MinimumNights      int      `json:"minimum_nights"`
	NightlyRateCents   int64    `json:"nightly_rate_cents"`
	CleaningFeeCents   int64    `json:"cleaning_fee_cents"`
	ExtraGuestFeeCents int64    `json:"extra_guest_fee_cents"` // per extra guest per night
	Amenities          []string `json:"amenities,omitempty"`
	MediaURLs          []string `json:"media_urls,omitempty"`
}

type Client struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Reservation struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	PropertyID string    `json:"property_id"`
	ClientID   string    `json:"client_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentTransaction carries a free-text audit trail in Notes; cancellation
// appends to it, never overwrites.
type PaymentTransaction struct {
	ID          string        `json:"id"`
	TenantID    string        `json:"tenant_id"`
	Status      PaymentStatus `json:"status"`
	AmountCents int64         `json:"amount_cents"`
	Notes       string        `json:"notes,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Visit struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	PropertyID string    `json:"property_id"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"` // "HH:MM"
	CreatedAt  time.Time `json:"created_at"`
}
