package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type PropertyFilter struct {
	City      string
	Guests    int
	Amenities []string
}

type PropertyCatalog interface {
	Search(ctx context.Context, tenantID string, f PropertyFilter) ([]Property, error)
	Get(ctx context.Context, tenantID, propertyID string) (*Property, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, tenantID, clientID string) (*Client, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *Reservation) error
}

type PaymentRepository interface {
	Get(ctx context.Context, tenantID, transactionID string) (*PaymentTransaction, error)
	Update(ctx context.Context, tx *PaymentTransaction) error
}

type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
}

// MediaSender pushes property photos/videos out on the messaging channel.
type MediaSender interface {
	Send(ctx context.Context, tenantID, phone string, urls []string) error
}
