package pricing

import (
	"fmt"
	"time"

	"github.com/homelocar/sofia/agent/domain"
	statex "github.com/homelocar/sofia/agent/state"
)

// ComputeQuote prices a validated stay. Callers run CheckStay first; this
// function assumes checkOut > checkIn and only enforces property constraints.
// Identical inputs always yield an identical total.
func ComputeQuote(p *domain.Property, checkIn, checkOut time.Time, guests int, now time.Time) (*statex.PendingQuote, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return nil, ErrInvertedRange
	}
	if p.MinimumNights > 0 && nights < p.MinimumNights {
		return nil, fmt.Errorf("stay of %d nights is below the minimum of %d", nights, p.MinimumNights)
	}
	if guests <= 0 {
		return nil, fmt.Errorf("guest count must be positive")
	}
	if p.MaxGuests > 0 && guests > p.MaxGuests {
		return nil, fmt.Errorf("%d guests exceeds the property limit of %d", guests, p.MaxGuests)
	}

	base := p.NightlyRateCents * int64(nights)

	extraGuests := int64(guests - p.IncludedGuests)
	if extraGuests < 0 {
		extraGuests = 0
	}
	extra := extraGuests * p.ExtraGuestFeeCents * int64(nights)

	return &statex.PendingQuote{
		PropertyID:         p.ID,
		CheckIn:            dateOnly(checkIn),
		CheckOut:           dateOnly(checkOut),
		Nights:             nights,
		GuestCount:         guests,
		BaseAmountCents:    base,
		CleaningFeeCents:   p.CleaningFeeCents,
		ExtraGuestFeeCents: extra,
		TotalAmountCents:   base + p.CleaningFeeCents + extra,
		CreatedAt:          now.UTC(),
	}, nil
}
