package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/homelocar/sofia/agent/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckStayInvertedRangeFailsHard(t *testing.T) {
	t.Parallel()

	today := date(2026, 3, 1)

	_, err := CheckStay(date(2026, 3, 10), date(2026, 3, 5), today)
	if !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("expected ErrInvertedRange, got %v", err)
	}

	// Zero-night stay is also inverted.
	_, err = CheckStay(date(2026, 3, 10), date(2026, 3, 10), today)
	if !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("expected ErrInvertedRange for zero nights, got %v", err)
	}
}

func TestCheckStayFutureRangeOK(t *testing.T) {
	t.Parallel()

	chk, err := CheckStay(date(2026, 3, 10), date(2026, 3, 15), date(2026, 3, 1))
	if err != nil {
		t.Fatalf("CheckStay() error = %v", err)
	}
	if !chk.OK {
		t.Fatal("future range not accepted")
	}
}

func TestCheckStayTodayCheckInOK(t *testing.T) {
	t.Parallel()

	chk, err := CheckStay(date(2026, 3, 1), date(2026, 3, 3), date(2026, 3, 1))
	if err != nil {
		t.Fatalf("CheckStay() error = %v", err)
	}
	if !chk.OK {
		t.Fatal("check-in today should be accepted")
	}
}

func TestCheckStayPastRangeSuggestsNextYear(t *testing.T) {
	t.Parallel()

	chk, err := CheckStay(date(2025, 12, 20), date(2025, 12, 27), date(2026, 3, 1))
	if err != nil {
		t.Fatalf("CheckStay() error = %v", err)
	}
	if chk.OK {
		t.Fatal("past range was accepted")
	}
	if got, want := chk.SuggestedCheckIn, date(2026, 12, 20); !got.Equal(want) {
		t.Fatalf("suggested check-in = %s, want %s", got, want)
	}
	if got, want := chk.SuggestedCheckOut, date(2026, 12, 27); !got.Equal(want) {
		t.Fatalf("suggested check-out = %s, want %s", got, want)
	}
	if Nights(chk.SuggestedCheckIn, chk.SuggestedCheckOut) != 7 {
		t.Fatal("stay length not preserved")
	}
}

func TestCheckStayMultipleYearsInPast(t *testing.T) {
	t.Parallel()

	chk, err := CheckStay(date(2023, 1, 10), date(2023, 1, 12), date(2026, 3, 1))
	if err != nil {
		t.Fatalf("CheckStay() error = %v", err)
	}
	if chk.OK {
		t.Fatal("past range was accepted")
	}
	if got, want := chk.SuggestedCheckIn, date(2027, 1, 10); !got.Equal(want) {
		t.Fatalf("suggested check-in = %s, want %s", got, want)
	}
}

func testProperty() *domain.Property {
	return &domain.Property{
		ID:                 "p1",
		TenantID:           "t1",
		Title:              "Apto vista mar",
		City:               "Florianópolis",
		MaxGuests:          4,
		IncludedGuests:     2,
		MinimumNights:      2,
		NightlyRateCents:   30000,
		CleaningFeeCents:   15000,
		ExtraGuestFeeCents: 5000,
	}
}

func TestComputeQuoteArithmetic(t *testing.T) {
	t.Parallel()

	now := date(2026, 3, 1)
	q, err := ComputeQuote(testProperty(), date(2026, 3, 10), date(2026, 3, 15), 3, now)
	if err != nil {
		t.Fatalf("ComputeQuote() error = %v", err)
	}

	if q.Nights != 5 {
		t.Fatalf("nights = %d, want 5", q.Nights)
	}
	if q.BaseAmountCents != 150000 {
		t.Fatalf("base = %d, want 150000", q.BaseAmountCents)
	}
	// One guest over the included two, 5000 per night for 5 nights.
	if q.ExtraGuestFeeCents != 25000 {
		t.Fatalf("extra = %d, want 25000", q.ExtraGuestFeeCents)
	}
	if q.TotalAmountCents != 190000 {
		t.Fatalf("total = %d, want 190000", q.TotalAmountCents)
	}
}

func TestComputeQuoteDeterministic(t *testing.T) {
	t.Parallel()

	now := date(2026, 3, 1)
	a, err := ComputeQuote(testProperty(), date(2026, 3, 10), date(2026, 3, 15), 2, now)
	if err != nil {
		t.Fatalf("ComputeQuote() error = %v", err)
	}
	b, err := ComputeQuote(testProperty(), date(2026, 3, 10), date(2026, 3, 15), 2, now)
	if err != nil {
		t.Fatalf("ComputeQuote() error = %v", err)
	}
	if a.TotalAmountCents != b.TotalAmountCents {
		t.Fatalf("totals differ: %d vs %d", a.TotalAmountCents, b.TotalAmountCents)
	}
	if a.ExtraGuestFeeCents != 0 {
		t.Fatalf("no extra guests expected, got %d", a.ExtraGuestFeeCents)
	}
}

func TestComputeQuoteMinimumNights(t *testing.T) {
	t.Parallel()

	_, err := ComputeQuote(testProperty(), date(2026, 3, 10), date(2026, 3, 11), 2, date(2026, 3, 1))
	if err == nil {
		t.Fatal("expected minimum-nights error")
	}
}

func TestComputeQuoteGuestLimits(t *testing.T) {
	t.Parallel()

	if _, err := ComputeQuote(testProperty(), date(2026, 3, 10), date(2026, 3, 12), 5, date(2026, 3, 1)); err == nil {
		t.Fatal("expected max-guests error")
	}
	if _, err := ComputeQuote(testProperty(), date(2026, 3, 10), date(2026, 3, 12), 0, date(2026, 3, 1)); err == nil {
		t.Fatal("expected positive-guests error")
	}
}

func TestFormatBRL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{190000, "R$ 1.900,00"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-123456, "-R$ 1.234,56"},
	}
	for _, c := range cases {
		if got := FormatBRL(c.cents); got != c.want {
			t.Fatalf("FormatBRL(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}
