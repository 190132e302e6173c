package funcs

import (
	"context"
	"strings"
	"testing"
	"time"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
	statex "github.com/homelocar/sofia/agent/state"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestDeps(t *testing.T) (Deps, *domain.MemoryRepositories) {
	t.Helper()

	mem := domain.NewMemoryRepositories()
	mem.SeedProperty(domain.Property{
		ID:               "p1",
		TenantID:         "t1",
		Title:            "Apto vista mar",
		City:             "Florianópolis",
		MaxGuests:        4,
		IncludedGuests:   2,
		MinimumNights:    2,
		NightlyRateCents: 30000,
		CleaningFeeCents: 15000,
		Amenities:        []string{"wifi", "pool"},
		MediaURLs:        []string{"https://cdn.example.com/p1/1.jpg"},
	})
	mem.SeedProperty(domain.Property{
		ID:               "p2",
		TenantID:         "t1",
		Title:            "Casa no centro",
		City:             "Florianópolis",
		MaxGuests:        6,
		IncludedGuests:   4,
		NightlyRateCents: 45000,
		CleaningFeeCents: 20000,
	})

	return Deps{
		Catalog:      mem.Properties(),
		Clients:      mem.Clients(),
		Reservations: mem.Reservations(),
		Payments:     mem.Payments(),
		Visits:       mem.Visits(),
		Media:        mem.Media(),
		Now:          fixedNow,
	}, mem
}

func newTestRegistry(t *testing.T) (*Registry, *domain.MemoryRepositories) {
	t.Helper()

	deps, mem := newTestDeps(t)
	r, err := NewCatalogRegistry(deps)
	if err != nil {
		t.Fatalf("NewCatalogRegistry() error = %v", err)
	}
	return r, mem
}

func call(name string, args map[string]any) contractx.FunctionCall {
	return contractx.FunctionCall{
		Name:      name,
		Arguments: args,
		TenantID:  "t1",
		Phone:     "+5548999990000",
	}
}

func TestDispatchUnknownFunctionFails(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call("does_not_exist", nil))
	if res.Status != contractx.StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status)
	}
	if len(res.FieldErrors) != 1 || !strings.Contains(res.FieldErrors[0].Message, contractx.ErrUnknownFunction.Error()) {
		t.Fatalf("unexpected field errors: %#v", res.FieldErrors)
	}
}

func TestDispatchMissingRequiredArguments(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncCalculatePrice, map[string]any{
		"propertyId": "p1",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}

	// All missing fields must be reported, not just the first.
	missing := map[string]bool{}
	for _, fe := range res.FieldErrors {
		missing[fe.Field] = true
	}
	for _, f := range []string{"checkIn", "checkOut", "guests"} {
		if !missing[f] {
			t.Fatalf("field %s not reported: %#v", f, res.FieldErrors)
		}
	}
}

func TestDispatchWrongTypeArgument(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncSearchProperties, map[string]any{
		"city":   "Florianópolis",
		"guests": "dois",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
	if len(res.FieldErrors) == 0 || res.FieldErrors[0].Field != "guests" {
		t.Fatalf("unexpected field errors: %#v", res.FieldErrors)
	}
}

func TestDispatchUnknownArgumentRejected(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncSearchProperties, map[string]any{
		"city":        "Florianópolis",
		"petFriendly": true,
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
}

func TestSearchPropertiesReturnsCandidates(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncSearchProperties, map[string]any{
		"city":   "Florianópolis",
		"guests": float64(2),
	}))
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("status = %s, want executed: %#v", res.Status, res)
	}

	out, ok := res.Payload.(SearchOutput)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(out.Candidates))
	}
	// Cheapest first.
	if out.Candidates[0].ID != "p1" {
		t.Fatalf("first candidate = %s, want p1", out.Candidates[0].ID)
	}
	if !strings.Contains(res.HumanSummary, "2 imóveis") {
		t.Fatalf("summary missing count: %q", res.HumanSummary)
	}
}

func TestSearchPropertiesTenantIsolation(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), contractx.FunctionCall{
		Name:      FuncSearchProperties,
		Arguments: map[string]any{"city": "Florianópolis"},
		TenantID:  "other-tenant",
		Phone:     "+55",
	})
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("status = %s, want executed", res.Status)
	}
	out := res.Payload.(SearchOutput)
	if len(out.Candidates) != 0 {
		t.Fatalf("cross-tenant leak: %#v", out.Candidates)
	}
}

func TestCalculatePriceExecutes(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncCalculatePrice, map[string]any{
		"propertyId": "p1",
		"checkIn":    "2026-03-10",
		"checkOut":   "2026-03-15",
		"guests":     float64(2),
	}))
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("status = %s: %#v", res.Status, res)
	}

	quote, ok := res.Payload.(*statex.PendingQuote)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}
	// 5 nights at 30000 plus 15000 cleaning.
	if quote.TotalAmountCents != 165000 {
		t.Fatalf("total = %d, want 165000", quote.TotalAmountCents)
	}
	if !strings.Contains(res.HumanSummary, "R$ 1.650,00") {
		t.Fatalf("summary missing formatted total: %q", res.HumanSummary)
	}
}

func TestCalculatePricePastDatesSuggestsShiftedRange(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncCalculatePrice, map[string]any{
		"propertyId": "p1",
		"checkIn":    "2025-12-20",
		"checkOut":   "2025-12-27",
		"guests":     float64(2),
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}

	stay, ok := res.Payload.(SuggestedStay)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}
	if stay.CheckIn != "2026-12-20" || stay.CheckOut != "2026-12-27" {
		t.Fatalf("unexpected suggestion: %#v", stay)
	}
	if !strings.Contains(res.HumanSummary, "2026-12-20") {
		t.Fatalf("summary missing suggested date: %q", res.HumanSummary)
	}
}

func TestCalculatePriceInvertedRangeRejected(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncCalculatePrice, map[string]any{
		"propertyId": "p1",
		"checkIn":    "2026-03-15",
		"checkOut":   "2026-03-10",
		"guests":     float64(2),
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
	if res.Payload != nil {
		t.Fatalf("inverted range must not produce a payload: %#v", res.Payload)
	}
}

func TestRegisterClientAndCreateReservation(t *testing.T) {
	t.Parallel()

	r, mem := newTestRegistry(t)
	ctx := context.Background()

	reg := r.Dispatch(ctx, call(FuncRegisterClient, map[string]any{
		"name":     "Ana Souza",
		"document": "123.456.789-00",
		"email":    "ana@example.com",
	}))
	if reg.Status != contractx.StatusExecuted {
		t.Fatalf("register status = %s: %#v", reg.Status, reg)
	}
	client := reg.Payload.(*domain.Client)

	res := r.Dispatch(ctx, call(FuncCreateReservation, map[string]any{
		"propertyId": "p1",
		"checkIn":    "2026-03-10",
		"checkOut":   "2026-03-15",
		"clientId":   client.ID,
		"guests":     float64(2),
	}))
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("reservation status = %s: %#v", res.Status, res)
	}

	list := mem.ReservationList("t1")
	if len(list) != 1 {
		t.Fatalf("reservations = %d, want 1", len(list))
	}
	if list[0].TotalCents != 165000 {
		t.Fatalf("reservation total = %d, want 165000", list[0].TotalCents)
	}
}

func TestCreateReservationRequiresRegisteredClient(t *testing.T) {
	t.Parallel()

	r, mem := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncCreateReservation, map[string]any{
		"propertyId": "p1",
		"checkIn":    "2026-03-10",
		"checkOut":   "2026-03-15",
		"clientId":   "ghost",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
	if len(mem.ReservationList("t1")) != 0 {
		t.Fatal("reservation created despite missing client")
	}
}

func TestRegisterClientRejectsBadEmail(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncRegisterClient, map[string]any{
		"name":     "Ana Souza",
		"document": "123",
		"email":    "not-an-email",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
}

func TestCancelPaymentPendingOnly(t *testing.T) {
	t.Parallel()

	r, mem := newTestRegistry(t)
	ctx := context.Background()

	mem.SeedPayment(domain.PaymentTransaction{
		ID:          "tx-pending",
		TenantID:    "t1",
		Status:      domain.PaymentPending,
		AmountCents: 165000,
		Notes:       "created via pix",
	})
	mem.SeedPayment(domain.PaymentTransaction{
		ID:          "tx-paid",
		TenantID:    "t1",
		Status:      domain.PaymentPaid,
		AmountCents: 165000,
	})

	res := r.Dispatch(ctx, call(FuncCancelPayment, map[string]any{
		"transactionId": "tx-pending",
		"reason":        "cliente desistiu",
		"cancelledBy":   "sofia",
	}))
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("status = %s: %#v", res.Status, res)
	}

	tx := res.Payload.(*domain.PaymentTransaction)
	if tx.Status != domain.PaymentCancelled {
		t.Fatalf("status = %s, want cancelled", tx.Status)
	}
	// The audit note appends; the original note survives.
	if !strings.HasPrefix(tx.Notes, "created via pix\n") {
		t.Fatalf("original note lost: %q", tx.Notes)
	}
	if !strings.Contains(tx.Notes, "cancelled by sofia: cliente desistiu") {
		t.Fatalf("audit note missing: %q", tx.Notes)
	}
}

func TestCancelPaymentNonPendingRefused(t *testing.T) {
	t.Parallel()

	r, mem := newTestRegistry(t)
	mem.SeedPayment(domain.PaymentTransaction{
		ID:          "tx-paid",
		TenantID:    "t1",
		Status:      domain.PaymentPaid,
		AmountCents: 165000,
	})

	res := r.Dispatch(context.Background(), call(FuncCancelPayment, map[string]any{
		"transactionId": "tx-paid",
		"reason":        "engano",
		"cancelledBy":   "sofia",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
	if !strings.Contains(res.HumanSummary, "paid") {
		t.Fatalf("summary should name current status: %q", res.HumanSummary)
	}

	// The transaction is untouched.
	tx, err := mem.Payments().Get(context.Background(), "t1", "tx-paid")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if tx.Status != domain.PaymentPaid {
		t.Fatalf("refused cancel mutated status: %s", tx.Status)
	}
}

func TestScheduleVisitValidatesTimeFormat(t *testing.T) {
	t.Parallel()

	r, mem := newTestRegistry(t)
	ctx := context.Background()

	res := r.Dispatch(ctx, call(FuncScheduleVisit, map[string]any{
		"propertyId": "p1",
		"date":       "2026-03-10",
		"time":       "25:99",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}

	res = r.Dispatch(ctx, call(FuncScheduleVisit, map[string]any{
		"propertyId": "p1",
		"date":       "2026-03-10",
		"time":       "14:30",
	}))
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("status = %s: %#v", res.Status, res)
	}
	if len(mem.VisitList("t1")) != 1 {
		t.Fatal("visit not recorded")
	}
}

func TestSendPropertyMediaRecordsSend(t *testing.T) {
	t.Parallel()

	r, mem := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncSendPropertyMedia, map[string]any{
		"propertyId": "p1",
	}))
	if res.Status != contractx.StatusExecuted {
		t.Fatalf("status = %s: %#v", res.Status, res)
	}

	sends := mem.MediaSends()
	if len(sends) != 1 {
		t.Fatalf("media sends = %d, want 1", len(sends))
	}
	if sends[0].Phone != "+5548999990000" {
		t.Fatalf("send phone = %s", sends[0].Phone)
	}
}

func TestSendPropertyMediaNoMediaRejected(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	res := r.Dispatch(context.Background(), call(FuncSendPropertyMedia, map[string]any{
		"propertyId": "p2",
	}))
	if res.Status != contractx.StatusRejectedValidation {
		t.Fatalf("status = %s, want rejected_validation", res.Status)
	}
}

func TestToolInfosSortedAndComplete(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	infos := r.ToolInfos()
	if len(infos) != 8 {
		t.Fatalf("tool infos = %d, want 8", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Fatalf("tool infos not sorted: %s before %s", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestSideEffectingFlags(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)
	readOnly := []string{FuncSearchProperties, FuncGetPropertyDetails, FuncCalculatePrice}
	for _, name := range readOnly {
		if r.SideEffecting(name) {
			t.Fatalf("%s should be read-only", name)
		}
	}
	sideEffecting := []string{
		FuncRegisterClient, FuncCreateReservation, FuncScheduleVisit,
		FuncCancelPayment, FuncSendPropertyMedia,
	}
	for _, name := range sideEffecting {
		if !r.SideEffecting(name) {
			t.Fatalf("%s should be side-effecting", name)
		}
	}
}
