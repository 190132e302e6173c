package domain

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepositories is the in-process collaborator set used by tests and
// demo wiring. All lookups are tenant-scoped, same as the Postgres set.
type MemoryRepositories struct {
	mu           sync.RWMutex
	properties   map[string]Property           // key: tenant:id
	clients      map[string]Client             // key: tenant:id
	reservations map[string]Reservation        // key: tenant:id
	payments     map[string]PaymentTransaction // key: tenant:id
	visits       map[string]Visit              // key: tenant:id
	mediaSends   []MediaSend
}

// MediaSend records one outbound media delivery, for test inspection.
type MediaSend struct {
	TenantID string
	Phone    string
	URLs     []string
}

func NewMemoryRepositories() *MemoryRepositories {
	return &MemoryRepositories{
		properties:   make(map[string]Property),
		clients:      make(map[string]Client),
		reservations: make(map[string]Reservation),
		payments:     make(map[string]PaymentTransaction),
		visits:       make(map[string]Visit),
	}
}

func (m *MemoryRepositories) Properties() PropertyCatalog         { return &memCatalog{m} }
func (m *MemoryRepositories) Clients() ClientRepository           { return &memClients{m} }
func (m *MemoryRepositories) Reservations() ReservationRepository { return &memReservations{m} }
func (m *MemoryRepositories) Payments() PaymentRepository         { return &memPayments{m} }
func (m *MemoryRepositories) Visits() VisitRepository             { return &memVisits{m} }
func (m *MemoryRepositories) Media() MediaSender                  { return &memMedia{m} }

func scopedKey(tenantID, id string) string {
	return tenantID + ":" + id
}

func (m *MemoryRepositories) SeedProperty(p Property) {
	m.mu.Lock()
	m.properties[scopedKey(p.TenantID, p.ID)] = p
	m.mu.Unlock()
}

func (m *MemoryRepositories) SeedPayment(tx PaymentTransaction) {
	m.mu.Lock()
	m.payments[scopedKey(tx.TenantID, tx.ID)] = tx
	m.mu.Unlock()
}

// ReservationList returns a tenant's reservations, for test inspection.
func (m *MemoryRepositories) ReservationList(tenantID string) []Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Reservation
	for _, r := range m.reservations {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	return out
}

// VisitList returns a tenant's scheduled visits, for test inspection.
func (m *MemoryRepositories) VisitList(tenantID string) []Visit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Visit
	for _, v := range m.visits {
		if v.TenantID == tenantID {
			out = append(out, v)
		}
	}
	return out
}

// MediaSends returns all recorded media deliveries, for test inspection.
func (m *MemoryRepositories) MediaSends() []MediaSend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MediaSend(nil), m.mediaSends...)
}

type memCatalog struct {
	m *MemoryRepositories
}

func (c *memCatalog) Search(_ context.Context, tenantID string, f PropertyFilter) ([]Property, error) {
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()

	var out []Property
	for _, p := range c.m.properties {
		if p.TenantID != tenantID {
			continue
		}
		if city := strings.TrimSpace(f.City); city != "" && !strings.EqualFold(p.City, city) {
			continue
		}
		if f.Guests > 0 && p.MaxGuests < f.Guests {
			continue
		}
		if !hasAllAmenities(p.Amenities, f.Amenities) {
			continue
		}
		out = append(out, p)
	}
	sortPropertiesByRate(out)
	return out, nil
}

func (c *memCatalog) Get(_ context.Context, tenantID, propertyID string) (*Property, error) {
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()

	p, ok := c.m.properties[scopedKey(tenantID, propertyID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func hasAllAmenities(have, want []string) bool {
	for _, w := range want {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Cheapest first, stable for equal rates.
func sortPropertiesByRate(props []Property) {
	for i := 1; i < len(props); i++ {
		for j := i; j > 0 && props[j].NightlyRateCents < props[j-1].NightlyRateCents; j-- {
			props[j], props[j-1] = props[j-1], props[j]
		}
	}
}

type memClients struct {
	m *MemoryRepositories
}

func (c *memClients) Create(_ context.Context, cl *Client) error {
	c.m.mu.Lock()
	c.m.clients[scopedKey(cl.TenantID, cl.ID)] = *cl
	c.m.mu.Unlock()
	return nil
}

func (c *memClients) Get(_ context.Context, tenantID, clientID string) (*Client, error) {
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()

	cl, ok := c.m.clients[scopedKey(tenantID, clientID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &cl, nil
}

type memReservations struct {
	m *MemoryRepositories
}

func (r *memReservations) Create(_ context.Context, res *Reservation) error {
	r.m.mu.Lock()
	r.m.reservations[scopedKey(res.TenantID, res.ID)] = *res
	r.m.mu.Unlock()
	return nil
}

type memPayments struct {
	m *MemoryRepositories
}

func (p *memPayments) Get(_ context.Context, tenantID, transactionID string) (*PaymentTransaction, error) {
	p.m.mu.RLock()
	defer p.m.mu.RUnlock()

	tx, ok := p.m.payments[scopedKey(tenantID, transactionID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &tx, nil
}

func (p *memPayments) Update(_ context.Context, tx *PaymentTransaction) error {
	key := scopedKey(tx.TenantID, tx.ID)

	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if _, ok := p.m.payments[key]; !ok {
		return ErrNotFound
	}
	p.m.payments[key] = *tx
	return nil
}

type memVisits struct {
	m *MemoryRepositories
}

func (v *memVisits) Create(_ context.Context, visit *Visit) error {
	v.m.mu.Lock()
	v.m.visits[scopedKey(visit.TenantID, visit.ID)] = *visit
	v.m.mu.Unlock()
	return nil
}

type memMedia struct {
	m *MemoryRepositories
}

func (s *memMedia) Send(_ context.Context, tenantID, phone string, urls []string) error {
	s.m.mu.Lock()
	s.m.mediaSends = append(s.m.mediaSends, MediaSend{
		TenantID: tenantID,
		Phone:    phone,
		URLs:     append([]string(nil), urls...),
	})
	s.m.mu.Unlock()
	return nil
}
