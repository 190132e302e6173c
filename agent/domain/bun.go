package domain

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Repositories bundles the Postgres-backed collaborator implementations.
type Repositories struct {
	db *bun.DB
}

// NewRepositories connects to Postgres and returns the bun-backed
// repository set. The caller owns the lifecycle via Close.
func NewRepositories(dsn string) (*Repositories, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &Repositories{db: db}, nil
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

func (r *Repositories) Properties() PropertyCatalog       { return &bunProperties{db: r.db} }
func (r *Repositories) Clients() ClientRepository         { return &bunClients{db: r.db} }
func (r *Repositories) Reservations() ReservationRepository { return &bunReservations{db: r.db} }
func (r *Repositories) Payments() PaymentRepository       { return &bunPayments{db: r.db} }
func (r *Repositories) Visits() VisitRepository           { return &bunVisits{db: r.db} }

type propertyRow struct {
	bun.BaseModel `bun:"table:properties"`

	ID                 string   `bun:"id,pk"`
	TenantID           string   `bun:"tenant_id"`
	Title              string   `bun:"title"`
	City               string   `bun:"city"`
	MaxGuests          int      `bun:"max_guests"`
	IncludedGuests     int      `bun:"included_guests"`
	MinimumNights      int      `bun:"minimum_nights"`
	NightlyRateCents   int64    `bun:"nightly_rate_cents"`
	CleaningFeeCents   int64    `bun:"cleaning_fee_cents"`
	ExtraGuestFeeCents int64    `bun:"extra_guest_fee_cents"`
	Amenities          []string `bun:"amenities,array"`
	MediaURLs          []string `bun:"media_urls,array"`
}

func (p *propertyRow) toDomain() Property {
	return Property{
		ID:                 p.ID,
		TenantID:           p.TenantID,
		Title:              p.Title,
		City:               p.City,
		MaxGuests:          p.MaxGuests,
		IncludedGuests:     p.IncludedGuests,
		MinimumNights:      p.MinimumNights,
		NightlyRateCents:   p.NightlyRateCents,
		CleaningFeeCents:   p.CleaningFeeCents,
		ExtraGuestFeeCents: p.ExtraGuestFeeCents,
		Amenities:          p.Amenities,
		MediaURLs:          p.MediaURLs,
	}
}

type bunProperties struct {
	db *bun.DB
}

func (b *bunProperties) Search(ctx context.Context, tenantID string, f PropertyFilter) ([]Property, error) {
	var rows []propertyRow
	q := b.db.NewSelect().
		Model(&rows).
		Where("tenant_id = ?", tenantID).
		Order("nightly_rate_cents ASC")

	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("lower(city) = lower(?)", city)
	}
	if f.Guests > 0 {
		q = q.Where("max_guests >= ?", f.Guests)
	}
	for _, a := range f.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			q = q.Where("? = ANY(amenities)", strings.ToLower(a))
		}
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	out := make([]Property, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (b *bunProperties) Get(ctx context.Context, tenantID, propertyID string) (*Property, error) {
	row := new(propertyRow)
	err := b.db.NewSelect().
		Model(row).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", propertyID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	p := row.toDomain()
	return &p, nil
}

type clientRow struct {
	bun.BaseModel `bun:"table:clients"`

	ID        string    `bun:"id,pk"`
	TenantID  string    `bun:"tenant_id"`
	Name      string    `bun:"name"`
	Document  string    `bun:"document"`
	Email     string    `bun:"email"`
	CreatedAt time.Time `bun:"created_at"`
}

type bunClients struct {
	db *bun.DB
}

func (b *bunClients) Create(ctx context.Context, c *Client) error {
	row := &clientRow{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
	if _, err := b.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (b *bunClients) Get(ctx context.Context, tenantID, clientID string) (*Client, error) {
	row := new(clientRow)
	err := b.db.NewSelect().
		Model(row).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", clientID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &Client{
		ID:        row.ID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		Document:  row.Document,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
	}, nil
}

type reservationRow struct {
	bun.BaseModel `bun:"table:reservations"`

	ID         string    `bun:"id,pk"`
	TenantID   string    `bun:"tenant_id"`
	PropertyID string    `bun:"property_id"`
	ClientID   string    `bun:"client_id"`
	CheckIn    time.Time `bun:"check_in"`
	CheckOut   time.Time `bun:"check_out"`
	Guests     int       `bun:"guests"`
	TotalCents int64     `bun:"total_cents"`
	CreatedAt  time.Time `bun:"created_at"`
}

type bunReservations struct {
	db *bun.DB
}

func (b *bunReservations) Create(ctx context.Context, r *Reservation) error {
	row := &reservationRow{
		ID:         r.ID,
		TenantID:   r.TenantID,
		PropertyID: r.PropertyID,
		ClientID:   r.ClientID,
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Guests:     r.Guests,
		TotalCents: r.TotalCents,
		CreatedAt:  r.CreatedAt,
	}
	if _, err := b.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

type paymentRow struct {
	bun.BaseModel `bun:"table:payment_transactions"`

	ID          string    `bun:"id,pk"`
	TenantID    string    `bun:"tenant_id"`
	Status      string    `bun:"status"`
	AmountCents int64     `bun:"amount_cents"`
	Notes       string    `bun:"notes"`
	UpdatedAt   time.Time `bun:"updated_at"`
}

type bunPayments struct {
	db *bun.DB
}

func (b *bunPayments) Get(ctx context.Context, tenantID, transactionID string) (*PaymentTransaction, error) {
	row := new(paymentRow)
	err := b.db.NewSelect().
		Model(row).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", transactionID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &PaymentTransaction{
		ID:          row.ID,
		TenantID:    row.TenantID,
		Status:      PaymentStatus(row.Status),
		AmountCents: row.AmountCents,
		Notes:       row.Notes,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (b *bunPayments) Update(ctx context.Context, tx *PaymentTransaction) error {
	row := &paymentRow{
		ID:          tx.ID,
		TenantID:    tx.TenantID,
		Status:      string(tx.Status),
		AmountCents: tx.AmountCents,
		Notes:       tx.Notes,
		UpdatedAt:   tx.UpdatedAt,
	}
	res, err := b.db.NewUpdate().
		Model(row).
		WherePK().
		Where("tenant_id = ?", tx.TenantID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type visitRow struct {
	bun.BaseModel `bun:"table:visits"`

	ID         string    `bun:"id,pk"`
	TenantID   string    `bun:"tenant_id"`
	PropertyID string    `bun:"property_id"`
	Date       time.Time `bun:"date"`
	Time       string    `bun:"time"`
	CreatedAt  time.Time `bun:"created_at"`
}

type bunVisits struct {
	db *bun.DB
}

func (b *bunVisits) Create(ctx context.Context, v *Visit) error {
	row := &visitRow{
		ID:         v.ID,
		TenantID:   v.TenantID,
		PropertyID: v.PropertyID,
		Date:       v.Date,
		Time:       v.Time,
		CreatedAt:  v.CreatedAt,
	}
	if _, err := b.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("create visit: %w", err)
	}
	return nil
}
