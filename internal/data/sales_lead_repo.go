package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/panai/console/internal/data/pgxutil"
	"github.com/panai/console/internal/domain/model"
	apperrors "github.com/panai/console/internal/errors"
)

const (
	defaultLeadListLimit = 50
	maxLeadListLimit     = 500
)

const salesLeadColumns = `id, first_name, last_name, email, phone, role, decision_maker,
	pharmacy_name, pharmacy_address, pharmacy_city, pharmacy_state, pharmacy_zip,
	pharmacy_size, notes, created_at, updated_at`

// SalesLeadRepo stores sales form submissions in the sales_signups table.
type SalesLeadRepo struct {
	DB  pgxutil.Querier
	now func() time.Time
}

// NewSalesLeadRepo creates a SalesLeadRepo over a pgx pool (or anything query-compatible).
func NewSalesLeadRepo(db pgxutil.Querier) *SalesLeadRepo {
	return &SalesLeadRepo{DB: db, now: time.Now}
}

// Create inserts lead and fills its ID and timestamps.
func (r *SalesLeadRepo) Create(ctx context.Context, lead *model.SalesLead) error {
	if lead == nil {
		return errors.New("sales lead is required")
	}

	now := r.now().UTC()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO sales_signups (
			first_name, last_name, email, phone, role, decision_maker,
			pharmacy_name, pharmacy_address, pharmacy_city, pharmacy_state,
			pharmacy_zip, pharmacy_size, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING id, created_at, updated_at`,
		lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.Role, lead.DecisionMaker,
		lead.PharmacyName, lead.PharmacyAddress, lead.PharmacyCity, lead.PharmacyState,
		lead.PharmacyZip, lead.PharmacySize, lead.Notes, now,
	)
	if err := row.Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return fmt.Errorf("insert sales lead: %w", apperrors.MapDBError(err))
	}
	return nil
}

// List returns leads newest first.
func (r *SalesLeadRepo) List(ctx context.Context, opts model.SalesLeadListOptions) ([]model.SalesLead, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLeadListLimit
	}
	limit = min(limit, maxLeadListLimit)
	offset := max(opts.Offset, 0)

	rows, err := r.DB.Query(ctx,
		`SELECT `+salesLeadColumns+` FROM sales_signups ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales leads: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	leads := make([]model.SalesLead, 0, limit)
	for rows.Next() {
		lead, scanErr := scanSalesLead(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		leads = append(leads, lead)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales leads: %w", apperrors.MapDBError(err))
	}
	return leads, nil
}

func scanSalesLead(row pgx.Row) (model.SalesLead, error) {
	var l model.SalesLead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Role, &l.DecisionMaker,
		&l.PharmacyName, &l.PharmacyAddress, &l.PharmacyCity, &l.PharmacyState, &l.PharmacyZip,
		&l.PharmacySize, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return model.SalesLead{}, fmt.Errorf("scan sales lead: %w", err)
	}
	return l, nil
}
