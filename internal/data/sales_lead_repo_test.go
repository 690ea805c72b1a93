package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panai/console/internal/domain/model"
	apperrors "github.com/panai/console/internal/errors"
)

func newLeadRepo(t *testing.T) (*SalesLeadRepo, pgxmock.PgxPoolIface, time.Time) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	fixed := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	repo := NewSalesLeadRepo(mock)
	repo.now = func() time.Time { return fixed }
	return repo, mock, fixed
}

func sampleLead() *model.SalesLead {
	phone := "+15555550100"
	size := "independent"
	return &model.SalesLead{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@mainstreetrx.test",
		Phone:         &phone,
		Role:          "owner",
		DecisionMaker: "yes",
		PharmacyName:  "Main Street Rx",
		PharmacySize:  &size,
	}
}

func TestSalesLeadRepo_Create(t *testing.T) {
	repo, mock, now := newLeadRepo(t)
	lead := sampleLead()

	mock.ExpectQuery("INSERT INTO sales_signups").
		WithArgs(
			lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.Role, lead.DecisionMaker,
			lead.PharmacyName, lead.PharmacyAddress, lead.PharmacyCity, lead.PharmacyState,
			lead.PharmacyZip, lead.PharmacySize, lead.Notes, now,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("4f7c3f6e-0c1e-4c55-9b8e-1d2a3b4c5d6e", now, now))

	require.NoError(t, repo.Create(context.Background(), lead))
	assert.Equal(t, "4f7c3f6e-0c1e-4c55-9b8e-1d2a3b4c5d6e", lead.ID)
	assert.Equal(t, now, lead.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesLeadRepo_Create_UniqueViolationIsConflict(t *testing.T) {
	repo, mock, _ := newLeadRepo(t)

	mock.ExpectQuery("INSERT INTO sales_signups").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{
			Code:      pgerrcode.UniqueViolation,
			TableName: "sales_signups",
			Detail:    "Key (email)=(ada@mainstreetrx.test) already exists.",
		})

	err := repo.Create(context.Background(), sampleLead())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesLeadRepo_Create_NilLead(t *testing.T) {
	repo, _, _ := newLeadRepo(t)
	assert.Error(t, repo.Create(context.Background(), nil))
}

func TestSalesLeadRepo_List(t *testing.T) {
	repo, mock, now := newLeadRepo(t)
	notes := "Call after 3pm"
	var none *string

	rows := pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone", "role", "decision_maker",
		"pharmacy_name", "pharmacy_address", "pharmacy_city", "pharmacy_state", "pharmacy_zip",
		"pharmacy_size", "notes", "created_at", "updated_at",
	}).
		AddRow("l2", "Grace", "Hopper", "grace@rx.test", none, "pharmacist", "influence",
			"Harbor Pharmacy", none, none, none, none, none, &notes, now, now).
		AddRow("l1", "Ada", "Lovelace", "ada@rx.test", none, "owner", "yes",
			"Main Street Rx", none, none, none, none, none, none, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM sales_signups ORDER BY created_at DESC").
		WithArgs(defaultLeadListLimit, 0).
		WillReturnRows(rows)

	leads, err := repo.List(context.Background(), model.SalesLeadListOptions{Offset: -5})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "l2", leads[0].ID)
	require.NotNil(t, leads[0].Notes)
	assert.Equal(t, "Call after 3pm", *leads[0].Notes)
	assert.Nil(t, leads[1].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalesLeadRepo_List_ClampsLimitAndMapsErrors(t *testing.T) {
	repo, mock, _ := newLeadRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM sales_signups").
		WithArgs(maxLeadListLimit, 10).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.List(context.Background(), model.SalesLeadListOptions{Limit: 10_000, Offset: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.NoError(t, mock.ExpectationsWereMet())
}
