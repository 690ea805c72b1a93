package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/testutil"
)

func TestSalesLeadRepo_Postgres(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSalesLeadRepo(db)
	ctx := context.Background()

	base := testutil.TestTime()
	repo.now = testutil.FixedTimeFunc(base)
	first := testutil.NewSalesLeadRequest().WithPharmacy("Corner Rx", "Albany").Build()
	firstLead := first.Lead()
	require.NoError(t, repo.Create(ctx, &firstLead))
	assert.NotEmpty(t, firstLead.ID)
	assert.True(t, firstLead.CreatedAt.Equal(base))

	repo.now = testutil.FixedTimeFunc(base.Add(time.Minute))
	second := testutil.NewSalesLeadRequest().
		WithEmail("sam@harbor-pharmacy.test").
		WithPharmacy("Harbor Pharmacy", "").
		WithNotes("call after 3pm").
		Build()
	secondLead := second.Lead()
	require.NoError(t, repo.Create(ctx, &secondLead))

	leads, err := repo.List(ctx, model.SalesLeadListOptions{})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Harbor Pharmacy", leads[0].PharmacyName)
	assert.Nil(t, leads[0].PharmacyCity)
	require.NotNil(t, leads[0].Notes)
	assert.Equal(t, "call after 3pm", *leads[0].Notes)
	assert.Equal(t, "Corner Rx", leads[1].PharmacyName)
	require.NotNil(t, leads[1].PharmacyCity)
	assert.Equal(t, "Albany", *leads[1].PharmacyCity)

	page, err := repo.List(ctx, model.SalesLeadListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, firstLead.ID, page[0].ID)
}
