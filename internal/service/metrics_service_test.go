package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectshelf/internal/domain"
)

func TestIncrementOnFreshPortfolio(t *testing.T) {
	users := newMemUsers()
	svc := NewMetricsService(newMemMetrics(), newMemPortfolios(users), quietLogger())
	ctx := context.Background()

	_, err := svc.Get(ctx, "fresh")
	require.ErrorIs(t, err, domain.ErrNotFound)

	const n = 5
	var m *domain.Metrics
	for i := 0; i < n; i++ {
		m, err = svc.Increment(ctx, "fresh", domain.MetricViews, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(n), m.Views)
	assert.Equal(t, "fresh", m.PortfolioID)
	assert.Empty(t, m.UserID)

	got, err := svc.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Views)
}

func TestIncrementRecordsOwner(t *testing.T) {
	users := newMemUsers()
	portfolios := newMemPortfolios(users)
	svc := NewMetricsService(newMemMetrics(), portfolios, quietLogger())
	ctx := context.Background()

	alice := seedUser(t, users, "alice")
	p := &domain.Portfolio{UserID: alice.ID, Title: "t", Slug: "t", Overview: "o"}
	_, err := portfolios.Create(ctx, p)
	require.NoError(t, err)

	m, err := svc.Increment(ctx, p.ID, domain.MetricEngagementTime, 90)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, m.UserID)
	assert.Equal(t, int64(90), m.EngagementTime)

	m, err = svc.Increment(ctx, p.ID, domain.MetricClickThroughs, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ClickThroughs)
	assert.Equal(t, int64(90), m.EngagementTime)
}

func TestIncrementValidation(t *testing.T) {
	svc := NewMetricsService(newMemMetrics(), newMemPortfolios(newMemUsers()), quietLogger())
	ctx := context.Background()

	_, err := svc.Increment(ctx, "p", domain.MetricEngagementTime, -3)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Increment(ctx, "p", domain.MetricField("shares"), 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
