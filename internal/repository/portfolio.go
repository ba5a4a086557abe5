package repository

import (
	"context"

	"projectshelf/internal/domain"
)

// PortfolioRepository persists portfolios. Update and Delete filter on both id
// and owner, so a portfolio owned by someone else is reported as
// domain.ErrNotFound exactly like a missing one.
type PortfolioRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, portfolio *domain.Portfolio) (string, error)
	Update(ctx context.Context, ownerID, id string, patch domain.PortfolioPatch) (*domain.Portfolio, error)
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, id string) (*domain.Portfolio, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Portfolio, error)
	GetByOwnerAndSlug(ctx context.Context, ownerID, slug string) (*domain.Portfolio, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Portfolio, error)
	ListSummaries(ctx context.Context) ([]domain.PortfolioSummary, error)
}

// MetricsRepository keeps one counters document per portfolio.
type MetricsRepository interface {
	Init(ctx context.Context) error
	// Increment atomically adds amount to field, creating the document when it
	// does not exist yet, and returns the document after the change. ownerID
	// is recorded only when the document is created.
	Increment(ctx context.Context, portfolioID, ownerID string, field domain.MetricField, amount int64) (*domain.Metrics, error)
	GetByPortfolio(ctx context.Context, portfolioID string) (*domain.Metrics, error)
}
