package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
)

// MetricsService records engagement events. Increments create the counters
// document on first use while Get reports a portfolio without one as missing.
type MetricsService interface {
	Increment(ctx context.Context, portfolioID string, field domain.MetricField, amount int64) (*domain.Metrics, error)
	Get(ctx context.Context, portfolioID string) (*domain.Metrics, error)
}

type metricsService struct {
	metrics    repository.MetricsRepository
	portfolios repository.PortfolioRepository
	logger     *logrus.Logger
}

func NewMetricsService(metrics repository.MetricsRepository, portfolios repository.PortfolioRepository, logger *logrus.Logger) MetricsService {
	if logger == nil {
		logger = logrus.New()
	}
	return &metricsService{
		metrics:    metrics,
		portfolios: portfolios,
		logger:     logger,
	}
}

func (s *metricsService) Increment(ctx context.Context, portfolioID string, field domain.MetricField, amount int64) (*domain.Metrics, error) {
	if !field.Valid() {
		return nil, domain.E(domain.KindValidation, "unknown metric")
	}
	if amount < 0 {
		return nil, domain.E(domain.KindValidation, "amount must not be negative")
	}

	// the owner is only recorded when the document is created; counters for
	// unknown portfolios are still accepted
	var ownerID string
	if p, err := s.portfolios.Get(ctx, portfolioID); err == nil {
		ownerID = p.UserID
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WithError(err).WithField("portfolio_id", portfolioID).Warn("resolve metrics owner")
	}

	return s.metrics.Increment(ctx, portfolioID, ownerID, field, amount)
}

func (s *metricsService) Get(ctx context.Context, portfolioID string) (*domain.Metrics, error) {
	return s.metrics.GetByPortfolio(ctx, portfolioID)
}
