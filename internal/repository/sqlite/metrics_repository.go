package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
)

// portfolio_id is not a foreign key: counters may be recorded for ids that
// never existed or were deleted since.
const createMetricsTable = `
CREATE TABLE IF NOT EXISTS metrics (
	id TEXT PRIMARY KEY,
	portfolio_id TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL DEFAULT '',
	views INTEGER NOT NULL DEFAULT 0,
	likes INTEGER NOT NULL DEFAULT 0,
	comments INTEGER NOT NULL DEFAULT 0,
	click_throughs INTEGER NOT NULL DEFAULT 0,
	engagement_time INTEGER NOT NULL DEFAULT 0,
	last_updated DATETIME NOT NULL
);
`

const metricsColumns = `id, portfolio_id, user_id, views, likes, comments, click_throughs, engagement_time, last_updated`

type MetricsRepository struct {
	db *sql.DB
}

func NewMetricsRepository(db *sql.DB) repository.MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMetricsTable); err != nil {
		return fmt.Errorf("create metrics table: %w", err)
	}
	return nil
}

func metricColumn(field domain.MetricField) (string, error) {
	switch field {
	case domain.MetricViews:
		return "views", nil
	case domain.MetricLikes:
		return "likes", nil
	case domain.MetricComments:
		return "comments", nil
	case domain.MetricClickThroughs:
		return "click_throughs", nil
	case domain.MetricEngagementTime:
		return "engagement_time", nil
	}
	return "", domain.E(domain.KindValidation, fmt.Sprintf("unknown metric %q", field))
}

func (r *MetricsRepository) Increment(ctx context.Context, portfolioID, ownerID string, field domain.MetricField, amount int64) (*domain.Metrics, error) {
	column, err := metricColumn(field)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO metrics (id, portfolio_id, user_id, `+column+`, last_updated)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(portfolio_id) DO UPDATE SET
	`+column+` = `+column+` + excluded.`+column+`,
	last_updated = excluded.last_updated`,
		uuid.NewString(),
		portfolioID,
		ownerID,
		amount,
		time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("increment %s: %w", field, err)
	}

	m, err := scanMetrics(tx.QueryRowContext(ctx, `SELECT `+metricsColumns+` FROM metrics WHERE portfolio_id=?`, portfolioID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit increment: %w", err)
	}
	return m, nil
}

func (r *MetricsRepository) GetByPortfolio(ctx context.Context, portfolioID string) (*domain.Metrics, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+metricsColumns+` FROM metrics WHERE portfolio_id=?`, portfolioID)
	return scanMetrics(row)
}

func scanMetrics(scanner interface {
	Scan(dest ...any) error
}) (*domain.Metrics, error) {
	var m domain.Metrics
	if err := scanner.Scan(
		&m.ID,
		&m.PortfolioID,
		&m.UserID,
		&m.Views,
		&m.Likes,
		&m.Comments,
		&m.ClickThroughs,
		&m.EngagementTime,
		&m.LastUpdated,
	); err != nil {
		if nf := notFound(err, "Metrics not found for this portfolio"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("scan metrics: %w", err)
	}
	return &m, nil
}
