package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
)

const createPortfoliosTable = `
CREATE TABLE IF NOT EXISTS portfolios (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	overview TEXT NOT NULL,
	media TEXT NOT NULL DEFAULT '{}',
	timeline TEXT NOT NULL DEFAULT '',
	tools TEXT NOT NULL DEFAULT '[]',
	outcome_metrics TEXT NOT NULL DEFAULT '',
	outcome_testimonials TEXT NOT NULL DEFAULT '',
	theme TEXT NOT NULL DEFAULT 'classic',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_portfolios_user_id ON portfolios(user_id);
`

const portfolioColumns = `id, user_id, title, slug, overview, media, timeline, tools, outcome_metrics, outcome_testimonials, theme, created_at, updated_at`

const slugTakenMessage = "Title already exists. Choose a different title."

type PortfolioRepository struct {
	db *sql.DB
}

func NewPortfolioRepository(db *sql.DB) repository.PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPortfoliosTable); err != nil {
		return fmt.Errorf("create portfolios table: %w", err)
	}
	return nil
}

// storedMedia mirrors domain.Media in the JSON column.
type storedMedia struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
	Links  []string `json:"links"`
}

func encodeMedia(m domain.Media) (string, error) {
	b, err := json.Marshal(storedMedia{Images: m.Images, Videos: m.Videos, Links: m.Links})
	if err != nil {
		return "", fmt.Errorf("encode media: %w", err)
	}
	return string(b), nil
}

func encodeTools(tools []string) (string, error) {
	if tools == nil {
		tools = []string{}
	}
	b, err := json.Marshal(tools)
	if err != nil {
		return "", fmt.Errorf("encode tools: %w", err)
	}
	return string(b), nil
}

func (r *PortfolioRepository) Create(ctx context.Context, p *domain.Portfolio) (string, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	media, err := encodeMedia(p.Media)
	if err != nil {
		return "", err
	}
	tools, err := encodeTools(p.Tools)
	if err != nil {
		return "", err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO portfolios (`+portfolioColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.Title,
		p.Slug,
		p.Overview,
		media,
		p.Timeline,
		tools,
		p.Outcomes.Metrics,
		p.Outcomes.Testimonials,
		string(p.Theme),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Wrap(domain.KindConflict, slugTakenMessage, err)
		}
		return "", fmt.Errorf("insert portfolio: %w", err)
	}
	return p.ID, nil
}

func (r *PortfolioRepository) Update(ctx context.Context, ownerID, id string, patch domain.PortfolioPatch) (*domain.Portfolio, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+"=?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Overview != nil {
		set("overview", *patch.Overview)
	}
	if patch.Media != nil {
		media, err := encodeMedia(*patch.Media)
		if err != nil {
			return nil, err
		}
		set("media", media)
	}
	if patch.Timeline != nil {
		set("timeline", *patch.Timeline)
	}
	if patch.Tools != nil {
		tools, err := encodeTools(*patch.Tools)
		if err != nil {
			return nil, err
		}
		set("tools", tools)
	}
	if patch.Outcomes != nil {
		set("outcome_metrics", patch.Outcomes.Metrics)
		set("outcome_testimonials", patch.Outcomes.Testimonials)
	}
	if patch.Theme != nil {
		set("theme", string(*patch.Theme))
	}
	set("updated_at", time.Now().UTC())
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE portfolios SET `+strings.Join(sets, ", ")+` WHERE id=? AND user_id=?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update portfolio: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("portfolio update rows affected: %w", err)
	}
	if aff == 0 {
		return nil, domain.E(domain.KindNotFound, "Portfolio not found")
	}
	return r.Get(ctx, id)
}

func (r *PortfolioRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id=? AND user_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete portfolio: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("portfolio delete rows affected: %w", err)
	}
	if aff == 0 {
		return domain.E(domain.KindNotFound, "Portfolio not found")
	}
	return nil
}

func (r *PortfolioRepository) Get(ctx context.Context, id string) (*domain.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE id=?`, id)
	return scanPortfolio(row)
}

func (r *PortfolioRepository) GetBySlug(ctx context.Context, slug string) (*domain.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE slug=?`, slug)
	return scanPortfolio(row)
}

func (r *PortfolioRepository) GetByOwnerAndSlug(ctx context.Context, ownerID, slug string) (*domain.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE user_id=? AND slug=?`, ownerID, slug)
	return scanPortfolio(row)
}

func (r *PortfolioRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+portfolioColumns+`
FROM portfolios
WHERE user_id=?
ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := []domain.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, *p)
	}
	return portfolios, rows.Err()
}

func (r *PortfolioRepository) ListSummaries(ctx context.Context) ([]domain.PortfolioSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.title, p.overview, p.tools, p.slug, u.id, u.user_name
FROM portfolios p
JOIN users u ON u.id = p.user_id
ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query portfolio summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.PortfolioSummary{}
	for rows.Next() {
		var (
			s     domain.PortfolioSummary
			tools string
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Overview, &tools, &s.Slug, &s.Owner.ID, &s.Owner.UserName); err != nil {
			return nil, fmt.Errorf("scan portfolio summary: %w", err)
		}
		if err := json.Unmarshal([]byte(tools), &s.Tools); err != nil {
			return nil, fmt.Errorf("decode tools: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func scanPortfolio(scanner interface {
	Scan(dest ...any) error
}) (*domain.Portfolio, error) {
	var (
		p     domain.Portfolio
		media string
		tools string
		theme string
	)
	if err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Slug,
		&p.Overview,
		&media,
		&p.Timeline,
		&tools,
		&p.Outcomes.Metrics,
		&p.Outcomes.Testimonials,
		&theme,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if nf := notFound(err, "Portfolio not found"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("scan portfolio: %w", err)
	}

	var m storedMedia
	if err := json.Unmarshal([]byte(media), &m); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	p.Media = domain.Media{Images: m.Images, Videos: m.Videos, Links: m.Links}
	if err := json.Unmarshal([]byte(tools), &p.Tools); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}
	p.Theme = domain.Theme(theme)
	return &p, nil
}
