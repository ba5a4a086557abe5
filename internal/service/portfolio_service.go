package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
	"projectshelf/internal/slug"
)

// PortfolioInput is the body of a new portfolio.
type PortfolioInput struct {
	Title    string
	Overview string
	Media    domain.Media
	Timeline string
	Tools    []string
	Outcomes domain.Outcomes
	Theme    domain.Theme
}

// PortfolioService coordinates portfolio operations. Mutations are always
// scoped to the caller: a portfolio owned by someone else behaves as missing.
type PortfolioService interface {
	Create(ctx context.Context, ownerID string, in PortfolioInput) (*domain.Portfolio, error)
	Update(ctx context.Context, ownerID, id string, patch domain.PortfolioPatch) (*domain.Portfolio, error)
	Delete(ctx context.Context, ownerID, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Portfolio, error)
	Get(ctx context.Context, id string) (*domain.Portfolio, error)
	GetByOwnerNameAndSlug(ctx context.Context, userName, slug string) (*domain.Portfolio, domain.Owner, error)
	ListPublic(ctx context.Context) ([]domain.PortfolioSummary, error)
}

type portfolioService struct {
	portfolios repository.PortfolioRepository
	users      repository.UserRepository
	logger     *logrus.Logger
}

func NewPortfolioService(portfolios repository.PortfolioRepository, users repository.UserRepository, logger *logrus.Logger) PortfolioService {
	if logger == nil {
		logger = logrus.New()
	}
	return &portfolioService{
		portfolios: portfolios,
		users:      users,
		logger:     logger,
	}
}

func (s *portfolioService) Create(ctx context.Context, ownerID string, in PortfolioInput) (*domain.Portfolio, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.E(domain.KindValidation, "title is required")
	}
	if strings.TrimSpace(in.Overview) == "" {
		return nil, domain.E(domain.KindValidation, "overview is required")
	}
	theme := in.Theme
	if theme == "" {
		theme = domain.ThemeClassic
	}
	if !theme.Valid() {
		return nil, domain.E(domain.KindValidation, "theme must be one of classic, modern, minimalist")
	}

	derived := slug.Make(title)
	if derived == "" {
		return nil, domain.E(domain.KindValidation, "title must contain at least one letter or digit")
	}

	// a concurrent duplicate still fails at insert time on the unique index
	if _, err := s.portfolios.GetBySlug(ctx, derived); err == nil {
		return nil, domain.E(domain.KindConflict, "Title already exists. Choose a different title.")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	p := &domain.Portfolio{
		UserID:   ownerID,
		Title:    title,
		Slug:     derived,
		Overview: in.Overview,
		Media:    in.Media,
		Timeline: in.Timeline,
		Tools:    in.Tools,
		Outcomes: in.Outcomes,
		Theme:    theme,
	}
	if _, err := s.portfolios.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"portfolio_id": p.ID, "user_id": ownerID, "slug": p.Slug}).Info("portfolio created")
	return p, nil
}

// Update applies patch without touching the slug, even when the title changes.
func (s *portfolioService) Update(ctx context.Context, ownerID, id string, patch domain.PortfolioPatch) (*domain.Portfolio, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.E(domain.KindValidation, "title cannot be empty")
		}
		patch.Title = &title
	}
	if patch.Overview != nil && strings.TrimSpace(*patch.Overview) == "" {
		return nil, domain.E(domain.KindValidation, "overview cannot be empty")
	}
	if patch.Theme != nil && !patch.Theme.Valid() {
		return nil, domain.E(domain.KindValidation, "theme must be one of classic, modern, minimalist")
	}

	return s.portfolios.Update(ctx, ownerID, id, patch)
}

func (s *portfolioService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.portfolios.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"portfolio_id": id, "user_id": ownerID}).Info("portfolio deleted")
	return nil
}

func (s *portfolioService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Portfolio, error) {
	return s.portfolios.ListByOwner(ctx, ownerID)
}

func (s *portfolioService) Get(ctx context.Context, id string) (*domain.Portfolio, error) {
	return s.portfolios.Get(ctx, id)
}

func (s *portfolioService) GetByOwnerNameAndSlug(ctx context.Context, userName, portfolioSlug string) (*domain.Portfolio, domain.Owner, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Owner{}, domain.E(domain.KindNotFound, "User not found")
		}
		return nil, domain.Owner{}, err
	}

	p, err := s.portfolios.GetByOwnerAndSlug(ctx, user.ID, slug.Normalize(portfolioSlug))
	if err != nil {
		return nil, domain.Owner{}, err
	}
	return p, domain.Owner{ID: user.ID, UserName: user.UserName}, nil
}

func (s *portfolioService) ListPublic(ctx context.Context) ([]domain.PortfolioSummary, error) {
	return s.portfolios.ListSummaries(ctx)
}
