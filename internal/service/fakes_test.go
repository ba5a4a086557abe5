package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"projectshelf/internal/domain"
)

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]domain.User{}} }

func (m *memUsers) Init(context.Context) error { return nil }

func (m *memUsers) Create(_ context.Context, u *domain.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return "", domain.E(domain.KindConflict, "Email already exists")
		}
		if existing.UserName == u.UserName {
			return "", domain.E(domain.KindConflict, "Username already exists")
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u%d", m.seq)
	m.users[u.ID] = *u
	return u.ID, nil
}

func (m *memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, domain.E(domain.KindNotFound, "User not found")
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *memUsers) GetByUserName(_ context.Context, name string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.UserName == name })
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

type memPortfolios struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.Portfolio
	users *memUsers
	// createErr, when set, is returned by Create to simulate a lost race on the unique index.
	createErr error
}

func newMemPortfolios(users *memUsers) *memPortfolios {
	return &memPortfolios{items: map[string]domain.Portfolio{}, users: users}
}

func (m *memPortfolios) Init(context.Context) error { return nil }

func (m *memPortfolios) Create(_ context.Context, p *domain.Portfolio) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	for _, existing := range m.items {
		if existing.Slug == p.Slug {
			return "", domain.E(domain.KindConflict, "Title already exists. Choose a different title.")
		}
	}
	m.seq++
	p.ID = fmt.Sprintf("p%d", m.seq)
	p.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = *p
	return p.ID, nil
}

func (m *memPortfolios) Update(_ context.Context, ownerID, id string, patch domain.PortfolioPatch) (*domain.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.UserID != ownerID {
		return nil, domain.E(domain.KindNotFound, "Portfolio not found")
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Overview != nil {
		p.Overview = *patch.Overview
	}
	if patch.Media != nil {
		p.Media = *patch.Media
	}
	if patch.Timeline != nil {
		p.Timeline = *patch.Timeline
	}
	if patch.Tools != nil {
		p.Tools = *patch.Tools
	}
	if patch.Outcomes != nil {
		p.Outcomes = *patch.Outcomes
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	p.UpdatedAt = time.Now()
	m.items[id] = p
	return &p, nil
}

func (m *memPortfolios) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.UserID != ownerID {
		return domain.E(domain.KindNotFound, "Portfolio not found")
	}
	delete(m.items, id)
	return nil
}

func (m *memPortfolios) find(match func(domain.Portfolio) bool) (*domain.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if match(p) {
			p := p
			return &p, nil
		}
	}
	return nil, domain.E(domain.KindNotFound, "Portfolio not found")
}

func (m *memPortfolios) Get(_ context.Context, id string) (*domain.Portfolio, error) {
	return m.find(func(p domain.Portfolio) bool { return p.ID == id })
}

func (m *memPortfolios) GetBySlug(_ context.Context, slug string) (*domain.Portfolio, error) {
	return m.find(func(p domain.Portfolio) bool { return p.Slug == slug })
}

func (m *memPortfolios) GetByOwnerAndSlug(_ context.Context, ownerID, slug string) (*domain.Portfolio, error) {
	return m.find(func(p domain.Portfolio) bool { return p.UserID == ownerID && p.Slug == slug })
}

func (m *memPortfolios) ListByOwner(_ context.Context, ownerID string) ([]domain.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Portfolio{}
	for _, p := range m.items {
		if p.UserID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPortfolios) ListSummaries(ctx context.Context) ([]domain.PortfolioSummary, error) {
	m.mu.Lock()
	items := make([]domain.Portfolio, 0, len(m.items))
	for _, p := range m.items {
		items = append(items, p)
	}
	m.mu.Unlock()

	out := make([]domain.PortfolioSummary, 0, len(items))
	for _, p := range items {
		s := domain.PortfolioSummary{ID: p.ID, Title: p.Title, Overview: p.Overview, Tools: p.Tools, Slug: p.Slug}
		if u, err := m.users.GetByID(ctx, p.UserID); err == nil {
			s.Owner = domain.Owner{ID: u.ID, UserName: u.UserName}
		}
		out = append(out, s)
	}
	return out, nil
}

type memMetrics struct {
	mu    sync.Mutex
	items map[string]*domain.Metrics
}

func newMemMetrics() *memMetrics { return &memMetrics{items: map[string]*domain.Metrics{}} }

func (m *memMetrics) Init(context.Context) error { return nil }

func (m *memMetrics) Increment(_ context.Context, portfolioID, ownerID string, field domain.MetricField, amount int64) (*domain.Metrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.items[portfolioID]
	if !ok {
		doc = &domain.Metrics{ID: "m-" + portfolioID, PortfolioID: portfolioID, UserID: ownerID}
		m.items[portfolioID] = doc
	}
	switch field {
	case domain.MetricViews:
		doc.Views += amount
	case domain.MetricLikes:
		doc.Likes += amount
	case domain.MetricComments:
		doc.Comments += amount
	case domain.MetricClickThroughs:
		doc.ClickThroughs += amount
	case domain.MetricEngagementTime:
		doc.EngagementTime += amount
	}
	doc.LastUpdated = time.Now()
	out := *doc
	return &out, nil
}

func (m *memMetrics) GetByPortfolio(_ context.Context, portfolioID string) (*domain.Metrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.items[portfolioID]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "Metrics not found for this portfolio")
	}
	out := *doc
	return &out, nil
}
