package domain

import "time"

type Theme string

const (
	ThemeClassic    Theme = "classic"
	ThemeModern     Theme = "modern"
	ThemeMinimalist Theme = "minimalist"
)

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeClassic, ThemeModern, ThemeMinimalist:
		return true
	}
	return false
}

type Media struct {
	Images []string
	Videos []string
	Links  []string
}

type Outcomes struct {
	Metrics      string
	Testimonials string
}

// Portfolio is a project showcase owned by a single user.
type Portfolio struct {
	ID        string
	UserID    string
	Title     string
	Slug      string
	Overview  string
	Media     Media
	Timeline  string
	Tools     []string
	Outcomes  Outcomes
	Theme     Theme
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PortfolioPatch holds the fields of a partial update. Nil fields are left untouched.
type PortfolioPatch struct {
	Title    *string
	Overview *string
	Media    *Media
	Timeline *string
	Tools    *[]string
	Outcomes *Outcomes
	Theme    *Theme
}

// Empty reports whether the patch carries no field at all.
func (p PortfolioPatch) Empty() bool {
	return p.Title == nil && p.Overview == nil && p.Media == nil && p.Timeline == nil &&
		p.Tools == nil && p.Outcomes == nil && p.Theme == nil
}

// Owner is the minimal user reference joined into public listings.
type Owner struct {
	ID       string
	UserName string
}

// PortfolioSummary is the directory projection of a portfolio.
type PortfolioSummary struct {
	ID       string
	Title    string
	Overview string
	Tools    []string
	Slug     string
	Owner    Owner
}
