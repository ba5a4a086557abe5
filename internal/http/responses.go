package http

import (
	"time"

	"projectshelf/internal/domain"
)

type userResponse struct {
	ID        string    `json:"_id"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.PublicUser) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type ownerResponse struct {
	ID       string `json:"_id"`
	UserName string `json:"userName"`
}

type mediaBody struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
	Links  []string `json:"links"`
}

type outcomesBody struct {
	Metrics      string `json:"metrics"`
	Testimonials string `json:"testimonials"`
}

// portfolioResponse carries userId either as a plain id or, on public reads,
// as the populated owner.
type portfolioResponse struct {
	ID        string       `json:"_id"`
	UserID    any          `json:"userId"`
	Title     string       `json:"title"`
	Slug      string       `json:"slug"`
	Overview  string       `json:"overview"`
	Media     mediaBody    `json:"media"`
	Timeline  string       `json:"timeline"`
	Tools     []string     `json:"tools"`
	Outcomes  outcomesBody `json:"outcomes"`
	Theme     domain.Theme `json:"theme"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func toPortfolioResponse(p *domain.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		Title:    p.Title,
		Slug:     p.Slug,
		Overview: p.Overview,
		Media: mediaBody{
			Images: orEmpty(p.Media.Images),
			Videos: orEmpty(p.Media.Videos),
			Links:  orEmpty(p.Media.Links),
		},
		Timeline:  p.Timeline,
		Tools:     orEmpty(p.Tools),
		Outcomes:  outcomesBody(p.Outcomes),
		Theme:     p.Theme,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPublicPortfolioResponse(p *domain.Portfolio, owner domain.Owner) portfolioResponse {
	resp := toPortfolioResponse(p)
	resp.UserID = ownerResponse{ID: owner.ID, UserName: owner.UserName}
	return resp
}

type summaryResponse struct {
	ID       string         `json:"_id"`
	Title    string         `json:"title"`
	Overview string         `json:"overview"`
	Tools    []string       `json:"tools"`
	Slug     string         `json:"slug"`
	UserID   *ownerResponse `json:"userId"`
}

func toSummaryResponse(s domain.PortfolioSummary) summaryResponse {
	resp := summaryResponse{
		ID:       s.ID,
		Title:    s.Title,
		Overview: s.Overview,
		Tools:    orEmpty(s.Tools),
		Slug:     s.Slug,
	}
	// owner may be gone if the user row was removed out of band
	if s.Owner.ID != "" {
		resp.UserID = &ownerResponse{ID: s.Owner.ID, UserName: s.Owner.UserName}
	}
	return resp
}

type metricsResponse struct {
	ID             string    `json:"_id"`
	PortfolioID    string    `json:"portfolioId"`
	UserID         string    `json:"userId,omitempty"`
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	ClickThroughs  int64     `json:"clickThroughs"`
	EngagementTime int64     `json:"engagementTime"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

func toMetricsResponse(m *domain.Metrics) metricsResponse {
	return metricsResponse{
		ID:             m.ID,
		PortfolioID:    m.PortfolioID,
		UserID:         m.UserID,
		Views:          m.Views,
		Likes:          m.Likes,
		Comments:       m.Comments,
		ClickThroughs:  m.ClickThroughs,
		EngagementTime: m.EngagementTime,
		LastUpdated:    m.LastUpdated,
	}
}

type mediaObjectResponse struct {
	Key          string  `json:"key"`
	URL          string  `json:"url"`
	Size         int64   `json:"size,omitempty"`
	LastModified *string `json:"lastModified,omitempty"`
}

func toMediaObjectResponse(obj domain.MediaObject) mediaObjectResponse {
	resp := mediaObjectResponse{
		Key:  obj.Key,
		URL:  obj.URL,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
