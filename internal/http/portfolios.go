package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectshelf/internal/domain"
	"projectshelf/internal/service"
)

type portfolioRequest struct {
	Title    string        `json:"title" binding:"required"`
	Overview string        `json:"overview" binding:"required"`
	Media    *mediaBody    `json:"media"`
	Timeline string        `json:"timeline"`
	Tools    []string      `json:"tools"`
	Outcomes *outcomesBody `json:"outcomes"`
	Theme    domain.Theme  `json:"theme"`
}

// patchRequest lists the editable fields; userId, slug and _id in the body are
// silently dropped.
type patchRequest struct {
	Title    *string       `json:"title"`
	Overview *string       `json:"overview"`
	Media    *mediaBody    `json:"media"`
	Timeline *string       `json:"timeline"`
	Tools    *[]string     `json:"tools"`
	Outcomes *outcomesBody `json:"outcomes"`
	Theme    *domain.Theme `json:"theme"`
}

func (m *mediaBody) toDomain() domain.Media {
	if m == nil {
		return domain.Media{}
	}
	return domain.Media{Images: m.Images, Videos: m.Videos, Links: m.Links}
}

func (o *outcomesBody) toDomain() domain.Outcomes {
	if o == nil {
		return domain.Outcomes{}
	}
	return domain.Outcomes(*o)
}

func (r patchRequest) toDomain() domain.PortfolioPatch {
	patch := domain.PortfolioPatch{
		Title:    r.Title,
		Overview: r.Overview,
		Timeline: r.Timeline,
		Tools:    r.Tools,
		Theme:    r.Theme,
	}
	if r.Media != nil {
		m := r.Media.toDomain()
		patch.Media = &m
	}
	if r.Outcomes != nil {
		o := r.Outcomes.toDomain()
		patch.Outcomes = &o
	}
	return patch
}

func (h *Handler) createPortfolio(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	p, err := h.portfolios.Create(c.Request.Context(), callerID(c), service.PortfolioInput{
		Title:    req.Title,
		Overview: req.Overview,
		Media:    req.Media.toDomain(),
		Timeline: req.Timeline,
		Tools:    req.Tools,
		Outcomes: req.Outcomes.toDomain(),
		Theme:    req.Theme,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Portfolio created",
		"portfolio": toPortfolioResponse(p),
	})
}

func (h *Handler) updatePortfolio(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	p, err := h.portfolios.Update(c.Request.Context(), callerID(c), c.Param("id"), req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Portfolio updated",
		"portfolio": toPortfolioResponse(p),
	})
}

func (h *Handler) deletePortfolio(c *gin.Context) {
	if err := h.portfolios.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted successfully"})
}

func (h *Handler) myPortfolios(c *gin.Context) {
	items, err := h.portfolios.ListByOwner(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]portfolioResponse, len(items))
	for i := range items {
		resp[i] = toPortfolioResponse(&items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPortfolio(c *gin.Context) {
	p, err := h.portfolios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPortfolioResponse(p))
}

func (h *Handler) allPortfolios(c *gin.Context) {
	items, err := h.portfolios.ListPublic(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]summaryResponse, len(items))
	for i := range items {
		resp[i] = toSummaryResponse(items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) publicPortfolio(c *gin.Context) {
	p, owner, err := h.portfolios.GetByOwnerNameAndSlug(c.Request.Context(), c.Param("userName"), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPublicPortfolioResponse(p, owner))
}
