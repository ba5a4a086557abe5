package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"projectshelf/internal/auth"
	"projectshelf/internal/domain"
	"projectshelf/internal/service"
	"projectshelf/internal/telemetry"
)

// Services groups everything the handler delegates to. Media and Telemetry
// are optional.
type Services struct {
	Users      service.UserService
	Portfolios service.PortfolioService
	Metrics    service.MetricsService
	Media      service.MediaService
	Tokens     *auth.TokenManager
	Telemetry  *telemetry.Metrics
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	portfolios service.PortfolioService
	metrics    service.MetricsService
	media      service.MediaService
	tokens     *auth.TokenManager
	telemetry  *telemetry.Metrics
	logger     *logrus.Logger
}

func NewHandler(svc Services, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:      svc.Users,
		portfolios: svc.Portfolios,
		metrics:    svc.Metrics,
		media:      svc.Media,
		tokens:     svc.Tokens,
		telemetry:  svc.Telemetry,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	if h.telemetry != nil {
		router.Use(h.telemetry.Middleware())
		router.GET("/debug/metrics", gin.WrapH(h.telemetry.Handler()))
	}
	router.Use(corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ProjectShelf API Running!")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	portfolio := router.Group("/portfolio", h.requireAuth())
	{
		portfolio.POST("/create", h.createPortfolio)
		portfolio.PATCH("/edit/:id", h.updatePortfolio)
		portfolio.DELETE("/delete/:id", h.deletePortfolio)
		portfolio.GET("/my-portfolios", h.myPortfolios)
		portfolio.POST("/media", h.uploadMedia)
		portfolio.GET("/media", h.listMedia)
		portfolio.DELETE("/media/*key", h.deleteMedia)
		portfolio.GET("/:id", h.getPortfolio)
	}

	metrics := router.Group("/metrics")
	{
		metrics.POST("/:portfolioId/increment-views", h.increment(domain.MetricViews))
		metrics.POST("/:portfolioId/increment-likes", h.increment(domain.MetricLikes))
		metrics.POST("/:portfolioId/increment-clicks", h.increment(domain.MetricClickThroughs))
		metrics.POST("/:portfolioId/increment-engagement-time", h.incrementEngagementTime)
		metrics.GET("/:portfolioId", h.getMetrics)
	}

	router.GET("/all-portfolios", h.allPortfolios)
	router.GET("/:userName/:slug", h.publicPortfolio)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type errorResponse struct {
	Message string      `json:"message"`
	Code    domain.Kind `json:"code"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized, domain.KindInvalidToken, domain.KindMissingToken:
		return http.StatusUnauthorized
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a classified error body and aborts the chain.
// Unclassified errors are logged and never shown to the client.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	msg := domain.MessageOf(err, "internal server error")
	if kind == domain.KindInternal {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(statusFor(kind), errorResponse{Message: msg, Code: kind})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	msg := "invalid request body"
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		msg = strings.TrimSpace(err.Error())
	}
	h.fail(c, domain.E(domain.KindValidation, msg))
}
