package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docbrief-backend/internal/documents"
	"docbrief-backend/internal/shared/config"
	"docbrief-backend/internal/shared/metrics"
	"docbrief-backend/internal/shared/server/middleware"
	"docbrief-backend/internal/shared/server/respond"
	"docbrief-backend/internal/summaries"
)

const rateLimitGroupLLM = "LLM"

// RouterDeps carries everything the router needs to register routes.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	SummariesHandler *summaries.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())
	r.GET("/api/v1/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api/v1",
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupLLM: {Rate: 0.5, Burst: 5},
			},
			GroupFor: rateLimitGroup,
		}),
	)

	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.SummariesHandler != nil {
		deps.SummariesHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup throttles only routes that reach the LLM provider.
func rateLimitGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	if strings.Contains(path, "/summaries") ||
		strings.HasSuffix(path, "/summarize") ||
		strings.HasSuffix(path, "/upload-and-summarize") {
		return rateLimitGroupLLM
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
