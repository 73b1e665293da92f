package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"authrel-demo/internal/auth"
	"authrel-demo/internal/service"
)

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Issue(payload auth.Claims) (string, error)
	Parse(token string) (auth.Claims, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	tokens TokenManager
	logger *logrus.Logger
}

func NewHandler(users service.UserService, tokens TokenManager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterRoutes mounts the health check under /api and the JWT demo under prefix.
func (h *Handler) RegisterRoutes(router *gin.Engine, prefix string) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	jwtGroup := router.Group(strings.TrimRight(prefix, "/") + "/jwt")
	{
		jwtGroup.POST("/login/", h.login)
		jwtGroup.GET("/users/me/",
			h.tokenPayload(),
			h.currentUser(),
			h.currentActiveUser(),
			h.me,
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
