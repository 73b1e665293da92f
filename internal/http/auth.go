package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"authrel-demo/internal/auth"
	"authrel-demo/internal/domain"
	"authrel-demo/internal/repository"
	"authrel-demo/internal/service"
)

const (
	tokenType = "Bearer"

	payloadKey = "auth.payload"
	userKey    = "auth.user"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type MeResponse struct {
	Username   string  `json:"username"`
	Email      *string `json:"email"`
	LoggedInAt *int64  `json:"logged_in_at"`
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		abortDetail(c, http.StatusUnauthorized, "invalid username or password")
		return
	case errors.Is(err, service.ErrInactiveUser):
		abortDetail(c, http.StatusForbidden, "user inactive")
		return
	case err != nil:
		h.logger.WithError(err).Error("authenticate")
		abortDetail(c, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.tokens.Issue(auth.Claims{
		"sub":      user.Username,
		"username": user.Username,
		"email":    optionalString(user.Email),
	})
	if err != nil {
		h.logger.WithError(err).Error("issue token")
		abortDetail(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.WithField("username", user.Username).Info("token issued")
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
	})
}

// tokenPayload decodes the bearer token and stores its claims in the context.
func (h *Handler) tokenPayload() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			abortDetail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := h.tokens.Parse(raw)
		if err != nil {
			h.logger.WithError(err).Debug("reject token")
			abortDetail(c, http.StatusUnauthorized, "invalid token error")
			return
		}

		c.Set(payloadKey, claims)
		c.Next()
	}
}

// currentUser resolves the "sub" claim against the user directory.
func (h *Handler) currentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := c.MustGet(payloadKey).(auth.Claims)
		username, _ := claims["sub"].(string)

		user, err := h.users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				abortDetail(c, http.StatusUnauthorized, "token invalid (user not found)")
				return
			}
			h.logger.WithError(err).Error("resolve token subject")
			abortDetail(c, http.StatusInternalServerError, "internal error")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func (h *Handler) currentActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet(userKey).(*domain.User)
		if !user.Active {
			abortDetail(c, http.StatusForbidden, "user inactive")
			return
		}
		c.Next()
	}
}

func (h *Handler) me(c *gin.Context) {
	claims := c.MustGet(payloadKey).(auth.Claims)
	user := c.MustGet(userKey).(*domain.User)

	resp := MeResponse{Username: user.Username}
	if user.Email != "" {
		email := user.Email
		resp.Email = &email
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		v := iat.Unix()
		resp.LoggedInAt = &v
	}
	c.JSON(http.StatusOK, resp)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
