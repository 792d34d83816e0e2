package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brale-dashboard-go/internal/brale"
	"brale-dashboard-go/internal/common"
	"brale-dashboard-go/internal/dashboard"
	"brale-dashboard-go/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type createTokenRequest struct {
	ClientId     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

type tokenResponse struct {
	Stored    bool       `json:"stored"`
	Token     string     `json:"token,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleHealth(c *gin.Context) {
	if err := s.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) handleCreateToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "client_id and client_secret are required"})
		return
	}

	ctx := c.Request.Context()
	token, err := s.auth.Authenticate(ctx, req.ClientId, req.ClientSecret)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := s.tokens.SaveToken(ctx, store.BearerTokenKey, token); err != nil {
		writeError(c, err)
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusCreated, tokenResponse{Stored: true, Token: common.MaskToken(token), UpdatedAt: &now})
}

func (s *Service) handleGetToken(c *gin.Context) {
	stored, err := s.tokens.GetToken(c.Request.Context(), store.BearerTokenKey)
	if errors.Is(err, store.ErrTokenNotFound) {
		c.JSON(http.StatusOK, tokenResponse{Stored: false})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Stored: true, Token: common.MaskToken(stored.Token), UpdatedAt: &stored.UpdatedAt})
}

func (s *Service) handleDeleteToken(c *gin.Context) {
	err := s.tokens.DeleteToken(c.Request.Context(), store.BearerTokenKey)
	if err != nil && !errors.Is(err, store.ErrTokenNotFound) {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	explicit := bearerToken(c.GetHeader("Authorization"))
	token, err := dashboard.ResolveToken(ctx, s.tokens, explicit)
	if err != nil {
		writeError(c, err)
		return
	}

	// Callers with their own token get their own view.
	view := dashboard.StoredTokenView
	if explicit != "" {
		view = ""
	}

	result, err := s.dashboard.Load(ctx, view, token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Service) handleHistory(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultHistoryLimit)
	if err != nil || limit <= 0 || limit > maxHistoryLimit {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and " + strconv.Itoa(maxHistoryLimit)})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "offset must be a non-negative integer"})
		return
	}

	records, err := s.history.GetLoadHistory(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loads": records, "limit": limit, "offset": offset})
}

func queryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	value := c.Query(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		authErr   *brale.AuthenticationError
		fetchErr  *brale.FetchError
		formatErr *brale.ResponseFormatError
		urlErr    *url.Error
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrNoToken):
		status = http.StatusUnauthorized
	case errors.Is(err, dashboard.ErrSuperseded):
		status = http.StatusConflict
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
		if authErr.StatusCode == 0 && authErr.Err != nil {
			status = http.StatusBadGateway
		}
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
		if fetchErr.StatusCode == http.StatusUnauthorized || fetchErr.StatusCode == http.StatusForbidden {
			status = http.StatusUnauthorized
		}
	case errors.As(err, &formatErr):
		status = http.StatusBadGateway
	case errors.As(err, &urlErr):
		// Upstream unreachable.
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}
