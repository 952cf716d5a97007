package http

import (
	"net/http"

	"github.com/frontandrew/fleetflow/internal/delivery/http/middleware"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/validate"
	"github.com/frontandrew/fleetflow/internal/usecase/auth"
)

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый handler
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register обрабатывает регистрацию нового пользователя
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	response, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, response)
}

// Login обрабатывает вход пользователя
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, response)
}

// GetMe возвращает информацию о текущем пользователе
// GET /api/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, user)
}

// Logout отзывает текущий токен
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(r.Context(), claims); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}
