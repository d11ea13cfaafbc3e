package handlers

import (
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/middleware"
	"CaseKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// AuthHandler — вход по общему паролю доступа.
type AuthHandler struct {
	AccessService *service.AccessService
	Logger        *zap.SugaredLogger
	Config        *config.Config
}

func NewAuthHandler(accessService *service.AccessService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{AccessService: accessService, Logger: logger, Config: cfg}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StatusResponse struct {
	AuthRequired  bool `json:"authRequired"`
	Authenticated bool `json:"authenticated"`
}

// Login POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.AccessService.Login(req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			h.Logger.Warnw("login rejected", "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid password")
			return
		}
		writeServiceError(w, h.Logger, err)
		return
	}

	token, err := middleware.SetLoginCookie(w, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Status GET /api/status — нужен ли пароль и есть ли действующая сессия.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		AuthRequired:  h.AccessService.Enabled(),
		Authenticated: middleware.IsAuthenticated(r.Context()),
	})
}
