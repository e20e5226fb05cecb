// Package handler exposes authentication over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"admissio/internal/account/models"
	"admissio/internal/account/service"
	"admissio/internal/platform/middleware"
	"admissio/internal/platform/web"
)

// Handler routes authentication requests.
type Handler struct {
	accounts *service.Service
	logger   *slog.Logger
}

func New(accounts *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{accounts: accounts, logger: logger}
}

// Register mounts the authentication and account management routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/accounts", h.createAccount)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	token, account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, loginResponse{Token: token, Account: account})
}

type createAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	account, err := h.accounts.CreateStaff(r.Context(), req.Username, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusCreated, account)
}
