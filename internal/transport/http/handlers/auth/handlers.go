package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmlite/internal/domain/auth"
	"hrmlite/internal/transport/http/api"
	"hrmlite/internal/transport/http/middleware"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token   string       `json:"token"`
	Account auth.Account `json:"account"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Email == "" || payload.Password == "" || payload.FullName == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email, password and fullName are required", middleware.GetRequestID(r.Context()))
		return
	}

	token, account, err := h.Service.Register(r.Context(), payload.Email, payload.Password, payload.FullName, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			api.Fail(w, http.StatusBadRequest, "email_taken", "email already registered", middleware.GetRequestID(r.Context()))
		case errors.Is(err, auth.ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, "invalid_role", "role must be admin or employee", middleware.GetRequestID(r.Context()))
		case errors.Is(err, auth.ErrSignupClosed):
			api.Fail(w, http.StatusForbidden, "signup_closed", "admin registration is disabled", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to register account", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Created(w, tokenResponse{Token: token, Account: account}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	token, account, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, tokenResponse{Token: token, Account: account}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	account, err := h.Service.Store.AccountByID(r.Context(), user.AccountID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, account, middleware.GetRequestID(r.Context()))
}
