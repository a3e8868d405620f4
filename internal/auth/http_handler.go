package auth

import (
	"errors"
	"net/http"

	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/crypto"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordReq struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Login handles POST /v1/auth/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("login")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, token, nil)
}

// ResetPassword handles POST /v1/auth/reset-password
func (h *HTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordReq
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.ResetPassword(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, map[string]string{"message": "password updated"}, nil)
	case errors.Is(err, crypto.ErrPasswordTooShort), errors.Is(err, crypto.ErrPasswordMismatch):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, user.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No account with that email", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("reset password")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
