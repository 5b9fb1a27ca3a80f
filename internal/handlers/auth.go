package handlers

import (
	"errors"
	"net/http"

	"tulasisilks/internal/auth"
	"tulasisilks/internal/middleware"
	"tulasisilks/internal/models"
	"tulasisilks/internal/session"
)

// Auth groups the login and logout handlers.
type Auth struct {
	service  *auth.Service
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(service *auth.Service, sessions *session.Store) *Auth {
	return &Auth{service: service, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// meResponse describes the session user. Redirect tells the client where
// to go after logging in.
type meResponse struct {
	User     *models.User `json:"user"`
	IsAdmin  bool         `json:"isAdmin"`
	Redirect string       `json:"redirect,omitempty"`
}

// Login handles email/password sign in.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.service.Login(r.Context(), req.Email, req.Password)
	a.finish(w, r, user, err)
}

// RequestOTP pretends to text a one-time code to the phone.
func (a *Auth) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.service.RequestOTP(r.Context(), req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, "Phone number is required.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// LoginWithOTP signs in with a phone and one-time code.
func (a *Auth) LoginWithOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.service.LoginWithOTP(r.Context(), req.Phone, req.Code)
	a.finish(w, r, user, err)
}

// finish maps a login outcome to a response and starts the session.
func (a *Auth) finish(w http.ResponseWriter, r *http.Request, user *models.User, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Email and password are required.")
		return
	case errors.Is(err, auth.ErrInvalidOTP):
		writeError(w, http.StatusUnauthorized, "Invalid OTP.")
		return
	case errors.Is(err, auth.ErrBlocked):
		writeError(w, http.StatusForbidden, "This account has been blocked.")
		return
	case err != nil:
		writeInternal(w, r, "login", err)
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, user); err != nil {
		writeInternal(w, r, "session create", err)
		return
	}

	redirect := "/"
	if a.service.IsAdmin(user) {
		redirect = "/admin"
	}
	writeJSON(w, http.StatusOK, meResponse{
		User:     user,
		IsAdmin:  a.service.IsAdmin(user),
		Redirect: redirect,
	})
}

// Logout ends the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeInternal(w, r, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": "/"})
}

// Me returns the session user, or a null user when signed out.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	writeJSON(w, http.StatusOK, meResponse{
		User:    user,
		IsAdmin: user != nil && a.service.IsAdmin(user),
	})
}
