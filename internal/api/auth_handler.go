package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/platform/logger"
	"github.com/booksaas/booksaas-api/internal/service/auth"
	"github.com/booksaas/booksaas-api/internal/store"
)

// AuthHandler handles the /api/auth routes.
type AuthHandler struct {
	accounts         auth.AccountService
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	revoker          auth.TokenRevoker
	resetRedirect    string
	errors           *ErrorWriter
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// Password-reset links lead to frontendURL + "/reset-password".
func NewAuthHandler(
	accounts auth.AccountService,
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	frontendURL string,
	errs *ErrorWriter,
) *AuthHandler {
	return &AuthHandler{
		accounts:         accounts,
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		resetRedirect:    strings.TrimRight(frontendURL, "/") + "/reset-password",
		errors:           errs,
	}
}

// WithTokenRevoker makes SignOut drop the verification result cached for the
// caller's token once the provider has revoked the session.
func (h *AuthHandler) WithTokenRevoker(revoker auth.TokenRevoker) *AuthHandler {
	h.revoker = revoker
	return h
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.Email == "" || req.Password == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Missing required fields", "Email and password are required")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	result, err := h.accounts.SignUp(r.Context(), req.Email, req.Password, map[string]any{"name": req.Name})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DataEnvelope{Data: SignUpResponse{
		Message: "User created successfully",
		User:    result.User,
		Session: result.Session,
	}})
}

// SignIn handles POST /api/auth/signin. It checks the local users relation, not
// the auth provider, and issues a locally signed token.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Missing required fields", "Username and password are required")
		return
	}

	user, err := h.userStore.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, shared.ErrorResponse{
				Error:   "Invalid credentials",
				Message: "User not found",
			}, err, shared.WithElevatedLogLevel(), shared.WithLogAttrs(slog.String("reason", "user_not_found")))
			return
		}
		h.errors.Write(w, r, err)
		return
	}

	if err := h.passwordVerifier.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, shared.ErrorResponse{
				Error:   "Invalid credentials",
				Message: "Wrong password",
			}, err, shared.WithElevatedLogLevel(),
				shared.WithLogAttrs(slog.String("reason", "wrong_password"), slog.String("user_id", user.ID)))
			return
		}
		h.errors.Write(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("local user signed in", slog.String("user_id", user.ID))

	shared.RespondWithJSON(w, r, http.StatusOK, DataEnvelope{Data: SignInResponse{
		Message: "Signed in successfully",
		User:    user.Public(),
		Token:   token,
	}})
}

// SignOut handles POST /api/auth/signout. The caller's own session is revoked.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.AccessTokenFromContext(r.Context())
	if !ok {
		h.errors.Write(w, r, errNoIdentity)
		return
	}

	if err := h.accounts.SignOut(r.Context(), token); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), token); err != nil {
			logger.FromContext(r.Context()).Warn("failed to drop cached identity after sign-out",
				slog.Any("error", err))
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Signed out successfully"})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.RefreshToken == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Missing refresh token", "Refresh token is required")
		return
	}

	session, err := h.accounts.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshResponse{
		Message: "Token refreshed successfully",
		Session: session,
	})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.Email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing email", "Email is required")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if err := h.accounts.ResetPasswordForEmail(r.Context(), req.Email, h.resetRedirect); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Password reset email sent"})
}
