package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/booksaas/booksaas-api/internal/api/shared"
	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/booksaas/booksaas-api/internal/platform/logger"
	"github.com/booksaas/booksaas-api/internal/store"
)

// UserHandler handles the /api/user routes.
type UserHandler struct {
	profileStore store.ProfileStore
	errors       *ErrorWriter
	timeFunc     func() time.Time
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(profileStore store.ProfileStore, errs *ErrorWriter) *UserHandler {
	return &UserHandler{
		profileStore: profileStore,
		errors:       errs,
		timeFunc:     time.Now,
	}
}

// GetProfile handles GET /api/user/profile. A missing profile row is returned as
// "profile": null.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := requireIdentity(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	profile, err := h.profileStore.Get(r.Context(), identity.ID)
	if err != nil && !store.IsNotFoundError(err) {
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{User: identity, Profile: profile})
}

// UpdateProfile handles PUT /api/user/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := requireIdentity(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	update := domain.NewProfileUpdate(identity.ID, req.FirstName, req.LastName, req.AvatarURL, req.Bio, h.timeFunc())
	update.Clear = req.Cleared()
	profile, err := h.profileStore.Upsert(r.Context(), update)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateProfileResponse{
		Message: "Profile updated successfully",
		Profile: profile,
	})
}

// DeleteAccount handles DELETE /api/user/account. Only the profile row is removed;
// the identity record stays with the auth provider.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, err := requireIdentity(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if err := h.profileStore.Delete(r.Context(), identity.ID); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("profile deleted, identity record retained",
		slog.String("user_id", identity.ID))

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Account deletion initiated"})
}
