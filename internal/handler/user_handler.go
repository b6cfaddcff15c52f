package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-movie-api/internal/middleware"
	"go-movie-api/internal/model"
	"go-movie-api/internal/service"
	"go-movie-api/pkg/apierror"
)

type UserHandler struct {
	service *service.AuthService
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

// GetProfile is a capability-scoped read: the owner sees dob and address,
// everyone else gets the public fields only.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.service.GetProfile(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	authEmail, _ := middleware.EmailFromContext(r.Context())
	if authEmail == email {
		writeJSON(w, http.StatusOK, ownerProfile(user))
		return
	}

	writeJSON(w, http.StatusOK, publicProfile(user))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	email := chi.URLParam(r, "email")
	authEmail, _ := middleware.EmailFromContext(r.Context())

	var payload model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST",
			"Request body incomplete: firstName, lastName, dob and address are required.",
			http.StatusBadRequest))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), email, authEmail, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ownerProfile(user))
}

func publicProfile(u model.User) model.Profile {
	return model.Profile{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func ownerProfile(u model.User) model.OwnerProfile {
	return model.OwnerProfile{
		Profile: publicProfile(u),
		DOB:     u.DOB,
		Address: u.Address,
	}
}
