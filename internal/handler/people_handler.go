package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-movie-api/internal/service"
)

type PeopleHandler struct {
	service *service.PersonService
}

func NewPeopleHandler(service *service.PersonService) *PeopleHandler {
	return &PeopleHandler{service: service}
}

func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := rejectQueryParameters(r); err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.service.GetPersonDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
