package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-movie-api/internal/service"
	"go-movie-api/pkg/apierror"
)

type MovieHandler struct {
	service *service.MovieService
}

func NewMovieHandler(service *service.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.service.Search(r.Context(), query.Get("title"), query.Get("year"), query.Get("page"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *MovieHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if err := rejectQueryParameters(r); err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.service.GetMovieDetail(r.Context(), chi.URLParam(r, "imdbID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// rejectQueryParameters fails detail endpoints that are handed any query
// string at all, naming the offending parameters.
func rejectQueryParameters(r *http.Request) error {
	query := r.URL.Query()
	if len(query) == 0 {
		return nil
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return apierror.New("BAD_REQUEST",
		fmt.Sprintf("Invalid query parameters: %s. Query parameters are not permitted.",
			strings.Join(keys, ", ")),
		http.StatusBadRequest)
}
