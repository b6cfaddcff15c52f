package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-movie-api/internal/model"
	"go-movie-api/pkg/apierror"
)

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError is the final error boundary: everything reaching it is mapped to
// a status and a user-visible message, and nothing else leaks.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Unexpected server error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		message = "User already exists"
	case errors.Is(err, model.ErrMovieNotFound):
		status = http.StatusNotFound
		message = "No record exists of a movie with this ID"
	case errors.Is(err, model.ErrPersonNotFound):
		status = http.StatusNotFound
		message = "No record exists of a person with this ID"
	case errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "JWT token has expired"
	case errors.Is(err, model.ErrTokenMalformed), errors.Is(err, model.ErrInvalidRefreshToken):
		status = http.StatusUnauthorized
		message = "Invalid JWT token"
	default:
		// Log unclassified errors so they are visible in server logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, errorResponse{Error: true, Message: message})
}
