package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Token related errors
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenMalformed      = errors.New("token malformed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Catalogue related errors
	ErrMovieNotFound  = errors.New("movie not found")
	ErrPersonNotFound = errors.New("person not found")
)
