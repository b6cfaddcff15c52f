package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-movie-api/internal/model"
	"go-movie-api/internal/token"
	"go-movie-api/internal/vault"
	"go-movie-api/pkg/apierror"
)

const (
	bcryptCost = 10

	DefaultBearerTTL  = 10 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// UserStore is the credential-store surface the session protocol needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, email string, hash string) error
	UpdateProfile(ctx context.Context, email string, p model.ProfileUpdate) (model.User, error)
	UpdateRefreshToken(ctx context.Context, email string, ciphertext *string) error
}

// AuthService orchestrates registration, login, token refresh, logout and
// profile reads/writes over an explicit store, issuer and vault.
type AuthService struct {
	users  UserStore
	issuer *token.Issuer
	vault  *vault.Vault
	now    func() time.Time
}

func NewAuthService(users UserStore, issuer *token.Issuer, v *vault.Vault) *AuthService {
	return &AuthService{users: users, issuer: issuer, vault: v, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, email string, password string) error {
	if email == "" || password == "" {
		return apierror.New("BAD_REQUEST",
			"Request body incomplete, both email and password are required",
			http.StatusBadRequest)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return apierror.New("CONFLICT", "User already exists", http.StatusConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	return s.users.Create(ctx, email, string(hash))
}

// Login verifies credentials and issues a bearer/refresh pair. The sealed
// refresh token is persisted after the pair is returned, so the caller never
// waits on the write; a replay window between return and persistence is
// accepted.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	if req.Email == "" || req.Password == "" {
		return model.TokenPair{}, apierror.New("BAD_REQUEST",
			"Request body incomplete, both email and password are required",
			http.StatusBadRequest)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email reads the same as a wrong password.
		return model.TokenPair{}, incorrectCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password)); err != nil {
		return model.TokenPair{}, incorrectCredentials()
	}

	bearerTTL := DefaultBearerTTL
	if req.BearerExpiresInSeconds != nil {
		bearerTTL = time.Duration(*req.BearerExpiresInSeconds) * time.Second
	}
	refreshTTL := DefaultRefreshTTL
	if req.RefreshExpiresInSeconds != nil {
		refreshTTL = time.Duration(*req.RefreshExpiresInSeconds) * time.Second
	}

	return s.issuePair(user.Email, bearerTTL, refreshTTL)
}

// Refresh exchanges a still-valid refresh token for a new pair. The presented
// token must equal the unsealed token currently stored against the user; the
// rotation this implies is the only revocation mechanism for refresh tokens.
// TTL overrides are honored on login only, never here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	email, err := s.verifyStoredMatch(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issuePair(email, DefaultBearerTTL, DefaultRefreshTTL)
}

// Logout clears the stored refresh token. Unlike login and refresh, the write
// completes before the confirmation is returned, so a repeated logout with
// the same token fails the match.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	email, err := s.verifyStoredMatch(ctx, refreshToken)
	if err != nil {
		return err
	}

	return s.users.UpdateRefreshToken(ctx, email, nil)
}

// GetProfile returns the user record; the handler decides how much of it the
// caller may see.
func (s *AuthService) GetProfile(ctx context.Context, email string) (model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, apierror.New("NOT_FOUND", "User not found", http.StatusNotFound)
	}
	return user, nil
}

// UpdateProfile overwrites the four profile fields. Only the owner may write,
// and the existence check short-circuits before field validation.
func (s *AuthService) UpdateProfile(ctx context.Context, email string, authEmail string, req model.UpdateProfileRequest) (model.User, error) {
	if email != authEmail {
		return model.User{}, apierror.New("FORBIDDEN", "Forbidden", http.StatusForbidden)
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return model.User{}, apierror.New("NOT_FOUND", "User not found", http.StatusNotFound)
	}

	update, err := s.validateProfileUpdate(req)
	if err != nil {
		return model.User{}, err
	}

	return s.users.UpdateProfile(ctx, email, update)
}

func (s *AuthService) validateProfileUpdate(req model.UpdateProfileRequest) (model.ProfileUpdate, error) {
	fields := []any{req.FirstName, req.LastName, req.DOB, req.Address}

	for _, v := range fields {
		if v == nil || v == "" {
			return model.ProfileUpdate{}, apierror.New("BAD_REQUEST",
				"Request body incomplete: firstName, lastName, dob and address are required.",
				http.StatusBadRequest)
		}
	}

	strs := make([]string, 0, len(fields))
	for _, v := range fields {
		str, ok := v.(string)
		if !ok {
			return model.ProfileUpdate{}, apierror.New("BAD_REQUEST",
				"Request body invalid: firstName, lastName and address must be strings only.",
				http.StatusBadRequest)
		}
		strs = append(strs, str)
	}

	dob := strs[2]
	parsed, err := time.Parse("2006-01-02", dob)
	if !dobPattern.MatchString(dob) || err != nil {
		return model.ProfileUpdate{}, apierror.New("BAD_REQUEST",
			"Invalid input: dob must be a real date in format YYYY-MM-DD.",
			http.StatusBadRequest)
	}
	if !parsed.Before(s.now()) {
		return model.ProfileUpdate{}, apierror.New("BAD_REQUEST",
			"Invalid input: dob must be a date in the past.",
			http.StatusBadRequest)
	}

	return model.ProfileUpdate{
		FirstName: strs[0],
		LastName:  strs[1],
		DOB:       dob,
		Address:   strs[3],
	}, nil
}

// verifyStoredMatch runs the shared refresh/logout checks: signature and
// expiry first, then equality with the unsealed stored token.
func (s *AuthService) verifyStoredMatch(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apierror.New("BAD_REQUEST",
			"Request body incomplete, refresh token required",
			http.StatusBadRequest)
	}

	email, err := s.issuer.Verify(refreshToken)
	if err != nil {
		return "", unauthorizedTokenError(err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", invalidRefreshToken()
	}
	if user.RefreshTokenCiphertext == nil {
		return "", invalidRefreshToken()
	}

	stored, err := s.vault.Open(*user.RefreshTokenCiphertext)
	if err != nil || stored != refreshToken {
		return "", invalidRefreshToken()
	}

	return email, nil
}

func (s *AuthService) issuePair(email string, bearerTTL time.Duration, refreshTTL time.Duration) (model.TokenPair, error) {
	bearer, err := s.issuer.Issue(email, bearerTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := s.issuer.Issue(email, refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	// Persist the sealed refresh token off the request path. The HTTP
	// response goes out before this write is observed.
	go s.persistRefreshToken(email, refresh)

	return model.TokenPair{
		BearerToken: model.TokenBundle{
			Token:     bearer,
			TokenType: "Bearer",
			ExpiresIn: int64(bearerTTL.Seconds()),
		},
		RefreshToken: model.TokenBundle{
			Token:     refresh,
			TokenType: "Refresh",
			ExpiresIn: int64(refreshTTL.Seconds()),
		},
	}, nil
}

func (s *AuthService) persistRefreshToken(email string, refreshToken string) {
	sealed, err := s.vault.Seal(refreshToken)
	if err != nil {
		slog.Error("seal refresh token", "email", email, "error", err)
		return
	}

	// The request context may already be done once the response has been
	// sent, so the write runs detached from it.
	if err := s.users.UpdateRefreshToken(context.Background(), email, &sealed); err != nil {
		slog.Error("persist refresh token", "email", email, "error", err)
	}
}

func incorrectCredentials() error {
	return apierror.New("UNAUTHORIZED", "Incorrect email or password", http.StatusUnauthorized)
}

func invalidRefreshToken() error {
	return apierror.New("UNAUTHORIZED", "Invalid refresh token", http.StatusUnauthorized)
}

func unauthorizedTokenError(err error) error {
	if errors.Is(err, model.ErrTokenExpired) {
		return apierror.New("UNAUTHORIZED", "JWT token has expired", http.StatusUnauthorized)
	}
	return apierror.New("UNAUTHORIZED", "Invalid JWT token", http.StatusUnauthorized)
}
