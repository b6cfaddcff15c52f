package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
	"go-movie-api/internal/token"
	"go-movie-api/internal/vault"
	"go-movie-api/pkg/apierror"
)

func newAuthFixture(t *testing.T) (*AuthService, *repository.MemoryUserStore, *vault.Vault) {
	t.Helper()

	users := repository.NewMemoryUserStore()
	issuer := token.NewIssuer("service-test-secret")
	v, err := vault.New("service-test-key")
	require.NoError(t, err)

	return NewAuthService(users, issuer, v), users, v
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.HTTPStatus)
	require.Equal(t, message, apiErr.Message)
}

// waitForStoredToken polls until the sealed refresh token persisted against
// the user unseals to want.
func waitForStoredToken(t *testing.T, users *repository.MemoryUserStore, v *vault.Vault, email string, want string) {
	t.Helper()

	require.Eventually(t, func() bool {
		user, err := users.FindByEmail(context.Background(), email)
		if err != nil || user.RefreshTokenCiphertext == nil {
			return false
		}
		stored, err := v.Open(*user.RefreshTokenCiphertext)
		return err == nil && stored == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRegisterRequiresBothFields(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	for _, tc := range []struct{ email, password string }{
		{"", ""},
		{"mike@example.com", ""},
		{"", "secret"},
	} {
		err := svc.Register(context.Background(), tc.email, tc.password)
		requireAPIError(t, err, http.StatusBadRequest,
			"Request body incomplete, both email and password are required")
	}
}

func TestRegisterConflictsOnDuplicate(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	err := svc.Register(context.Background(), "mike@example.com", "other")
	requireAPIError(t, err, http.StatusConflict, "User already exists")
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	svc, users, v := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	pair, err := svc.Login(context.Background(), model.LoginRequest{
		Email: "mike@example.com", Password: "secret",
	})
	require.NoError(t, err)

	require.Equal(t, "Bearer", pair.BearerToken.TokenType)
	require.Equal(t, int64(600), pair.BearerToken.ExpiresIn)
	require.Equal(t, "Refresh", pair.RefreshToken.TokenType)
	require.Equal(t, int64(86400), pair.RefreshToken.ExpiresIn)

	issuer := token.NewIssuer("service-test-secret")
	email, err := issuer.Verify(pair.BearerToken.Token)
	require.NoError(t, err)
	require.Equal(t, "mike@example.com", email)

	// The response never waits on persistence, but the sealed token must land.
	waitForStoredToken(t, users, v, "mike@example.com", pair.RefreshToken.Token)
}

func TestLoginHonorsTTLOverrides(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	bearerTTL, refreshTTL := int64(30), int64(120)
	pair, err := svc.Login(context.Background(), model.LoginRequest{
		Email:                   "mike@example.com",
		Password:                "secret",
		BearerExpiresInSeconds:  &bearerTTL,
		RefreshExpiresInSeconds: &refreshTTL,
	})
	require.NoError(t, err)

	require.Equal(t, int64(30), pair.BearerToken.ExpiresIn)
	require.Equal(t, int64(120), pair.RefreshToken.ExpiresIn)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	_, unknownErr := svc.Login(context.Background(), model.LoginRequest{
		Email: "nobody@example.com", Password: "secret",
	})
	_, wrongErr := svc.Login(context.Background(), model.LoginRequest{
		Email: "mike@example.com", Password: "wrong",
	})

	requireAPIError(t, unknownErr, http.StatusUnauthorized, "Incorrect email or password")
	requireAPIError(t, wrongErr, http.StatusUnauthorized, "Incorrect email or password")
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestRefreshRotatesAndSupersedesOldToken(t *testing.T) {
	svc, users, v := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	pair, err := svc.Login(context.Background(), model.LoginRequest{
		Email: "mike@example.com", Password: "secret",
	})
	require.NoError(t, err)
	waitForStoredToken(t, users, v, "mike@example.com", pair.RefreshToken.Token)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken.Token)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken.Token, rotated.RefreshToken.Token)

	// Refresh never honors overrides; the defaults come back.
	require.Equal(t, int64(600), rotated.BearerToken.ExpiresIn)
	require.Equal(t, int64(86400), rotated.RefreshToken.ExpiresIn)

	waitForStoredToken(t, users, v, "mike@example.com", rotated.RefreshToken.Token)

	// A replay of the superseded token must fail the stored-match check.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken.Token)
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid refresh token")
}

func TestRefreshValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "")
	requireAPIError(t, err, http.StatusBadRequest,
		"Request body incomplete, refresh token required")

	_, err = svc.Refresh(context.Background(), "garbage.token.value")
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid JWT token")

	expired, issueErr := token.NewIssuer("service-test-secret").Issue("mike@example.com", -time.Minute)
	require.NoError(t, issueErr)
	_, err = svc.Refresh(context.Background(), expired)
	requireAPIError(t, err, http.StatusUnauthorized, "JWT token has expired")
}

func TestRefreshRejectsUnknownUserAndUnstoredToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	// Valid signature, but no such user.
	stray, err := token.NewIssuer("service-test-secret").Issue("ghost@example.com", time.Hour)
	require.NoError(t, err)
	_, refreshErr := svc.Refresh(context.Background(), stray)
	requireAPIError(t, refreshErr, http.StatusUnauthorized, "Invalid refresh token")

	// Known user, but nothing stored yet.
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))
	unstored, err := token.NewIssuer("service-test-secret").Issue("mike@example.com", time.Hour)
	require.NoError(t, err)
	_, refreshErr = svc.Refresh(context.Background(), unstored)
	requireAPIError(t, refreshErr, http.StatusUnauthorized, "Invalid refresh token")
}

func TestLogoutClearsTokenAndIsNotIdempotent(t *testing.T) {
	svc, users, v := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	pair, err := svc.Login(context.Background(), model.LoginRequest{
		Email: "mike@example.com", Password: "secret",
	})
	require.NoError(t, err)
	waitForStoredToken(t, users, v, "mike@example.com", pair.RefreshToken.Token)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken.Token))

	user, err := users.FindByEmail(context.Background(), "mike@example.com")
	require.NoError(t, err)
	require.Nil(t, user.RefreshTokenCiphertext)

	// The stored token is gone, so the same logout cannot succeed twice.
	err = svc.Logout(context.Background(), pair.RefreshToken.Token)
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid refresh token")
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.GetProfile(context.Background(), "nobody@example.com")
	requireAPIError(t, err, http.StatusNotFound, "User not found")
}

func validProfileRequest() model.UpdateProfileRequest {
	return model.UpdateProfileRequest{
		FirstName: "Michael",
		LastName:  "Scott",
		DOB:       "1975-03-15",
		Address:   "1725 Slough Avenue, Scranton",
	}
}

func TestUpdateProfileAuthorization(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	_, err := svc.UpdateProfile(context.Background(),
		"mike@example.com", "other@example.com", validProfileRequest())
	requireAPIError(t, err, http.StatusForbidden, "Forbidden")
}

func TestUpdateProfileExistenceBeforeValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	// The record lookup short-circuits even though the body is also invalid.
	_, err := svc.UpdateProfile(context.Background(),
		"ghost@example.com", "ghost@example.com", model.UpdateProfileRequest{})
	requireAPIError(t, err, http.StatusNotFound, "User not found")
}

func TestUpdateProfileFieldValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	update := func(req model.UpdateProfileRequest) error {
		_, err := svc.UpdateProfile(context.Background(), "mike@example.com", "mike@example.com", req)
		return err
	}

	missing := validProfileRequest()
	missing.Address = nil
	requireAPIError(t, update(missing), http.StatusBadRequest,
		"Request body incomplete: firstName, lastName, dob and address are required.")

	empty := validProfileRequest()
	empty.FirstName = ""
	requireAPIError(t, update(empty), http.StatusBadRequest,
		"Request body incomplete: firstName, lastName, dob and address are required.")

	nonString := validProfileRequest()
	nonString.LastName = float64(42)
	requireAPIError(t, update(nonString), http.StatusBadRequest,
		"Request body invalid: firstName, lastName and address must be strings only.")

	badFormat := validProfileRequest()
	badFormat.DOB = "15-03-1975"
	requireAPIError(t, update(badFormat), http.StatusBadRequest,
		"Invalid input: dob must be a real date in format YYYY-MM-DD.")

	notACalendarDate := validProfileRequest()
	notACalendarDate.DOB = "2020-13-40"
	requireAPIError(t, update(notACalendarDate), http.StatusBadRequest,
		"Invalid input: dob must be a real date in format YYYY-MM-DD.")

	future := validProfileRequest()
	future.DOB = "2099-01-01"
	requireAPIError(t, update(future), http.StatusBadRequest,
		"Invalid input: dob must be a date in the past.")
}

func TestUpdateProfileSuccess(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	require.NoError(t, svc.Register(context.Background(), "mike@example.com", "secret"))

	user, err := svc.UpdateProfile(context.Background(),
		"mike@example.com", "mike@example.com", validProfileRequest())
	require.NoError(t, err)

	require.Equal(t, "Michael", *user.FirstName)
	require.Equal(t, "Scott", *user.LastName)
	require.Equal(t, "1975-03-15", *user.DOB)
	require.Equal(t, "1725 Slough Avenue, Scranton", *user.Address)
}
