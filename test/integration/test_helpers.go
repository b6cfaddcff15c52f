//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-movie-api/internal/config"
	"go-movie-api/internal/handler"
	"go-movie-api/internal/middleware"
	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
	"go-movie-api/internal/router"
	"go-movie-api/internal/service"
	"go-movie-api/internal/token"
	"go-movie-api/internal/vault"
)

type fixture struct {
	server *httptest.Server
	users  *repository.MemoryUserStore
	movies *repository.MemoryMovieStore
	people *repository.MemoryPersonStore
	vault  *vault.Vault
}

// newServer stands up the full HTTP surface over in-memory stores.
func newServer(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		RequestTimeout:   10 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	users := repository.NewMemoryUserStore()
	movies := repository.NewMemoryMovieStore()
	people := repository.NewMemoryPersonStore()

	issuer := token.NewIssuer("integration-secret")
	v, err := vault.New("integration-key")
	require.NoError(t, err)

	authService := service.NewAuthService(users, issuer, v)
	movieService := service.NewMovieService(movies)
	personService := service.NewPersonService(people)

	h := router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(authService),
		Movie:  handler.NewMovieHandler(movieService),
		People: handler.NewPeopleHandler(personService),
		Health: handler.NewHealthHandler(nil),
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(issuer), h))
	t.Cleanup(server.Close)

	return &fixture{server: server, users: users, movies: movies, people: people, vault: v}
}

func (f *fixture) post(t *testing.T, path string, body any, bearer string) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return f.do(t, req)
}

func (f *fixture) put(t *testing.T, path string, body any, bearer string) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, f.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return f.do(t, req)
}

func (f *fixture) get(t *testing.T, path string, bearer string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, f.server.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return f.do(t, req)
}

func (f *fixture) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// register creates a user and logs in, returning the token pair.
func (f *fixture) register(t *testing.T, email string, password string) model.TokenPair {
	t.Helper()

	resp, _ := f.post(t, "/user/register", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	loginResp, body := f.post(t, "/user/login", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var pair model.TokenPair
	require.NoError(t, json.Unmarshal(body, &pair))
	return pair
}

// waitForStoredToken waits for the asynchronous refresh-token write to land.
func (f *fixture) waitForStoredToken(t *testing.T, email string, want string) {
	t.Helper()

	require.Eventually(t, func() bool {
		user, err := f.users.FindByEmail(context.Background(), email)
		if err != nil || user.RefreshTokenCiphertext == nil {
			return false
		}
		stored, err := f.vault.Open(*user.RefreshTokenCiphertext)
		return err == nil && stored == want
	}, 2*time.Second, 5*time.Millisecond)
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()

	var payload struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.True(t, payload.Error)
	return payload.Message
}
