package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-movie-api/internal/model"
	"go-movie-api/pkg/apierror"
)

func tokenPairResponse(bearer string, refresh string) model.TokenPair {
	return model.TokenPair{
		BearerToken:  model.TokenBundle{Token: bearer, TokenType: "Bearer", ExpiresIn: 600},
		RefreshToken: model.TokenBundle{Token: refresh, TokenType: "Refresh", ExpiresIn: 86400},
	}
}

func TestClientLoginCachesSessionAndAttachesBearer(t *testing.T) {
	var profileAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			var req model.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "mike@example.com", req.Email)
			_ = json.NewEncoder(w).Encode(tokenPairResponse("bearer-1", "refresh-1"))
		case "/user/mike@example.com/profile":
			profileAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(model.OwnerProfile{
				Profile: model.Profile{Email: "mike@example.com"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	require.NoError(t, c.Login(context.Background(), "mike@example.com", "secret"))

	session := c.Sessions().Current()
	require.NotNil(t, session)
	require.Equal(t, "bearer-1", session.BearerToken)
	require.Equal(t, "refresh-1", session.RefreshToken)

	profile, err := c.Profile(context.Background(), "mike@example.com")
	require.NoError(t, err)
	require.Equal(t, "mike@example.com", profile.Email)
	require.Equal(t, "Bearer bearer-1", profileAuth)
}

func TestClientRefreshRotatesCachedPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			_ = json.NewEncoder(w).Encode(tokenPairResponse("bearer-1", "refresh-1"))
		case "/user/refresh":
			var req model.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "refresh-1", req.RefreshToken)
			_ = json.NewEncoder(w).Encode(tokenPairResponse("bearer-2", "refresh-2"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	require.NoError(t, c.Login(context.Background(), "mike@example.com", "secret"))
	require.NoError(t, c.Refresh(context.Background()))

	session := c.Sessions().Current()
	require.Equal(t, "bearer-2", session.BearerToken)
	require.Equal(t, "refresh-2", session.RefreshToken)
	require.Equal(t, "mike@example.com", session.Email)
}

func TestClientRefreshWithoutSession(t *testing.T) {
	c := New("http://127.0.0.1:0")
	defer c.Close()

	require.Error(t, c.Refresh(context.Background()))
}

func TestClientLogoutClearsSessionEvenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			_ = json.NewEncoder(w).Encode(tokenPairResponse("bearer-1", "refresh-1"))
		case "/user/logout":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": true, "message": "Invalid refresh token",
			})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	require.NoError(t, c.Login(context.Background(), "mike@example.com", "secret"))

	err := c.Logout(context.Background())
	require.Error(t, err)
	require.Nil(t, c.Sessions().Current())

	// A second logout with no session is a no-op.
	require.NoError(t, c.Logout(context.Background()))
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": true, "message": "Invalid year format. Format must be yyyy.",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	_, err := c.SearchMovies(context.Background(), "matrix", "199", "")
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	require.Equal(t, "Invalid year format. Format must be yyyy.", apiErr.Message)
}

func TestClientSearchMoviesOmitsEmptyParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movies/search", r.URL.Path)
		require.Equal(t, "matrix", r.URL.Query().Get("title"))
		require.False(t, r.URL.Query().Has("year"))
		require.False(t, r.URL.Query().Has("page"))
		_ = json.NewEncoder(w).Encode(model.SearchPage{Data: []model.MovieSummary{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	_, err := c.SearchMovies(context.Background(), "matrix", "", "")
	require.NoError(t, err)
}
