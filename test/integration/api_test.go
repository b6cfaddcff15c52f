//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-movie-api/internal/model"
)

func TestRegisterLoginLogoutFlow(t *testing.T) {
	f := newServer(t)

	pair := f.register(t, "mike@example.com", "secret")
	require.Equal(t, "Bearer", pair.BearerToken.TokenType)
	require.Equal(t, int64(600), pair.BearerToken.ExpiresIn)
	require.Equal(t, "Refresh", pair.RefreshToken.TokenType)
	require.Equal(t, int64(86400), pair.RefreshToken.ExpiresIn)

	f.waitForStoredToken(t, "mike@example.com", pair.RefreshToken.Token)

	resp, body := f.post(t, "/user/logout", map[string]string{
		"refreshToken": pair.RefreshToken.Token,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logout struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &logout))
	require.False(t, logout.Error)
	require.Equal(t, "Token successfully invalidated", logout.Message)

	// The cleared token cannot be used again.
	resp, body = f.post(t, "/user/logout", map[string]string{
		"refreshToken": pair.RefreshToken.Token,
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid refresh token", errorMessage(t, body))
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	f := newServer(t)
	f.register(t, "mike@example.com", "secret")

	resp, body := f.post(t, "/user/register", map[string]string{
		"email": "mike@example.com", "password": "other",
	}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "User already exists", errorMessage(t, body))
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	f := newServer(t)
	pair := f.register(t, "mike@example.com", "secret")
	f.waitForStoredToken(t, "mike@example.com", pair.RefreshToken.Token)

	resp, body := f.post(t, "/user/refresh", map[string]string{
		"refreshToken": pair.RefreshToken.Token,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated model.TokenPair
	require.NoError(t, json.Unmarshal(body, &rotated))
	require.NotEqual(t, pair.RefreshToken.Token, rotated.RefreshToken.Token)
	f.waitForStoredToken(t, "mike@example.com", rotated.RefreshToken.Token)

	resp, body = f.post(t, "/user/refresh", map[string]string{
		"refreshToken": pair.RefreshToken.Token,
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid refresh token", errorMessage(t, body))
}

func TestProfileDisclosureDependsOnViewer(t *testing.T) {
	f := newServer(t)
	owner := f.register(t, "mike@example.com", "secret")
	other := f.register(t, "jane@example.com", "secret")

	resp, _ := f.put(t, "/user/mike@example.com/profile", map[string]string{
		"firstName": "Michael",
		"lastName":  "Scott",
		"dob":       "1975-03-15",
		"address":   "1725 Slough Avenue, Scranton",
	}, owner.BearerToken.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Anonymous and non-owner reads both get the public shape.
	for _, bearer := range []string{"", other.BearerToken.Token} {
		resp, body := f.get(t, "/user/mike@example.com/profile", bearer)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(body, &fields))
		require.Equal(t, "Michael", fields["firstName"])
		require.NotContains(t, fields, "dob")
		require.NotContains(t, fields, "address")
	}

	resp, body := f.get(t, "/user/mike@example.com/profile", owner.BearerToken.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile model.OwnerProfile
	require.NoError(t, json.Unmarshal(body, &profile))
	require.Equal(t, "1975-03-15", *profile.DOB)
	require.Equal(t, "1725 Slough Avenue, Scranton", *profile.Address)
}

func TestProfileWriteAuthorization(t *testing.T) {
	f := newServer(t)
	f.register(t, "mike@example.com", "secret")
	other := f.register(t, "jane@example.com", "secret")

	body := map[string]string{
		"firstName": "X", "lastName": "Y", "dob": "1990-01-01", "address": "Z",
	}

	resp, respBody := f.put(t, "/user/mike@example.com/profile", body, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Authorization header ('Bearer token') not found", errorMessage(t, respBody))

	resp, respBody = f.put(t, "/user/mike@example.com/profile", body, other.BearerToken.Token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Forbidden", errorMessage(t, respBody))
}

func TestMovieSearchAndDetail(t *testing.T) {
	f := newServer(t)
	for i := 1; i <= 150; i++ {
		year := 1999
		f.movies.AddMovie(model.MovieRow{
			TConst:       fmt.Sprintf("tt%07d", i),
			PrimaryTitle: fmt.Sprintf("The Matrix %d", i),
			Year:         &year,
		})
	}

	resp, body := f.get(t, "/movies/search?title=matrix&page=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page model.SearchPage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Data, 50)
	require.Equal(t, 150, page.Pagination.Total)
	require.Equal(t, 2, page.Pagination.CurrentPage)
	require.Nil(t, page.Pagination.NextPage)

	resp, body = f.get(t, "/movies/search?year=199x", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid year format. Format must be yyyy.", errorMessage(t, body))

	resp, body = f.get(t, "/movies/data/tt0000001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail model.MovieDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	require.Equal(t, "The Matrix 1", detail.Title)

	resp, body = f.get(t, "/movies/data/tt0000001?year=1999&plot=full", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t,
		"Invalid query parameters: plot, year. Query parameters are not permitted.",
		errorMessage(t, body))

	resp, body = f.get(t, "/movies/data/tt9999999", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "No record exists of a movie with this ID", errorMessage(t, body))
}

func TestPeopleEndpointRequiresAuth(t *testing.T) {
	f := newServer(t)
	birth := 1964
	f.people.AddPerson(model.PersonRow{
		NConst: "nm0000206", PrimaryName: "Keanu Reeves", BirthYear: &birth,
	})
	pair := f.register(t, "mike@example.com", "secret")

	// Missing and malformed headers are reported identically here.
	resp, body := f.get(t, "/people/nm0000206", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Authorization header ('Bearer token') not found", errorMessage(t, body))

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/people/nm0000206", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic abc")
	resp, body = f.do(t, req)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Authorization header ('Bearer token') not found", errorMessage(t, body))

	resp, body = f.get(t, "/people/nm0000206", pair.BearerToken.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail model.PersonDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	require.Equal(t, "Keanu Reeves", detail.Name)

	resp, body = f.get(t, "/people/nm9999999", pair.BearerToken.Token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "No record exists of a person with this ID", errorMessage(t, body))
}

func TestHealthEndpoint(t *testing.T) {
	f := newServer(t)

	resp, body := f.get(t, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]string
	require.NoError(t, json.Unmarshal(body, &status))
	require.Equal(t, "ok", status["status"])
}
