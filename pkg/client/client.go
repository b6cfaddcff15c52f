// Package client is a Go consumer of the movie API. It keeps the current
// token pair in a SessionCache and exposes the session-state changes the way
// the web client needs them for re-rendering.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-movie-api/internal/model"
	"go-movie-api/pkg/apierror"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *SessionCache
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   NewSessionCache(),
	}
}

// Sessions exposes the session cache for subscription and inspection.
func (c *Client) Sessions() *SessionCache {
	return c.sessions
}

// Close tears down the session cache and its subscribers.
func (c *Client) Close() {
	c.sessions.Close()
}

func (c *Client) Register(ctx context.Context, email string, password string) error {
	body := model.RegisterRequest{Email: email, Password: password}
	return c.postJSON(ctx, "/user/register", body, nil)
}

// Login exchanges credentials for a token pair, caches it and notifies
// subscribers.
func (c *Client) Login(ctx context.Context, email string, password string) error {
	body := model.LoginRequest{Email: email, Password: password}

	var pair model.TokenPair
	if err := c.postJSON(ctx, "/user/login", body, &pair); err != nil {
		return err
	}

	c.sessions.Set(&Session{
		Email:        email,
		BearerToken:  pair.BearerToken.Token,
		RefreshToken: pair.RefreshToken.Token,
	})
	return nil
}

// Refresh trades the cached refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	session := c.sessions.Current()
	if session == nil {
		return fmt.Errorf("no active session")
	}

	var pair model.TokenPair
	if err := c.postJSON(ctx, "/user/refresh", model.RefreshRequest{RefreshToken: session.RefreshToken}, &pair); err != nil {
		return err
	}

	c.sessions.Set(&Session{
		Email:        session.Email,
		BearerToken:  pair.BearerToken.Token,
		RefreshToken: pair.RefreshToken.Token,
	})
	return nil
}

// Logout invalidates the stored refresh token server-side and clears the
// cached session even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	session := c.sessions.Current()
	if session == nil {
		return nil
	}

	err := c.postJSON(ctx, "/user/logout", model.RefreshRequest{RefreshToken: session.RefreshToken}, nil)
	c.sessions.Set(nil)
	return err
}

// Profile reads a user profile. The bearer token is attached when a session
// is active, which widens the response for the owner.
func (c *Client) Profile(ctx context.Context, email string) (model.OwnerProfile, error) {
	var profile model.OwnerProfile
	err := c.getJSON(ctx, "/user/"+url.PathEscape(email)+"/profile", nil, &profile)
	return profile, err
}

// SearchMovies runs a paginated title search. Empty arguments are omitted.
func (c *Client) SearchMovies(ctx context.Context, title string, year string, page string) (model.SearchPage, error) {
	query := url.Values{}
	if title != "" {
		query.Set("title", title)
	}
	if year != "" {
		query.Set("year", year)
	}
	if page != "" {
		query.Set("page", page)
	}

	var result model.SearchPage
	err := c.getJSON(ctx, "/movies/search", query, &result)
	return result, err
}

func (c *Client) Movie(ctx context.Context, imdbID string) (model.MovieDetail, error) {
	var detail model.MovieDetail
	err := c.getJSON(ctx, "/movies/data/"+url.PathEscape(imdbID), nil, &detail)
	return detail, err
}

func (c *Client) Person(ctx context.Context, id string) (model.PersonDetail, error) {
	var detail model.PersonDetail
	err := c.getJSON(ctx, "/people/"+url.PathEscape(id), nil, &detail)
	return detail, err
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if session := c.sessions.Current(); session != nil {
		req.Header.Set("Authorization", "Bearer "+session.BearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func decodeError(status int, payload []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Message == "" {
		return apierror.New("API_ERROR", fmt.Sprintf("request failed with status %d", status), status)
	}
	return apierror.New("API_ERROR", body.Message, status)
}
