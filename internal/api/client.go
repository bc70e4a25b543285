// Package api wraps outbound calls to the movie backend with the session's
// bearer credential and centralizes session-expiry handling: a 401 on any
// request that carried a credential clears the session store and surfaces as
// domain.ErrSessionExpired, which callers treat as a silent abort.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/session"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Marquee/1.0"
)

// Client is the authenticated request client for the movie backend.
type Client struct {
	baseURL    string
	session    *session.Store
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend client bound to the given session store.
func NewClient(baseURL string, sess *session.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		session: sess,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an HTTP request, attaching the bearer credential when
// present, and maps the response per the error taxonomy.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("backend request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Central expiry handling: a rejected credential means the session is
	// gone and callers abort silently. A 401 on a request that carried no
	// credential, such as a wrong-password login, is an ordinary request
	// failure and keeps its detail message.
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		if err := c.session.Clear(); err != nil {
			c.logger.Error("failed to clear expired session", "error", err)
		}
		return nil, domain.ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("backend request error", "status", resp.StatusCode, "body", string(respBody))
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return nil, &domain.RequestError{StatusCode: resp.StatusCode, Detail: eb.Detail}
	}

	return respBody, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	respBody, err := c.doRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token. It does not touch the
// session store; establishing the session is the account service's job.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	var resp tokenResponse
	err := c.postJSON(ctx, "/api/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: resp.AccessToken, Username: resp.Username}, nil
}

// Register creates a new account and returns the backend's confirmation message.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	var resp messageResponse
	err := c.postJSON(ctx, "/api/register", registerRequest{Username: username, Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Trending returns one page of the trending catalog.
func (c *Client) Trending(ctx context.Context, page, perPage int) ([]domain.Movie, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var resp moviesResponse
	if err := c.get(ctx, "/api/movies/trending", query, &resp); err != nil {
		return nil, err
	}
	return resp.Movies, nil
}

// SearchMovies searches the catalog by title.
func (c *Client) SearchMovies(ctx context.Context, q string) ([]domain.Movie, error) {
	query := url.Values{}
	query.Set("q", q)

	var resp moviesResponse
	if err := c.get(ctx, "/api/movies/search", query, &resp); err != nil {
		return nil, err
	}
	return resp.Movies, nil
}

// Recommend returns content-based recommendations for a title.
func (c *Client) Recommend(ctx context.Context, title string, n int) ([]domain.Movie, error) {
	query := url.Values{}
	query.Set("n", strconv.Itoa(n))

	var resp recommendResponse
	if err := c.get(ctx, "/api/movies/recommend/"+url.PathEscape(title), query, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// Titles returns every catalog title, used for local autocomplete.
func (c *Client) Titles(ctx context.Context) ([]string, error) {
	var resp titlesResponse
	if err := c.get(ctx, "/api/movies/titles", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Titles, nil
}

// TMDBKey returns the image-service API key held by the backend.
func (c *Client) TMDBKey(ctx context.Context) (string, error) {
	var resp tmdbKeyResponse
	if err := c.get(ctx, "/api/tmdb-key", nil, &resp); err != nil {
		return "", err
	}
	return resp.Key, nil
}
