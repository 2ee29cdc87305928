// Package client is a Go client for the task-manager API. It keeps the access
// token in memory, the refresh token in a cookie jar, and renews the session
// transparently when the access token expires.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      string    `json:"userId"`
}

type TaskPage struct {
	Data []Task `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

// TaskQuery filters ListTasks. Zero values are left out of the query.
type TaskQuery struct {
	Page   int
	Limit  int
	Status *bool
	Search string
}

type TaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *bool   `json:"status,omitempty"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client // intercepted
	auth    *http.Client // plain, used for the refresh call

	Tokens    *TokenStore
	Transport *Transport
}

type Option func(*Client)

// WithBaseTransport sets the transport underneath the refresh interceptor.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.Transport.Base = rt
		c.auth.Transport = rt
	}
}

func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.Transport.RefreshTimeout = d }
}

// WithSessionRefreshHandler registers an observer for background refreshes.
func WithSessionRefreshHandler(fn func(Session)) Option {
	return func(c *Client) { c.Transport.OnSessionRefresh = fn }
}

// New returns a client for the API at baseURL. "/api" is appended when missing.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}

	c := &Client{
		baseURL: base,
		Tokens:  NewTokenStore(),
		auth:    &http.Client{Jar: jar},
	}
	c.Transport = &Transport{Store: c.Tokens}
	c.Transport.Refresh = c.refresh
	c.http = &http.Client{Jar: jar, Transport: c.Transport}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, c.http, http.MethodPost, "/auth/register", body, &s); err != nil {
		return nil, err
	}
	c.Tokens.Set(s.AccessToken)
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, c.http, http.MethodPost, "/auth/login", body, &s); err != nil {
		return nil, err
	}
	c.Tokens.Set(s.AccessToken)
	return &s, nil
}

// Refresh renews the session from the refresh cookie, e.g. on startup.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.do(ctx, c.http, http.MethodPost, DefaultRefreshPath, nil, &s); err != nil {
		return nil, err
	}
	c.Tokens.Set(s.AccessToken)
	return &s, nil
}

// refresh is the Transport's RefreshFunc; it bypasses the interceptor.
func (c *Client) refresh(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.do(ctx, c.auth, http.MethodPost, DefaultRefreshPath, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, c.http, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.Tokens.Clear()
	return nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, c.http, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) (*TaskPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != nil {
		v.Set("status", strconv.FormatBool(*q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	path := "/tasks"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var page TaskPage
	if err := c.do(ctx, c.http, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.do(ctx, c.http, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	var t Task
	if err := c.do(ctx, c.http, http.MethodPost, "/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (*Task, error) {
	var t Task
	if err := c.do(ctx, c.http, http.MethodPatch, "/tasks/"+url.PathEscape(id), in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ToggleTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.do(ctx, c.http, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, c.http, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
// Bodies are buffered so the interceptor can replay them.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
