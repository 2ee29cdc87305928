package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshTimeout = 10 * time.Second
	DefaultRefreshPath    = "/auth/refresh"
)

var DefaultSkipPaths = []string{"/auth/login", "/auth/register"}

// ErrNoReplay is returned when a request got a 401 but its body can't be
// sent a second time (no GetBody).
var ErrNoReplay = errors.New("client: request body cannot be replayed")

// Session is what a successful login, register or refresh returns.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// RefreshFunc obtains a new session, typically by POSTing to /auth/refresh
// with the refresh cookie. It must not go through the Transport.
type RefreshFunc func(ctx context.Context) (*Session, error)

// Transport attaches the stored access token to every request and recovers
// from an expired one. On a 401 it joins the single in-flight refresh or
// starts one, then replays the request once with the new token. When the
// refresh fails the store is cleared and every waiting request gets the error.
//
// The refresh call itself is never intercepted. By default neither are 401s
// from /auth/login and /auth/register (DefaultSkipPaths), since those report
// bad credentials rather than an expired session. Set SkipPaths to an empty,
// non-nil slice to refresh on every other 401.
type Transport struct {
	Base    http.RoundTripper
	Store   *TokenStore
	Refresh RefreshFunc

	// RefreshTimeout bounds a refresh call. Zero means DefaultRefreshTimeout.
	RefreshTimeout time.Duration
	// RefreshPath identifies refresh calls, which are never retried.
	RefreshPath string
	// SkipPaths are path suffixes whose 401 is returned as-is. Nil means
	// DefaultSkipPaths; an empty slice skips nothing.
	SkipPaths []string
	// OnSessionRefresh, if set, is called after each successful refresh.
	OnSessionRefresh func(Session)

	group singleflight.Group
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) timeout() time.Duration {
	if t.RefreshTimeout > 0 {
		return t.RefreshTimeout
	}
	return DefaultRefreshTimeout
}

// intercepts reports whether a 401 for req should trigger a refresh.
func (t *Transport) intercepts(req *http.Request) bool {
	refresh := t.RefreshPath
	if refresh == "" {
		refresh = DefaultRefreshPath
	}
	if strings.HasSuffix(req.URL.Path, refresh) {
		return false
	}
	skip := t.SkipPaths
	if skip == nil {
		skip = DefaultSkipPaths
	}
	for _, p := range skip {
		if strings.HasSuffix(req.URL.Path, p) {
			return false
		}
	}
	return true
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	sent, _ := t.Store.Get()
	resp, err := t.base().RoundTrip(withBearer(req, sent))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || !t.intercepts(req) || t.Refresh == nil {
		return resp, err
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	token, err := t.refreshed(req.Context(), sent)
	if err != nil {
		return nil, err
	}

	replay := withBearer(req, token)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Join(ErrNoReplay, err)
		}
		replay.Body = body
	}
	// straight to the base transport: a request is replayed at most once
	return t.base().RoundTrip(replay)
}

// refreshed returns a token newer than sent, refreshing only if nobody else
// already has.
func (t *Transport) refreshed(ctx context.Context, sent string) (string, error) {
	ch := t.group.DoChan("refresh", func() (any, error) {
		if cur, ok := t.Store.Get(); ok && cur != sent {
			return cur, nil
		}
		// detached so one caller giving up doesn't fail the others
		rctx, cancel := context.WithTimeout(context.Background(), t.timeout())
		defer cancel()

		s, err := t.Refresh(rctx)
		if err != nil {
			t.Store.Clear()
			return nil, err
		}
		t.Store.Set(s.AccessToken)
		if t.OnSessionRefresh != nil {
			t.OnSessionRefresh(*s)
		}
		return s.AccessToken, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// withBearer clones req, setting Authorization when a token is held.
func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}
