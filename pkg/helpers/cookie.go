package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Manager writes the refresh-token cookie. The cookie is host-only, HttpOnly
// and scoped to "/". With Secure set (the default, COOKIE_SECURE=true) it is
// Secure and SameSite=None. With Secure unset, for plain-http development, it
// drops Secure and falls back to SameSite=Lax.
type Manager struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func NewCookie(name string, secure bool, maxAge time.Duration) *Manager {
	return &Manager{Name: name, Secure: secure, MaxAge: maxAge}
}

// SetRefresh stores the raw refresh token in the session cookie.
func (m *Manager) SetRefresh(c *gin.Context, token string) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(m.Name, token, int(m.MaxAge/time.Second), "/", "", m.Secure, true)
}

// ClearRefresh expires the session cookie.
func (m *Manager) ClearRefresh(c *gin.Context) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(m.Name, "", -1, "/", "", m.Secure, true)
}

// Refresh returns the refresh token carried by the request, if any.
func (m *Manager) Refresh(c *gin.Context) string {
	v, err := c.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return v
}

// Cross-site cookies need SameSite=None, which browsers only accept with Secure.
func (m *Manager) sameSite() http.SameSite {
	if m.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
