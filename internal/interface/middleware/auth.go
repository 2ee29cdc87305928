package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// Gin context keys set by Auth.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Identity is the authenticated caller, taken from the access token alone.
type Identity struct {
	ID    string
	Email string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by Auth, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// CurrentUser reads the identity from the gin context.
func CurrentUser(c *gin.Context) (Identity, bool) {
	uid := c.GetString(CtxUserIDKey)
	if uid == "" {
		return Identity{}, false
	}
	return Identity{ID: uid, Email: c.GetString(CtxUserEmailKey)}, true
}

// Auth requires "Authorization: Bearer <access token>". It does not touch any
// store: a valid signature and expiry are enough.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		id := Identity{ID: claims.UserID, Email: claims.Email}
		c.Set(CtxUserIDKey, id.ID)
		c.Set(CtxUserEmailKey, id.Email)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	_ = c.Error(apperror.Unauthorized("Unauthorized"))
	c.Abort()
}
