package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/catalog/pkg/authz"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/jwt"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/response"
)

const (
	principalKey   = "principal"
	accessTokenKey = "access_token"
)

// TokenBlacklist is implemented by redis.SessionStore.
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware turns a Bearer access token into an authz.Principal.
// Roles are taken from the token; permission checks happen in the
// application services.
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth rejects requests without a valid, non-revoked access token.
//
//	authorized := v1.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		p, err := m.authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		m.attach(c, p, token)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present and
// otherwise continues anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if p, err := m.authenticate(c.Request.Context(), token); err == nil {
				m.attach(c, p, token)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*authz.Principal, error) {
	claims, err := m.jwtManager.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.blacklist.IsInBlacklist(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenExpired
	}

	return &authz.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}, nil
}

func (m *AuthMiddleware) attach(c *gin.Context, p *authz.Principal, token string) {
	c.Set(principalKey, p)
	c.Set(accessTokenKey, token)

	ctx := c.Request.Context()
	l := logger.FromContext(ctx).With(zap.Uint("user_id", p.UserID))
	c.Request = c.Request.WithContext(logger.WithContext(ctx, l))
}

// bearerToken reads "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// GetPrincipal returns the authenticated caller, nil for anonymous requests.
func GetPrincipal(c *gin.Context) *authz.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*authz.Principal); ok {
			return p
		}
	}
	return nil
}

// GetAccessToken returns the raw token of an authenticated request.
func GetAccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
