// Package auth holds the login, logout and token refresh use cases.
package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/domain/user"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/jwt"
	"github.com/xiebiao/catalog/pkg/logger"
)

// SessionStore is implemented by redis.SessionStore.
type SessionStore interface {
	SaveSession(ctx context.Context, sess *redis.Session, ttl time.Duration) error
	GetSession(ctx context.Context, userID uint) (*redis.Session, error)
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginRequest carries credentials and the caller address.
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse is the token pair plus the account it belongs to.
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // access token lifetime in seconds
}

type UserInfo struct {
	ID        uint     `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	Roles     []string `json:"roles"`
}

// RefreshResponse is a new access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// LoginUseCase checks credentials, issues a token pair and opens a session.
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	now          func() time.Time
}

func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore SessionStore) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		now:          time.Now,
	}
}

// Execute logs in. A session that cannot be saved is logged and the login
// still succeeds; refresh will then be refused until the next login.
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	roles := u.Authorities()
	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, roles)
	if err != nil {
		return nil, err
	}

	sess := &redis.Session{
		UserID:   u.ID,
		Email:    u.Email,
		Roles:    roles,
		ClientIP: req.ClientIP,
		LoginAt:  uc.now(),
	}
	if err := uc.sessionStore.SaveSession(ctx, sess, uc.jwtManager.RefreshTokenTTL()); err != nil {
		logger.FromContext(ctx).Warn("save session failed", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	logger.FromContext(ctx).Info("user logged in", zap.Uint("user_id", u.ID))
	return &LoginResponse{
		User: UserInfo{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			Roles:     roles,
		},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// LogoutUseCase ends the session and revokes the access token.
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute blacklists accessToken for a full access token lifetime, which
// always covers what is left of it.
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenTTL()); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("user logged out", zap.Uint("user_id", userID))
	return nil
}

// RefreshUseCase trades a refresh token for a new access token.
type RefreshUseCase struct {
	users        user.Repository
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

func NewRefreshUseCase(users user.Repository, jwtManager *jwt.Manager, sessionStore SessionStore) *RefreshUseCase {
	return &RefreshUseCase{users: users, jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute requires a live session, so logout also invalidates refresh
// tokens. Roles are reloaded, a role change applies from the next refresh.
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	userID, err := uc.jwtManager.SubjectOf(refreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := uc.sessionStore.GetSession(ctx, userID); err != nil {
		return nil, err
	}

	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	token, err := uc.jwtManager.IssueAccessToken(u.ID, u.Email, u.Authorities())
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		AccessToken: token,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}
