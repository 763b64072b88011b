package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// Session is what a login leaves behind in Redis.
type Session struct {
	UserID   uint
	Email    string
	Roles    []string
	ClientIP string
	LoginAt  time.Time
}

// SessionStore keeps login sessions and the access token blacklist.
// Keys:
//   - session:{user_id}  hash, expires with the refresh token
//   - blacklist:{token}  string, expires with the access token
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates the session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// SaveSession overwrites the user's session. HSET and EXPIRE run in one
// MULTI so a session never exists without a TTL.
func (s *SessionStore) SaveSession(ctx context.Context, sess *Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]interface{}{
			"user_id":   sess.UserID,
			"email":     sess.Email,
			"roles":     strings.Join(sess.Roles, ","),
			"client_ip": sess.ClientIP,
			"login_at":  sess.LoginAt.Unix(),
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "Save session failed")
	}
	return nil
}

// GetSession returns ErrUnauthorized when the user has no live session.
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (*Session, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "Get session failed")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	sess := &Session{
		UserID:   userID,
		Email:    result["email"],
		ClientIP: result["client_ip"],
	}
	if roles := result["roles"]; roles != "" {
		sess.Roles = strings.Split(roles, ",")
	}
	if ts, err := strconv.ParseInt(result["login_at"], 10, 64); err == nil {
		sess.LoginAt = time.Unix(ts, 0)
	}
	return sess, nil
}

// DeleteSession ends the user's session.
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "Delete session failed")
	}
	return nil
}

// AddToBlacklist revokes token until ttl passes. A non-positive ttl is a
// no-op, the token has already expired.
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "Revoke token failed")
	}
	return nil
}

// IsInBlacklist reports whether token was revoked.
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "Check token blacklist failed")
	}
	return n > 0, nil
}
