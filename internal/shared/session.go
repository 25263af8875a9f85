package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session describes an authenticated principal. Sessions are issued by the
// identity provider, which writes them into Redis; this service only reads
// and refreshes them.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrSessionNotFound indicates the presented token has no backing session.
var ErrSessionNotFound = errors.New("shared: session not found")

// SessionStore resolves bearer tokens against the shared Redis session space.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, prefix string, ttl time.Duration) *SessionStore {
	if prefix == "" {
		prefix = "proxa_session"
	}
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

// Resolve loads the session for a bearer token, extending its TTL on hit.
func (s *SessionStore) Resolve(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionNotFound
	}
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("shared: load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("shared: decode session: %w", err)
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	sess.Token = token
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	}
	return &sess, nil
}

// Put stores a session and returns its token. Used by the seed tooling and
// tests; production tokens come from the identity provider.
func (s *SessionStore) Put(ctx context.Context, sess Session) (string, error) {
	token := sess.Token
	if token == "" {
		token = uuid.NewString()
	}
	if sess.IssuedAt.IsZero() {
		sess.IssuedAt = time.Now()
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("shared: encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("shared: store session: %w", err)
	}
	return token, nil
}

// Revoke removes a session.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return s.prefix + ":" + token
}

// BearerToken extracts the bearer token from a request, falling back to the
// session cookie used by the browser client.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie("proxa_session"); err == nil {
		return cookie.Value
	}
	return ""
}
