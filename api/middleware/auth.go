package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

// SessionCookie is the cookie carrying the dashboard session token.
const SessionCookie = "promo_session"

// SessionStore issues and validates random session tokens in memory.
// Sessions do not survive a restart; signing in again is the recovery.
type SessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
	ttl    time.Duration
}

// NewSessionStore creates a store whose tokens expire after ttl. A
// background goroutine sweeps expired tokens every 10 minutes.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
	}
	go s.sweep()
	return s
}

// Issue creates a new session token valid for the store's TTL.
func (s *SessionStore) Issue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token, nil
}

// Valid reports whether token is a live session.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke invalidates a session token. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *SessionStore) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for token, expiry := range s.tokens {
			if now.After(expiry) {
				delete(s.tokens, token)
			}
		}
		s.mu.Unlock()
	}
}

// Session returns session-authentication middleware.
//
// Two credentials are accepted:
//
//	Cookie:        promo_session=<token>   (issued by POST /login)
//	Authorization: Bearer <password>       (API and MCP clients)
//
// If password is empty, the middleware is a no-op (open access).
func Session(store *SessionStore, password string) gin.HandlerFunc {
	if password == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if token, err := c.Cookie(SessionCookie); err == nil && store.Valid(token) {
			c.Set("session", token)
			c.Next()
			return
		}

		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			bearer := strings.TrimPrefix(auth, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(bearer), []byte(password)) == 1 {
				c.Set("session", "bearer")
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeUnauthorized,
				Message: "sign in first or provide Authorization: Bearer <password>",
			},
		})
	}
}
