package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Keys under which the login state is stored.
const (
	KeyToken        = "accessTokens"
	KeyPendingPhone = "phonenumber"
)

// Session is the login state on top of a KV.
type Session struct {
	kv  KV
	now func() time.Time
}

// New wraps kv.
func New(kv KV) *Session {
	return &Session{kv: kv, now: time.Now}
}

// Token returns the stored access token, or "" when logged out or the store
// cannot be read. It satisfies api.TokenSource.
func (s *Session) Token() string {
	tok, err := s.kv.Get(KeyToken)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(tok)
}

// SaveToken stores the access token and forgets the pending OTP phone.
func (s *Session) SaveToken(token string) error {
	if err := s.kv.Set(KeyToken, strings.TrimSpace(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	_ = s.kv.Clear(KeyPendingPhone)
	return nil
}

// PendingPhone returns the phone an OTP was last sent to.
func (s *Session) PendingPhone() string {
	p, err := s.kv.Get(KeyPendingPhone)
	if err != nil {
		return ""
	}
	return p
}

// SavePendingPhone remembers the phone between the two login steps.
func (s *Session) SavePendingPhone(phone string) error {
	if err := s.kv.Set(KeyPendingPhone, phone); err != nil {
		return fmt.Errorf("save phone: %w", err)
	}
	return nil
}

// Logout clears the token.
func (s *Session) Logout() error {
	if err := s.kv.Clear(KeyToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticated reports whether a usable token is stored. JWTs are checked
// for expiry without verifying the signature; opaque tokens are accepted.
func (s *Session) Authenticated() bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	exp, ok := ExpiresAt(tok)
	if !ok {
		return true
	}
	return s.now().Before(exp)
}

// ExpiresAt returns the exp claim of a JWT. ok is false for tokens that are
// not JWTs or carry no exp.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	}
	return time.Time{}, false
}
