// Package service manages the signed-in session: login, logout, persistence
// of the access token across restarts, and the identity claims the UI shows.
// The client never holds the signing secret, so claims are read without
// signature verification; the backend remains the authority on every call.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/auth/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// clockSkew tolerates drift between the client clock and the backend's.
const clockSkew = 30 * time.Second

// User is the signed-in identity shown by the UI.
type User struct {
	ID    uuid.UUID
	Email string
	Name  string
	Roles []string
}

// Gateway performs the login call.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Service holds the session state. All methods are safe for concurrent use.
type Service struct {
	mu   sync.RWMutex
	gw   Gateway
	val  *validator.Validator
	log  *logger.Logger
	path string // session file, empty disables persistence

	token  string
	user   User
	expiry time.Time
}

// storedSession is the on-disk session format, the terminal analogue of the
// browser's token storage.
type storedSession struct {
	AccessToken string `json:"access_token"`
}

// New creates a session service. sessionPath may be empty to keep the
// session in memory only.
func New(gw Gateway, val *validator.Validator, sessionPath string, log *logger.Logger) *Service {
	return &Service{gw: gw, val: val, path: sessionPath, log: log}
}

// Login validates credentials locally, exchanges them with the backend, and
// stores the resulting session.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	req := transport.SignInRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.val.Struct(req); err != nil {
		return User{}, apperr.Validation("enter a valid email and password")
	}

	token, err := s.gw.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, err.Error())
		return User{}, err
	}

	user, expiry, err := parseClaims(token)
	if err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, err.Error())
		return User{}, apperr.Wrap(apperr.KindInternal, "malformed access token", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.expiry = expiry
	s.mu.Unlock()

	if err := s.persist(token); err != nil {
		s.log.Warn("session not persisted", "error", err.Error())
	}

	s.log.AuthEvent("sign_in", req.Email, true, "")
	return user, nil
}

// Restore loads a persisted session, discarding it when missing, corrupt, or
// expired. A discarded session is not an error; the caller just sees a
// signed-out state.
func (s *Service) Restore() {
	if s.path == "" {
		return
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil || stored.AccessToken == "" {
		s.discard()
		return
	}

	user, expiry, err := parseClaims(stored.AccessToken)
	if err != nil || expired(expiry, time.Now()) {
		s.discard()
		return
	}

	s.mu.Lock()
	s.token = stored.AccessToken
	s.user = user
	s.expiry = expiry
	s.mu.Unlock()

	s.log.Info("session restored", "email", user.Email)
}

// Logout clears the session in memory and on disk.
func (s *Service) Logout() {
	s.mu.Lock()
	email := s.user.Email
	s.token = ""
	s.user = User{}
	s.expiry = time.Time{}
	s.mu.Unlock()

	s.discard()
	if email != "" {
		s.log.AuthEvent("sign_out", email, true, "")
	}
}

// Expire drops the session after the backend rejected its token.
func (s *Service) Expire() {
	s.mu.Lock()
	wasSignedIn := s.token != ""
	s.token = ""
	s.user = User{}
	s.expiry = time.Time{}
	s.mu.Unlock()

	s.discard()
	if wasSignedIn {
		s.log.Warn("session expired")
	}
}

// AccessToken implements rest.TokenSource.
func (s *Service) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || expired(s.expiry, time.Now()) {
		return "", false
	}
	return s.token, true
}

// CurrentUser returns the signed-in identity.
func (s *Service) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || expired(s.expiry, time.Now()) {
		return User{}, false
	}
	return s.user, true
}

// SignedIn reports whether a usable session exists.
func (s *Service) SignedIn() bool {
	_, ok := s.AccessToken()
	return ok
}

func (s *Service) persist(token string) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(storedSession{AccessToken: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Service) discard() {
	if s.path == "" {
		return
	}
	_ = os.Remove(s.path)
}

func expired(expiry, now time.Time) bool {
	return !expiry.IsZero() && now.After(expiry.Add(clockSkew))
}

func parseClaims(raw string) (User, time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return User{}, time.Time{}, err
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return User{}, time.Time{}, fmt.Errorf("token subject: %w", err)
	}

	user := User{
		ID:    id,
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name"),
		Roles: rolesClaim(claims["roles"]),
	}

	var expiry time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiry = exp.Time
	}
	return user, expiry, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}

func rolesClaim(value interface{}) []string {
	roles := make([]string, 0)
	switch typed := value.(type) {
	case []string:
		return append(roles, typed...)
	case []interface{}:
		for _, item := range typed {
			if text, ok := item.(string); ok {
				roles = append(roles, text)
			}
		}
	}
	return roles
}
