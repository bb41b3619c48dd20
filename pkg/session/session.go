// Package session provides the explicit login/logout lifecycle in front
// of the dashboard. Handlers receive a Session value rather than reading
// ambient authentication state; the authenticated user becomes the
// comment author.
package session

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/config"
)

// ErrBadCredentials is returned for an unknown user or wrong password.
// The two cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("unknown username or wrong password")

// Session is the authentication context passed to the presenter.
type Session struct {
	Username    string
	DisplayName string
	LoggedInAt  time.Time
	// Anonymous sessions exist when no credentials are configured; the
	// gate is then disabled and the configured reviewer name is used.
	Anonymous bool
}

// Author returns the name to attribute comments to.
func (s *Session) Author() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

// Authenticator checks logins against the configured credential list.
type Authenticator struct {
	credentials []config.Credential
	reviewer    string
}

// NewAuthenticator builds an authenticator from configuration.
func NewAuthenticator(cfg *config.Config) *Authenticator {
	return &Authenticator{
		credentials: cfg.Credentials,
		reviewer:    cfg.Reviewer,
	}
}

// Required reports whether a login is needed at all.
func (a *Authenticator) Required() bool {
	return len(a.credentials) > 0
}

// Login validates credentials and opens a session.
func (a *Authenticator) Login(username, password string) (*Session, error) {
	for _, cred := range a.credentials {
		if cred.Username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
			return nil, ErrBadCredentials
		}
		return &Session{
			Username:    cred.Username,
			DisplayName: cred.DisplayName,
			LoggedInAt:  time.Now(),
		}, nil
	}
	return nil, ErrBadCredentials
}

// AnonymousSession opens a session without a login, used when the gate is
// disabled.
func (a *Authenticator) AnonymousSession() *Session {
	return &Session{
		Username:    a.reviewer,
		DisplayName: a.reviewer,
		LoggedInAt:  time.Now(),
		Anonymous:   true,
	}
}

// Logout closes a session. The zero session that remains is unusable.
func Logout(s *Session) {
	*s = Session{}
}

// HashPassword generates a bcrypt hash suitable for the credentials list
// in the config file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
