package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("credenziali non valide")

// LocalDirectory is the fixed list of operator accounts sharing one password.
type LocalDirectory struct {
	users    map[string]struct{}
	password string
}

func NewLocalDirectory(users []string, password string) *LocalDirectory {
	d := &LocalDirectory{users: make(map[string]struct{}, len(users)), password: password}
	for _, u := range users {
		if u = normalizeUsername(u); u != "" {
			d.users[u] = struct{}{}
		}
	}
	return d
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// Verify returns the normalized username when the credentials match.
func (d *LocalDirectory) Verify(username, password string) (string, error) {
	u := normalizeUsername(username)
	if _, ok := d.users[u]; !ok || d.password == "" {
		return "", ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(d.password)) != 1 {
		return "", ErrInvalidCredentials
	}
	return u, nil
}

// Has reports whether username is a known local account.
func (d *LocalDirectory) Has(username string) bool {
	_, ok := d.users[normalizeUsername(username)]
	return ok
}

// AdminAuthenticator checks the single privileged account: a configured
// email plus a bcrypt hash of its password.
type AdminAuthenticator struct {
	email string
	hash  []byte
}

func NewAdminAuthenticator(email, passwordHash string) *AdminAuthenticator {
	return &AdminAuthenticator{
		email: strings.TrimSpace(email),
		hash:  []byte(passwordHash),
	}
}

func (a *AdminAuthenticator) Verify(email, password string) error {
	if a.email == "" || len(a.hash) == 0 {
		return ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), a.email) {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
