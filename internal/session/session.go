// Package session models who is using the application. A Session is an
// immutable value; logging in or out returns a new one.
package session

import (
	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/workflow"
)

// Where a session came from.
const (
	SourceLocal      = "local"
	SourcePrivileged = "privileged"
)

type Session struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Source   string `json:"source"`
}

// LocalDirectory checks operator credentials and returns the canonical
// username.
type LocalDirectory interface {
	Verify(username, password string) (string, error)
}

// AdminAuthenticator checks the privileged credential.
type AdminAuthenticator interface {
	Verify(email, password string) error
}

func (s Session) Authenticated() bool { return s.Username != "" }

func (s Session) IsAdmin() bool { return s.Role == enum.RoleAdmin }

// Actor is the identity permission checks run against.
func (s Session) Actor() workflow.Actor {
	return workflow.Actor{Username: s.Username, Role: s.Role}
}

// LoginLocal opens an operator session.
func LoginLocal(dir LocalDirectory, username, password string) (Session, error) {
	name, err := dir.Verify(username, password)
	if err != nil {
		return Session{}, err
	}
	return Session{Username: name, Role: enum.RoleUser, Source: SourceLocal}, nil
}

// LoginAdmin opens a privileged session. Every privileged session has the
// same fixed identity.
func LoginAdmin(authn AdminAuthenticator, email, password string) (Session, error) {
	if err := authn.Verify(email, password); err != nil {
		return Session{}, err
	}
	return Session{Username: enum.AdminUsername, Role: enum.RoleAdmin, Source: SourcePrivileged}, nil
}

// Logout returns the anonymous session.
func (s Session) Logout() Session {
	return Session{}
}

// Restore picks the session to use from what the client presented. A
// privileged session always wins. A missing privileged session never
// discards a local one.
func Restore(privileged, local *Session) Session {
	if privileged != nil && privileged.Authenticated() && privileged.IsAdmin() {
		return *privileged
	}
	if local != nil && local.Authenticated() && local.Role == enum.RoleUser {
		return *local
	}
	return Session{}
}
