package session_test

import (
	"errors"
	"testing"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/session"
)

var errBad = errors.New("bad credentials")

type mockDirectory struct {
	verifyFn func(username, password string) (string, error)
}

func (m *mockDirectory) Verify(username, password string) (string, error) {
	return m.verifyFn(username, password)
}

type mockAdmin struct {
	verifyFn func(email, password string) error
}

func (m *mockAdmin) Verify(email, password string) error {
	return m.verifyFn(email, password)
}

func TestLoginLocal(t *testing.T) {
	dir := &mockDirectory{verifyFn: func(u, p string) (string, error) {
		if p != "ok" {
			return "", errBad
		}
		return "ambra", nil
	}}

	s, err := session.LoginLocal(dir, " Ambra ", "ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Username != "ambra" || s.Role != enum.RoleUser || s.Source != session.SourceLocal {
		t.Errorf("got %+v", s)
	}
	if s.IsAdmin() {
		t.Error("local session must not be admin")
	}

	if _, err := session.LoginLocal(dir, "ambra", "nope"); !errors.Is(err, errBad) {
		t.Errorf("got %v", err)
	}
}

func TestLoginAdmin(t *testing.T) {
	authn := &mockAdmin{verifyFn: func(e, p string) error {
		if e == "boss@example.com" && p == "secret" {
			return nil
		}
		return errBad
	}}

	s, err := session.LoginAdmin(authn, "boss@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Username != enum.AdminUsername || !s.IsAdmin() || s.Source != session.SourcePrivileged {
		t.Errorf("got %+v", s)
	}

	if _, err := session.LoginAdmin(authn, "boss@example.com", "x"); err == nil {
		t.Error("expected error")
	}
}

func TestLogout(t *testing.T) {
	s := session.Session{Username: "ambra", Role: enum.RoleUser, Source: session.SourceLocal}
	out := s.Logout()
	if out.Authenticated() {
		t.Errorf("got %+v", out)
	}
	if s.Username != "ambra" {
		t.Error("logout mutated the original session")
	}
}

func TestRestore(t *testing.T) {
	local := &session.Session{Username: "salvo", Role: enum.RoleUser, Source: session.SourceLocal}
	admin := &session.Session{Username: enum.AdminUsername, Role: enum.RoleAdmin, Source: session.SourcePrivileged}

	if got := session.Restore(admin, local); got != *admin {
		t.Errorf("privileged should win, got %+v", got)
	}
	if got := session.Restore(nil, local); got != *local {
		t.Errorf("missing privileged session cleared local one: %+v", got)
	}
	if got := session.Restore(&session.Session{}, local); got != *local {
		t.Errorf("empty privileged session cleared local one: %+v", got)
	}
	if got := session.Restore(nil, nil); got.Authenticated() {
		t.Errorf("expected anonymous, got %+v", got)
	}
	// A local credential claiming the admin role is ignored.
	forged := &session.Session{Username: "salvo", Role: enum.RoleAdmin, Source: session.SourceLocal}
	if got := session.Restore(nil, forged); got.Authenticated() {
		t.Errorf("forged local admin accepted: %+v", got)
	}
}

func TestActor(t *testing.T) {
	s := session.Session{Username: "franco", Role: enum.RoleUser}
	a := s.Actor()
	if a.Username != "franco" || a.IsAdmin() {
		t.Errorf("got %+v", a)
	}
}
