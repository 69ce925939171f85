package workflow

import (
	"errors"

	"github.com/ceralandia/api/internal/enum"
)

// Permission errors. Messages are shown to operators as-is.
var (
	ErrNotAuthenticated       = errors.New("accesso richiesto")
	ErrDeliveredEditForbidden = errors.New("solo l'admin può modificare un ordine consegnato")
	ErrDeleteForbidden        = errors.New("solo l'admin può eliminare gli ordini")
	ErrImportForbidden        = errors.New("solo l'admin può importare ordini")
)

// Actor is whoever performs an operation.
type Actor struct {
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == enum.RoleAdmin }

func (a Actor) authenticated() bool { return a.Username != "" }

// CanView allows any authenticated session.
func CanView(a Actor) error {
	if !a.authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// CanEdit checks a full update or status change of an order currently in
// the given status. Delivered orders are admin-only.
func CanEdit(a Actor, currentStatus string) error {
	if err := CanView(a); err != nil {
		return err
	}
	if currentStatus == enum.StatusDelivered && !a.IsAdmin() {
		return ErrDeliveredEditForbidden
	}
	return nil
}

func CanDelete(a Actor) error {
	return adminOnly(a, ErrDeleteForbidden)
}

func CanImport(a Actor) error {
	return adminOnly(a, ErrImportForbidden)
}

func adminOnly(a Actor, denied error) error {
	if err := CanView(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return denied
	}
	return nil
}

// IsForbidden reports whether err is a permission refusal.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrDeliveredEditForbidden) ||
		errors.Is(err, ErrDeleteForbidden) ||
		errors.Is(err, ErrImportForbidden)
}
