// Package workflow guards order status transitions. Moving an order into the
// delivered state needs an explicit confirmation; every other move is
// approved straight away.
package workflow

import (
	"errors"
	"fmt"

	"github.com/ceralandia/api/internal/enum"
)

var (
	ErrInvalidPhase  = errors.New("transizione non valida")
	ErrInvalidStatus = errors.New("stato non valido")
)

// Phase is the progress of a single status change request.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePending    Phase = "pending"
	PhaseApproved   Phase = "approved"
	PhaseApplied    Phase = "applied"
	PhaseCancelled  Phase = "cancelled"
	PhaseRolledBack Phase = "rolled_back"
)

// StatusChange tracks one requested status move. It is a value: every
// transition returns a new StatusChange and leaves the receiver untouched.
type StatusChange struct {
	From  string
	To    string
	Phase Phase
}

// NeedsConfirmation reports whether moving from -> to must be confirmed.
func NeedsConfirmation(from, to string) bool {
	return to == enum.StatusDelivered && from != enum.StatusDelivered
}

// Request starts a change. The result is Pending when the target is the
// delivered state and Approved otherwise.
func Request(from, to string) (StatusChange, error) {
	if !enum.IsValidStatus(from) || !enum.IsValidStatus(to) {
		return StatusChange{}, fmt.Errorf("%w: %q -> %q", ErrInvalidStatus, from, to)
	}
	c := StatusChange{From: from, To: to, Phase: PhaseApproved}
	if NeedsConfirmation(from, to) {
		c.Phase = PhasePending
	}
	return c, nil
}

func (c StatusChange) move(from, to Phase) (StatusChange, error) {
	if c.Phase != from {
		return c, fmt.Errorf("%w: %s -> %s", ErrInvalidPhase, c.Phase, to)
	}
	c.Phase = to
	return c, nil
}

// Confirm approves a pending change.
func (c StatusChange) Confirm() (StatusChange, error) {
	return c.move(PhasePending, PhaseApproved)
}

// Cancel drops a pending change.
func (c StatusChange) Cancel() (StatusChange, error) {
	return c.move(PhasePending, PhaseCancelled)
}

// Succeed marks an approved change as persisted.
func (c StatusChange) Succeed() (StatusChange, error) {
	return c.move(PhaseApproved, PhaseApplied)
}

// Fail rolls back an approved change whose write did not go through.
func (c StatusChange) Fail() (StatusChange, error) {
	return c.move(PhaseApproved, PhaseRolledBack)
}

// Visible is the status the operator should see right now.
func (c StatusChange) Visible() string {
	switch c.Phase {
	case PhasePending, PhaseApproved, PhaseApplied:
		return c.To
	}
	return c.From
}
