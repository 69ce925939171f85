package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/google/uuid"
)

const msgConfirmDelivered = "Confermi la consegna? L'ordine passerà tra i consegnati."

func importMessage(n int) string {
	return fmt.Sprintf("Importare %d ordini? Gli ordini esistenti verranno sostituiti.", n)
}

// park stores c as a confirmation owned by actor.
func (s *OrderService) park(ctx context.Context, actor workflow.Actor, c pending.Confirmation) (Outcome, error) {
	c.Username = actor.Username
	c.Role = actor.Role
	stored, err := s.confirmations.Put(ctx, c)
	if err != nil {
		return Outcome{}, &StoreError{Op: "put confirmation", Err: err}
	}
	return Outcome{Phase: workflow.PhasePending, Visible: stored.To, Pending: &stored}, nil
}

// claim resolves a confirmation for actor, removing it from the store.
func (s *OrderService) claim(ctx context.Context, actor workflow.Actor, id uuid.UUID) (pending.Confirmation, error) {
	if err := workflow.CanView(actor); err != nil {
		return pending.Confirmation{}, err
	}
	c, err := s.confirmations.Get(ctx, id)
	if err != nil {
		return pending.Confirmation{}, confirmationErr(err)
	}
	if c.Username != actor.Username {
		return pending.Confirmation{}, ErrNotRequester
	}
	c, err = s.confirmations.Take(ctx, id)
	if err != nil {
		return pending.Confirmation{}, confirmationErr(err)
	}
	return c, nil
}

func confirmationErr(err error) error {
	if errors.Is(err, pending.ErrNotFound) {
		return err
	}
	return &StoreError{Op: "load confirmation", Err: err}
}

// Confirm carries out a parked operation. Permissions are checked again
// against the current state of the order.
func (s *OrderService) Confirm(ctx context.Context, actor workflow.Actor, id uuid.UUID) (Outcome, error) {
	c, err := s.claim(ctx, actor, id)
	if err != nil {
		return Outcome{}, err
	}

	switch c.Kind {
	case pending.KindCreate:
		if c.Order == nil {
			return Outcome{}, pending.ErrNotFound
		}
		return s.insert(ctx, *c.Order)

	case pending.KindUpdate:
		if c.Order == nil {
			return Outcome{}, pending.ErrNotFound
		}
		current, err := s.get(ctx, c.OrderID)
		if err != nil {
			return Outcome{}, err
		}
		if err := workflow.CanEdit(actor, current.Status); err != nil {
			return Outcome{}, err
		}
		next := *c.Order
		next.CreatedAt = current.CreatedAt
		return s.replace(ctx, current, next)

	case pending.KindStatus:
		current, err := s.get(ctx, c.OrderID)
		if err != nil {
			return Outcome{}, err
		}
		if err := workflow.CanEdit(actor, current.Status); err != nil {
			return Outcome{}, err
		}
		change, err := workflow.Request(current.Status, c.To)
		if err != nil {
			return Outcome{}, err
		}
		if change.Phase == workflow.PhasePending {
			if change, err = change.Confirm(); err != nil {
				return Outcome{}, err
			}
		}
		return s.applyStatus(ctx, change, current)

	case pending.KindImport:
		if err := workflow.CanImport(actor); err != nil {
			return Outcome{}, err
		}
		summary, err := s.runImport(ctx, c.Partition, c.Orders)
		if err != nil {
			return Outcome{Phase: workflow.PhaseRolledBack, Import: &summary}, err
		}
		return Outcome{Phase: workflow.PhaseApplied, Import: &summary}, nil
	}
	return Outcome{}, fmt.Errorf("unknown confirmation kind %q", c.Kind)
}

// Cancel drops a parked operation. Nothing is written; the outcome shows
// the status the order had before the request.
func (s *OrderService) Cancel(ctx context.Context, actor workflow.Actor, id uuid.UUID) (Outcome, error) {
	c, err := s.claim(ctx, actor, id)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Phase: workflow.PhaseCancelled, Visible: c.From, Pending: &c}
	if c.Kind == pending.KindStatus || c.Kind == pending.KindUpdate {
		change := workflow.StatusChange{From: c.From, To: c.To, Phase: workflow.PhasePending}
		if cancelled, err := change.Cancel(); err == nil {
			out.Visible = cancelled.Visible()
		}
	}
	return out, nil
}
