// Package pending keeps destructive or irreversible operations waiting for an
// explicit confirmation from the session that asked for them.
package pending

import (
	"context"
	"errors"
	"time"

	"github.com/ceralandia/api/internal/order"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown, expired or already resolved confirmations.
var ErrNotFound = errors.New("conferma non trovata o scaduta")

// Kind says what a confirmation will do once confirmed.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindStatus Kind = "status"
	KindImport Kind = "import"
)

// Confirmation is an operation parked until its requester confirms or
// cancels it.
type Confirmation struct {
	ID        uuid.UUID     `json:"id"`
	Kind      Kind          `json:"kind"`
	Message   string        `json:"message"`
	Username  string        `json:"username"`
	Role      string        `json:"role"`
	OrderID   uuid.UUID     `json:"order_id,omitempty"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
	Partition string        `json:"partition,omitempty"`
	Order     *order.Order  `json:"order,omitempty"`
	Orders    []order.Order `json:"orders,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Store holds confirmations until they are taken or expire. Take removes the
// entry atomically, so a confirmation is resolved at most once.
type Store interface {
	Put(ctx context.Context, c Confirmation) (Confirmation, error)
	Get(ctx context.Context, id uuid.UUID) (Confirmation, error)
	Take(ctx context.Context, id uuid.UUID) (Confirmation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// stamp fills the id and lifetime of a new confirmation.
func stamp(c Confirmation, now time.Time, ttl time.Duration) Confirmation {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = now
	c.ExpiresAt = now.Add(ttl)
	return c
}
