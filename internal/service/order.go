package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ceralandia/api/internal/database"
	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Errors returned by the order service.
var (
	ErrNotFound         = errors.New("ordine non trovato")
	ErrInvalidPartition = errors.New("partizione non valida")
	ErrNotRequester     = errors.New("la conferma appartiene a un'altra sessione")
	ErrEmptyImport      = errors.New("nessun ordine da importare")
)

// StoreError wraps a failed database call. Callers tell it apart from
// validation and permission errors with errors.As.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// Notifier tells connected clients that a partition changed.
// Satisfied by *ws.Hub.
type Notifier interface {
	Publish(eventType string, payload any, partitions ...string)
}

// Outcome reports what a mutation did. Phase is Applied when the change was
// stored, Pending when it waits for confirmation, Cancelled or RolledBack
// otherwise. Visible is the status the operator should now see.
type Outcome struct {
	Phase   workflow.Phase        `json:"phase"`
	Visible string                `json:"visible_status,omitempty"`
	Order   *order.Order          `json:"order,omitempty"`
	Pending *pending.Confirmation `json:"pending,omitempty"`
	Import  *ImportSummary        `json:"import,omitempty"`
}

// OrderService handles order business logic.
type OrderService struct {
	store         OrderStore
	confirmations pending.Store
	notifier      Notifier
	operators     []string
	workers       []string
}

// NewOrderService creates a new OrderService. notifier may be nil.
func NewOrderService(store OrderStore, confirmations pending.Store, notifier Notifier, operators, workers []string) *OrderService {
	return &OrderService{
		store:         store,
		confirmations: confirmations,
		notifier:      notifier,
		operators:     operators,
		workers:       workers,
	}
}

func (s *OrderService) publish(eventType string, payload any, partitions ...string) {
	if s.notifier != nil {
		s.notifier.Publish(eventType, payload, partitions...)
	}
}

// Fetch lists one partition: active orders by nearest delivery first,
// delivered orders by most recent delivery first. Undated orders go last.
func (s *OrderService) Fetch(ctx context.Context, actor workflow.Actor, partition string) ([]order.Order, error) {
	if err := workflow.CanView(actor); err != nil {
		return nil, err
	}
	if !enum.IsValidPartition(partition) {
		return nil, ErrInvalidPartition
	}

	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]order.Order, 0, len(all))
	for _, o := range all {
		if o.Partition() == partition {
			out = append(out, o)
		}
	}

	if partition == enum.PartitionDelivered {
		order.SortByDeliveryDesc(out)
	} else {
		order.SortByDeliveryAsc(out)
	}
	return out, nil
}

// FetchAll returns the active list followed by the delivered list.
func (s *OrderService) FetchAll(ctx context.Context, actor workflow.Actor) ([]order.Order, error) {
	active, err := s.Fetch(ctx, actor, enum.PartitionActive)
	if err != nil {
		return nil, err
	}
	delivered, err := s.Fetch(ctx, actor, enum.PartitionDelivered)
	if err != nil {
		return nil, err
	}
	return append(active, delivered...), nil
}

func (s *OrderService) list(ctx context.Context) ([]order.Order, error) {
	rows, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list orders", Err: err}
	}
	out := make([]order.Order, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

// Get returns one order.
func (s *OrderService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (order.Order, error) {
	if err := workflow.CanView(actor); err != nil {
		return order.Order{}, err
	}
	return s.get(ctx, id)
}

func (s *OrderService) get(ctx context.Context, id uuid.UUID) (order.Order, error) {
	row, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, ErrNotFound
		}
		return order.Order{}, &StoreError{Op: "get order", Err: err}
	}
	return fromRow(row), nil
}

// Create stores a new order. Missing status defaults to da_prendere and
// missing operator fields to the acting operator. An order created directly
// as delivered waits for confirmation.
func (s *OrderService) Create(ctx context.Context, actor workflow.Actor, o order.Order) (Outcome, error) {
	if err := workflow.CanView(actor); err != nil {
		return Outcome{}, err
	}

	o.ID = uuid.Nil
	if o.Status == "" {
		o.Status = enum.StatusAwaitingPickup
	}
	if strings.TrimSpace(o.Operator) == "" {
		o.Operator = canonicalName(s.operators, actor.Username)
	}
	if strings.TrimSpace(o.Worker) == "" {
		o.Worker = canonicalName(s.workers, actor.Username)
	}
	if o.Items == nil {
		o.Items = []order.LineItem{}
	}
	o.AssignItemIDs()
	if err := o.Validate(); err != nil {
		return Outcome{}, err
	}

	if workflow.NeedsConfirmation("", o.Status) {
		return s.park(ctx, actor, pending.Confirmation{
			Kind:    pending.KindCreate,
			Message: msgConfirmDelivered,
			To:      o.Status,
			Order:   &o,
		})
	}
	return s.insert(ctx, o)
}

func (s *OrderService) insert(ctx context.Context, o order.Order) (Outcome, error) {
	params, err := createParams(o)
	if err != nil {
		return Outcome{}, err
	}
	row, err := s.store.CreateOrder(ctx, params)
	if err != nil {
		return Outcome{Phase: workflow.PhaseRolledBack}, &StoreError{Op: "create order", Err: err}
	}
	created := fromRow(row)
	s.publish(enum.EventOrderCreated, created, created.Partition())
	return Outcome{Phase: workflow.PhaseApplied, Visible: created.Status, Order: &created}, nil
}

// Update replaces an order with o. Editing a delivered order is admin-only;
// an update that moves the order into delivered waits for confirmation.
func (s *OrderService) Update(ctx context.Context, actor workflow.Actor, o order.Order) (Outcome, error) {
	if err := workflow.CanView(actor); err != nil {
		return Outcome{}, err
	}
	current, err := s.get(ctx, o.ID)
	if err != nil {
		return Outcome{}, err
	}
	if err := workflow.CanEdit(actor, current.Status); err != nil {
		return Outcome{}, err
	}

	if o.Status == "" {
		o.Status = current.Status
	}
	if o.Items == nil {
		o.Items = []order.LineItem{}
	}
	o.CreatedAt = current.CreatedAt
	o.AssignItemIDs()
	if err := o.Validate(); err != nil {
		return Outcome{}, err
	}

	if workflow.NeedsConfirmation(current.Status, o.Status) {
		return s.park(ctx, actor, pending.Confirmation{
			Kind:    pending.KindUpdate,
			Message: msgConfirmDelivered,
			OrderID: o.ID,
			From:    current.Status,
			To:      o.Status,
			Order:   &o,
		})
	}
	return s.replace(ctx, current, o)
}

// replace writes next over current. On failure the outcome shows the
// stored order unchanged.
func (s *OrderService) replace(ctx context.Context, current, next order.Order) (Outcome, error) {
	params, err := updateParams(next)
	if err != nil {
		return Outcome{}, err
	}
	row, err := s.store.UpdateOrder(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Outcome{}, ErrNotFound
		}
		return Outcome{Phase: workflow.PhaseRolledBack, Visible: current.Status, Order: &current},
			&StoreError{Op: "update order", Err: err}
	}
	updated := fromRow(row)
	s.publish(enum.EventOrderUpdated, updated, current.Partition(), updated.Partition())
	return Outcome{Phase: workflow.PhaseApplied, Visible: updated.Status, Order: &updated}, nil
}

// ChangeStatus moves an order to another status through the transition
// guard.
func (s *OrderService) ChangeStatus(ctx context.Context, actor workflow.Actor, id uuid.UUID, to string) (Outcome, error) {
	if err := workflow.CanView(actor); err != nil {
		return Outcome{}, err
	}
	current, err := s.get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if err := workflow.CanEdit(actor, current.Status); err != nil {
		return Outcome{}, err
	}

	change, err := workflow.Request(current.Status, to)
	if err != nil {
		return Outcome{}, err
	}
	if change.Phase == workflow.PhasePending {
		return s.park(ctx, actor, pending.Confirmation{
			Kind:    pending.KindStatus,
			Message: msgConfirmDelivered,
			OrderID: id,
			From:    change.From,
			To:      change.To,
		})
	}
	return s.applyStatus(ctx, change, current)
}

// applyStatus persists an approved change and settles the machine.
func (s *OrderService) applyStatus(ctx context.Context, change workflow.StatusChange, current order.Order) (Outcome, error) {
	next := current
	next.Status = change.To

	out, err := s.replace(ctx, current, next)
	if err != nil {
		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			return out, err
		}
		rolledBack, ferr := change.Fail()
		if ferr != nil {
			return out, ferr
		}
		return Outcome{Phase: rolledBack.Phase, Visible: rolledBack.Visible(), Order: &current}, err
	}

	applied, err := change.Succeed()
	if err != nil {
		return Outcome{}, err
	}
	out.Phase = applied.Phase
	out.Visible = applied.Visible()
	return out, nil
}

// Delete removes an order. Only the admin may delete; the check happens
// before touching the store.
func (s *OrderService) Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	if err := workflow.CanDelete(actor); err != nil {
		return err
	}
	if _, err := s.store.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete order", Err: err}
	}
	s.publish(enum.EventOrderDeleted, map[string]string{"id": id.String()},
		enum.PartitionActive, enum.PartitionDelivered)
	return nil
}

// canonicalName returns the configured spelling of username, or username
// itself when it is not in names.
func canonicalName(names []string, username string) string {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(username)) {
			return n
		}
	}
	return username
}
