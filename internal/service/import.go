package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/pending"
	"github.com/ceralandia/api/internal/workflow"
	"github.com/jackc/pgx/v5"
)

// ImportSummary counts what an import did.
type ImportSummary struct {
	Partition string `json:"partition"`
	Deleted   int    `json:"deleted"`
	Inserted  int    `json:"inserted"`
	Total     int    `json:"total"`
}

// ImportError reports an import that stopped part way. Rows already
// deleted or inserted stay that way.
type ImportError struct {
	ImportSummary
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s stopped after %d deleted, %d/%d inserted: %v",
		e.Partition, e.Deleted, e.Inserted, e.Total, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// PrepareImport parks a destructive replace of one partition with rows.
// Nothing is written until the confirmation is confirmed.
func (s *OrderService) PrepareImport(ctx context.Context, actor workflow.Actor, partition string, rows []order.Order) (Outcome, error) {
	if err := workflow.CanImport(actor); err != nil {
		return Outcome{}, err
	}
	if !enum.IsValidPartition(partition) {
		return Outcome{}, ErrInvalidPartition
	}
	if len(rows) == 0 {
		return Outcome{}, ErrEmptyImport
	}
	for i := range rows {
		rows[i].AssignItemIDs()
	}
	return s.park(ctx, actor, pending.Confirmation{
		Kind:      pending.KindImport,
		Message:   importMessage(len(rows)),
		Partition: partition,
		Orders:    rows,
	})
}

// runImport deletes every order of the partition, then inserts rows, one
// call at a time. It stops at the first failure.
func (s *OrderService) runImport(ctx context.Context, partition string, rows []order.Order) (ImportSummary, error) {
	summary := ImportSummary{Partition: partition, Total: len(rows)}
	defer func() {
		if summary.Deleted > 0 || summary.Inserted > 0 {
			s.publish(enum.EventOrdersImported, summary, enum.PartitionActive, enum.PartitionDelivered)
		}
	}()

	existing, err := s.list(ctx)
	if err != nil {
		return summary, &ImportError{ImportSummary: summary, Err: err}
	}
	for _, o := range existing {
		if o.Partition() != partition {
			continue
		}
		if _, err := s.store.DeleteOrder(ctx, o.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return summary, &ImportError{ImportSummary: summary, Err: &StoreError{Op: "delete order", Err: err}}
		}
		summary.Deleted++
	}

	for _, o := range rows {
		params, err := createParams(o)
		if err != nil {
			return summary, &ImportError{ImportSummary: summary, Err: err}
		}
		if _, err := s.store.CreateOrder(ctx, params); err != nil {
			return summary, &ImportError{ImportSummary: summary, Err: &StoreError{Op: "create order", Err: err}}
		}
		summary.Inserted++
	}
	return summary, nil
}
