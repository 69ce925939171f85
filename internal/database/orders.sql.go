// source: orders.sql

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listOrders = `-- name: ListOrders :many
SELECT id, cliente, telefono, operatore, lavoratore, stato, consegna, prodotti, created_at FROM orders
ORDER BY created_at DESC
`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		var i Order
		if err := rows.Scan(
			&i.ID,
			&i.Cliente,
			&i.Telefono,
			&i.Operatore,
			&i.Lavoratore,
			&i.Stato,
			&i.Consegna,
			&i.Prodotti,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getOrder = `-- name: GetOrder :one
SELECT id, cliente, telefono, operatore, lavoratore, stato, consegna, prodotti, created_at FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.Cliente,
		&i.Telefono,
		&i.Operatore,
		&i.Lavoratore,
		&i.Stato,
		&i.Consegna,
		&i.Prodotti,
		&i.CreatedAt,
	)
	return i, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (cliente, telefono, operatore, lavoratore, stato, consegna, prodotti)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, cliente, telefono, operatore, lavoratore, stato, consegna, prodotti, created_at
`

type CreateOrderParams struct {
	Cliente    string      `json:"cliente"`
	Telefono   string      `json:"telefono"`
	Operatore  pgtype.Text `json:"operatore"`
	Lavoratore pgtype.Text `json:"lavoratore"`
	Stato      string      `json:"stato"`
	Consegna   pgtype.Date `json:"consegna"`
	Prodotti   []byte      `json:"prodotti"`
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.Cliente,
		arg.Telefono,
		arg.Operatore,
		arg.Lavoratore,
		arg.Stato,
		arg.Consegna,
		arg.Prodotti,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.Cliente,
		&i.Telefono,
		&i.Operatore,
		&i.Lavoratore,
		&i.Stato,
		&i.Consegna,
		&i.Prodotti,
		&i.CreatedAt,
	)
	return i, err
}

const updateOrder = `-- name: UpdateOrder :one
UPDATE orders
SET cliente = $2, telefono = $3, operatore = $4, lavoratore = $5, stato = $6, consegna = $7, prodotti = $8
WHERE id = $1
RETURNING id, cliente, telefono, operatore, lavoratore, stato, consegna, prodotti, created_at
`

type UpdateOrderParams struct {
	ID         uuid.UUID   `json:"id"`
	Cliente    string      `json:"cliente"`
	Telefono   string      `json:"telefono"`
	Operatore  pgtype.Text `json:"operatore"`
	Lavoratore pgtype.Text `json:"lavoratore"`
	Stato      string      `json:"stato"`
	Consegna   pgtype.Date `json:"consegna"`
	Prodotti   []byte      `json:"prodotti"`
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrder,
		arg.ID,
		arg.Cliente,
		arg.Telefono,
		arg.Operatore,
		arg.Lavoratore,
		arg.Stato,
		arg.Consegna,
		arg.Prodotti,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.Cliente,
		&i.Telefono,
		&i.Operatore,
		&i.Lavoratore,
		&i.Stato,
		&i.Consegna,
		&i.Prodotti,
		&i.CreatedAt,
	)
	return i, err
}

const deleteOrder = `-- name: DeleteOrder :one
DELETE FROM orders
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteOrder, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
