// source: products_catalog.sql

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listProducts = `-- name: ListProducts :many
SELECT id, nome, immagine, prezzo_dettaglio, prezzo_10, prezzo_20, prezzo_50, prezzo_100, prezzo_100_plus, created_at, updated_at FROM products_catalog
ORDER BY nome
`

func (q *Queries) ListProducts(ctx context.Context) ([]ProductsCatalog, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ProductsCatalog{}
	for rows.Next() {
		var i ProductsCatalog
		if err := rows.Scan(
			&i.ID,
			&i.Nome,
			&i.Immagine,
			&i.PrezzoDettaglio,
			&i.Prezzo10,
			&i.Prezzo20,
			&i.Prezzo50,
			&i.Prezzo100,
			&i.Prezzo100Plus,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const getProduct = `-- name: GetProduct :one
SELECT id, nome, immagine, prezzo_dettaglio, prezzo_10, prezzo_20, prezzo_50, prezzo_100, prezzo_100_plus, created_at, updated_at FROM products_catalog
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (ProductsCatalog, error) {
	row := q.db.QueryRow(ctx, getProduct, id)
	var i ProductsCatalog
	err := row.Scan(
		&i.ID,
		&i.Nome,
		&i.Immagine,
		&i.PrezzoDettaglio,
		&i.Prezzo10,
		&i.Prezzo20,
		&i.Prezzo50,
		&i.Prezzo100,
		&i.Prezzo100Plus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products_catalog (nome, immagine, prezzo_dettaglio, prezzo_10, prezzo_20, prezzo_50, prezzo_100, prezzo_100_plus)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, nome, immagine, prezzo_dettaglio, prezzo_10, prezzo_20, prezzo_50, prezzo_100, prezzo_100_plus, created_at, updated_at
`

type CreateProductParams struct {
	Nome            string         `json:"nome"`
	Immagine        pgtype.Text    `json:"immagine"`
	PrezzoDettaglio pgtype.Numeric `json:"prezzo_dettaglio"`
	Prezzo10        pgtype.Numeric `json:"prezzo_10"`
	Prezzo20        pgtype.Numeric `json:"prezzo_20"`
	Prezzo50        pgtype.Numeric `json:"prezzo_50"`
	Prezzo100       pgtype.Numeric `json:"prezzo_100"`
	Prezzo100Plus   pgtype.Numeric `json:"prezzo_100_plus"`
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (ProductsCatalog, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Nome,
		arg.Immagine,
		arg.PrezzoDettaglio,
		arg.Prezzo10,
		arg.Prezzo20,
		arg.Prezzo50,
		arg.Prezzo100,
		arg.Prezzo100Plus,
	)
	var i ProductsCatalog
	err := row.Scan(
		&i.ID,
		&i.Nome,
		&i.Immagine,
		&i.PrezzoDettaglio,
		&i.Prezzo10,
		&i.Prezzo20,
		&i.Prezzo50,
		&i.Prezzo100,
		&i.Prezzo100Plus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products_catalog
SET nome = $2, immagine = $3, prezzo_dettaglio = $4, prezzo_10 = $5, prezzo_20 = $6,
    prezzo_50 = $7, prezzo_100 = $8, prezzo_100_plus = $9, updated_at = now()
WHERE id = $1
RETURNING id, nome, immagine, prezzo_dettaglio, prezzo_10, prezzo_20, prezzo_50, prezzo_100, prezzo_100_plus, created_at, updated_at
`

type UpdateProductParams struct {
	ID              uuid.UUID      `json:"id"`
	Nome            string         `json:"nome"`
	Immagine        pgtype.Text    `json:"immagine"`
	PrezzoDettaglio pgtype.Numeric `json:"prezzo_dettaglio"`
	Prezzo10        pgtype.Numeric `json:"prezzo_10"`
	Prezzo20        pgtype.Numeric `json:"prezzo_20"`
	Prezzo50        pgtype.Numeric `json:"prezzo_50"`
	Prezzo100       pgtype.Numeric `json:"prezzo_100"`
	Prezzo100Plus   pgtype.Numeric `json:"prezzo_100_plus"`
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (ProductsCatalog, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Nome,
		arg.Immagine,
		arg.PrezzoDettaglio,
		arg.Prezzo10,
		arg.Prezzo20,
		arg.Prezzo50,
		arg.Prezzo100,
		arg.Prezzo100Plus,
	)
	var i ProductsCatalog
	err := row.Scan(
		&i.ID,
		&i.Nome,
		&i.Immagine,
		&i.PrezzoDettaglio,
		&i.Prezzo10,
		&i.Prezzo20,
		&i.Prezzo50,
		&i.Prezzo100,
		&i.Prezzo100Plus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteProduct = `-- name: DeleteProduct :one
DELETE FROM products_catalog
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteProduct, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
