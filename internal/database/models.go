package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Order struct {
	ID         uuid.UUID   `json:"id"`
	Cliente    string      `json:"cliente"`
	Telefono   string      `json:"telefono"`
	Operatore  pgtype.Text `json:"operatore"`
	Lavoratore pgtype.Text `json:"lavoratore"`
	Stato      string      `json:"stato"`
	Consegna   pgtype.Date `json:"consegna"`
	Prodotti   []byte      `json:"prodotti"`
	CreatedAt  time.Time   `json:"created_at"`
}

type ProductsCatalog struct {
	ID              uuid.UUID      `json:"id"`
	Nome            string         `json:"nome"`
	Immagine        pgtype.Text    `json:"immagine"`
	PrezzoDettaglio pgtype.Numeric `json:"prezzo_dettaglio"`
	Prezzo10        pgtype.Numeric `json:"prezzo_10"`
	Prezzo20        pgtype.Numeric `json:"prezzo_20"`
	Prezzo50        pgtype.Numeric `json:"prezzo_50"`
	Prezzo100       pgtype.Numeric `json:"prezzo_100"`
	Prezzo100Plus   pgtype.Numeric `json:"prezzo_100_plus"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
