package catalog

import (
	"github.com/ceralandia/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Tier labels, as shown on product cards.
const (
	TierRetail      = "dettaglio"
	TierTen         = "x10"
	TierTwenty      = "x20"
	TierFifty       = "x50"
	TierHundred     = "x100"
	TierHundredPlus = "100+"
)

// Tiers holds the optional unit prices of a product. A nil price means the
// tier is not offered.
type Tiers struct {
	Retail      *decimal.Decimal
	Ten         *decimal.Decimal
	Twenty      *decimal.Decimal
	Fifty       *decimal.Decimal
	Hundred     *decimal.Decimal
	HundredPlus *decimal.Decimal
}

// Product is a catalog entry reduced to what matching and pricing need.
type Product struct {
	ID    uuid.UUID
	Name  string
	Tiers Tiers
}

type tier struct {
	label string
	price *decimal.Decimal
}

// UnitPrice picks the tier for qty. When that tier has no price the next
// smaller tier is used, down to retail; ok is false if none is priced.
func (t Tiers) UnitPrice(qty int) (price decimal.Decimal, label string, ok bool) {
	ladder := []tier{
		{TierRetail, t.Retail},
		{TierTen, t.Ten},
		{TierTwenty, t.Twenty},
		{TierFifty, t.Fifty},
		{TierHundred, t.Hundred},
		{TierHundredPlus, t.HundredPlus},
	}

	var top int
	switch {
	case qty > 100:
		top = 5
	case qty == 100:
		top = 4
	case qty >= 50:
		top = 3
	case qty >= 20:
		top = 2
	case qty >= 10:
		top = 1
	default:
		top = 0
	}

	for i := top; i >= 0; i-- {
		if ladder[i].price != nil {
			return *ladder[i].price, ladder[i].label, true
		}
	}
	return decimal.Zero, "", false
}

// Decimal converts a NUMERIC column to a decimal, nil when NULL.
func Decimal(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return nil
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return nil
	}
	return &d
}

// FromRow builds a Product from a catalog row.
func FromRow(p database.ProductsCatalog) Product {
	return Product{
		ID:   p.ID,
		Name: p.Nome,
		Tiers: Tiers{
			Retail:      Decimal(p.PrezzoDettaglio),
			Ten:         Decimal(p.Prezzo10),
			Twenty:      Decimal(p.Prezzo20),
			Fifty:       Decimal(p.Prezzo50),
			Hundred:     Decimal(p.Prezzo100),
			HundredPlus: Decimal(p.Prezzo100Plus),
		},
	}
}

func FromRows(rows []database.ProductsCatalog) []Product {
	out := make([]Product, len(rows))
	for i, r := range rows {
		out[i] = FromRow(r)
	}
	return out
}
