package catalog

import (
	"github.com/ceralandia/api/internal/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteLine prices one line item. Prices are strings with two decimals,
// nil when the item could not be priced.
type QuoteLine struct {
	ItemID     string   `json:"item_id,omitempty"`
	Name       string   `json:"nome"`
	Quantity   int      `json:"quantita"`
	Match      string   `json:"match"`
	Product    *string  `json:"prodotto"`
	Candidates []string `json:"candidati,omitempty"`
	Tier       string   `json:"fascia,omitempty"`
	UnitPrice  *string  `json:"prezzo_unitario"`
	Subtotal   *string  `json:"subtotale"`
}

// Quote is an indicative price for an order. Complete is false when any
// line is unmatched, ambiguous or unpriced; Total then covers only the
// priced lines.
type Quote struct {
	OrderID  uuid.UUID   `json:"order_id"`
	Lines    []QuoteLine `json:"righe"`
	Total    string      `json:"totale"`
	Complete bool        `json:"completo"`
}

// Quote prices every line item of o.
func (m *Matcher) Quote(o order.Order) Quote {
	q := Quote{OrderID: o.ID, Lines: make([]QuoteLine, 0, len(o.Items)), Complete: true}
	total := decimal.Zero

	for _, it := range o.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		line := QuoteLine{ItemID: it.ID, Name: it.Name, Quantity: qty}

		res := m.Match(it.Name)
		line.Match = res.Status.String()
		switch res.Status {
		case Matched:
			name := res.Product.Name
			line.Product = &name
			if price, label, ok := res.Product.Tiers.UnitPrice(qty); ok {
				sub := price.Mul(decimal.NewFromInt(int64(qty)))
				total = total.Add(sub)
				line.Tier = label
				line.UnitPrice = fixed(price)
				line.Subtotal = fixed(sub)
			} else {
				q.Complete = false
			}
		case Ambiguous:
			for _, c := range res.Candidates {
				line.Candidates = append(line.Candidates, c.Name)
			}
			q.Complete = false
		default:
			q.Complete = false
		}
		q.Lines = append(q.Lines, line)
	}

	q.Total = total.StringFixed(2)
	return q
}

func fixed(d decimal.Decimal) *string {
	s := d.StringFixed(2)
	return &s
}
