// Package search implements accent- and case-insensitive free-text filtering
// of orders.
package search

import (
	"strings"
	"unicode"

	"github.com/ceralandia/api/internal/order"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AnyOperator is the operator filter value meaning "no filter".
const AnyOperator = "tutti"

// Query is a free-text search plus an optional operator filter.
type Query struct {
	Text     string
	Operator string
}

// Normalize lower-cases s, strips diacritics, collapses whitespace runs to a
// single space and trims the ends.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Haystack is the normalized text an order is matched against.
func Haystack(o order.Order) string {
	parts := []string{o.Customer, o.Phone, o.Operator, o.Worker, o.Status}
	for _, it := range o.Items {
		parts = append(parts, it.Name)
	}
	return Normalize(strings.Join(parts, " "))
}

// Filter returns the orders matching q, preserving input order. An empty
// query returns orders unchanged.
func Filter(orders []order.Order, q Query) []order.Order {
	text := Normalize(q.Text)
	op := Normalize(q.Operator)
	if op == AnyOperator {
		op = ""
	}
	if text == "" && op == "" {
		return orders
	}

	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if op != "" && Normalize(o.Operator) != op && Normalize(o.Worker) != op {
			continue
		}
		if text != "" && !strings.Contains(Haystack(o), text) {
			continue
		}
		out = append(out, o)
	}
	return out
}
