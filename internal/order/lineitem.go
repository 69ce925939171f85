package order

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LineItem is one requested product inside an order.
type LineItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"nome"`
	Quantity int    `json:"quantita"`
	Note     string `json:"note"`
}

// Keys tried, in order, when reading loosely shaped line items.
var (
	nameKeys     = []string{"nome", "name", "titolo", "title", "prodotto", "product", "descrizione", "description"}
	quantityKeys = []string{"quantita", "quantity", "qty"}
	noteKeys     = []string{"note", "notes", "nota"}
)

// maxNesting bounds how many JSON-in-a-string layers are unwrapped.
const maxNesting = 2

// ParseLineItems turns any stored representation of an order's products into
// the canonical list: a JSON array, a single object, or a string holding
// either. Text that is not JSON at all becomes one opaque item carrying the
// raw text as its name so it stays searchable.
func ParseLineItems(raw []byte) []LineItem {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []LineItem{}
	}
	v, err := decodeAny(raw)
	if err != nil {
		return []LineItem{{Name: string(raw), Quantity: 1}}
	}
	return coerce(v, 0)
}

func decodeAny(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func coerce(v any, depth int) []LineItem {
	switch t := v.(type) {
	case []any:
		items := make([]LineItem, 0, len(t))
		for _, elem := range t {
			switch e := elem.(type) {
			case map[string]any:
				items = append(items, itemFromMap(e))
			case string:
				items = append(items, LineItem{Name: e, Quantity: 1})
			}
		}
		return items
	case map[string]any:
		return []LineItem{itemFromMap(t)}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []LineItem{}
		}
		if depth < maxNesting {
			if inner, err := decodeAny([]byte(s)); err == nil {
				return coerce(inner, depth+1)
			}
		}
		return []LineItem{{Name: s, Quantity: 1}}
	}
	return []LineItem{}
}

func itemFromMap(m map[string]any) LineItem {
	it := LineItem{
		Name:     firstString(m, nameKeys),
		Note:     firstString(m, noteKeys),
		Quantity: 1,
	}
	switch id := m["id"].(type) {
	case string:
		it.ID = id
	case json.Number:
		it.ID = id.String()
	}
	for _, k := range quantityKeys {
		if q, ok := toInt(m[k]); ok {
			it.Quantity = q
			break
		}
	}
	return it
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(math.Round(f)), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// MarshalLineItems encodes items as the JSON array stored in the database
// and exported in CSV files. A nil list encodes as [].
func MarshalLineItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}
