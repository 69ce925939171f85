// Package csvcodec reads and writes the order CSV export format.
//
// Every cell is double-quoted and files start with a UTF-8 BOM so that
// spreadsheet programs pick the right encoding.
package csvcodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
)

const bom = "\ufeff"

// Header is the column order written by Encode.
var Header = []string{
	"id",
	"cliente",
	"telefono",
	"operatore",
	"lavoratore",
	"stato",
	"consegna_iso",
	"prodotti_json",
}

// isoMidnight is how delivery dates appear in the consegna_iso column.
const isoMidnight = "T00:00:00.000Z"

// Encode writes orders as CSV.
func Encode(w io.Writer, orders []order.Order) error {
	var b strings.Builder
	b.WriteString(bom)
	writeRow(&b, Header)

	for _, o := range orders {
		items, err := order.MarshalLineItems(o.Items)
		if err != nil {
			return fmt.Errorf("encoding products of %s: %w", o.ID, err)
		}
		consegna := ""
		if o.Delivery != nil {
			consegna = order.FormatDate(o.Delivery) + isoMidnight
		}
		b.WriteByte('\n')
		writeRow(&b, []string{
			o.ID.String(),
			o.Customer,
			o.Phone,
			o.Operator,
			o.Worker,
			o.Status,
			consegna,
			string(items),
		})
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
}

// ParseRecords splits text into rows of cells. Quoted cells may contain
// commas, newlines and doubled quotes. A carriage return outside quotes is
// dropped, rows made only of blank cells are skipped and rows may have
// different lengths.
func ParseRecords(text string) [][]string {
	text = strings.TrimPrefix(text, bom)

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)
	endRow := func() {
		row = append(row, field.String())
		field.Reset()
		if !blank(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			switch {
			case c == '"' && i+1 < len(text) && text[i+1] == '"':
				field.WriteByte('"')
				i++
			case c == '"':
				inQuotes = false
			default:
				field.WriteByte(c)
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\n':
			endRow()
		case '\r':
		default:
			field.WriteByte(c)
		}
	}
	endRow()
	return rows
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Decode reads orders from CSV text. Columns are found by header name and
// may appear in any order; missing columns read as empty and a missing or
// empty stato falls back to defaultStatus. The id column is ignored because
// imported orders get fresh identifiers. Bad cells degrade per row: an
// unknown stato also becomes defaultStatus, an unreadable date no date and
// unreadable products an empty list.
func Decode(text string, defaultStatus string) ([]order.Order, error) {
	records := ParseRecords(text)
	if len(records) == 0 {
		return []order.Order{}, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]order.Order, 0, len(records)-1)
	for _, row := range records[1:] {
		status := strings.TrimSpace(cell(row, "stato"))
		if !enum.IsValidStatus(status) {
			status = defaultStatus
		}

		// An unreadable date is treated as no date.
		delivery, _ := order.ParseDate(cell(row, "consegna_iso"))

		out = append(out, order.Order{
			Customer: cell(row, "cliente"),
			Phone:    cell(row, "telefono"),
			Operator: cell(row, "operatore"),
			Worker:   cell(row, "lavoratore"),
			Status:   status,
			Delivery: delivery,
			Items:    decodeItems(cell(row, "prodotti_json")),
		})
	}
	return out, nil
}

// decodeItems is stricter than order.ParseLineItems: a cell that is not
// valid JSON gives no items instead of one opaque item.
func decodeItems(s string) []order.LineItem {
	raw := bytes.TrimSpace([]byte(s))
	if len(raw) == 0 || !json.Valid(raw) {
		return []order.LineItem{}
	}
	return order.ParseLineItems(raw)
}
