// Package order holds the canonical in-memory order model shared by the
// search, workflow, CSV and statistics packages.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ceralandia/api/internal/enum"
	"github.com/google/uuid"
)

// Validation errors. Messages are shown to operators as-is.
var (
	ErrCustomerRequired = errors.New("inserire nome e telefono del cliente")
	ErrInvalidStatus    = errors.New("stato non valido")
	ErrInvalidQuantity  = errors.New("la quantità deve essere almeno 1")
	ErrInvalidDate      = errors.New("data di consegna non valida")
)

// Order is a customer order. Delivery is nil when no date was agreed.
type Order struct {
	ID        uuid.UUID  `json:"id"`
	Customer  string     `json:"cliente"`
	Phone     string     `json:"telefono"`
	Operator  string     `json:"operatore"`
	Worker    string     `json:"lavoratore"`
	Status    string     `json:"stato"`
	Delivery  *time.Time `json:"consegna"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []LineItem `json:"prodotti"`
}

// IsDelivered reports whether the order sits in the delivered partition.
func (o Order) IsDelivered() bool {
	return o.Status == enum.StatusDelivered
}

func (o Order) Partition() string {
	return enum.PartitionOf(o.Status)
}

// Validate checks the fields an operator must fill before saving.
func (o Order) Validate() error {
	if strings.TrimSpace(o.Customer) == "" || strings.TrimSpace(o.Phone) == "" {
		return ErrCustomerRequired
	}
	if !enum.IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	for i, it := range o.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("prodotti[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

// AssignItemIDs gives every line item without an identifier a fresh one.
func (o *Order) AssignItemIDs() {
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
	}
}

// DateLayout is the calendar-date form used for delivery dates.
const DateLayout = "2006-01-02"

// ParseDate reads a delivery date. Only the calendar part is kept, so both
// "2025-03-10" and "2025-03-10T00:00:00.000Z" give the same day. An empty
// string means no date.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) < len(DateLayout) {
		return nil, ErrInvalidDate
	}
	if rest := s[len(DateLayout):]; rest != "" && rest[0] != 'T' && rest[0] != ' ' {
		return nil, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

// FormatDate renders a delivery date, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
