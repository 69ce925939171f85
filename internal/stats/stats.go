// Package stats groups orders by calendar month and counts them per status.
package stats

import (
	"fmt"
	"slices"
	"time"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
)

const monthKeyLayout = "2006-01"

var monthNames = [...]string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

// Month is one bucket of the monthly report.
type Month struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// Report holds the monthly buckets, oldest first.
type Report struct {
	Months []Month `json:"months"`
}

// MonthKey returns the "YYYY-MM" bucket of an order: its delivery month when
// a date is set, otherwise the month it was created in loc. Orders with
// neither give "".
func MonthKey(o order.Order, loc *time.Location) string {
	if o.Delivery != nil {
		return o.Delivery.Format(monthKeyLayout)
	}
	if o.CreatedAt.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return o.CreatedAt.In(loc).Format(monthKeyLayout)
}

// MonthLabel renders a month key in Italian, e.g. "Marzo 2025".
func MonthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// ValidMonthKey reports whether key has the "YYYY-MM" form.
func ValidMonthKey(key string) bool {
	_, err := time.Parse(monthKeyLayout, key)
	return err == nil && len(key) == len(monthKeyLayout)
}

// Aggregate buckets orders by month. Every bucket carries a count for all
// four statuses, so the counts always add up to the bucket total.
func Aggregate(orders []order.Order, loc *time.Location) Report {
	buckets := make(map[string]*Month)
	for _, o := range orders {
		key := MonthKey(o, loc)
		if key == "" {
			continue
		}
		m, ok := buckets[key]
		if !ok {
			m = &Month{Key: key, Label: MonthLabel(key), Counts: emptyCounts()}
			buckets[key] = m
		}
		m.Total++
		m.Counts[o.Status]++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	report := Report{Months: make([]Month, 0, len(keys))}
	for _, k := range keys {
		report.Months = append(report.Months, *buckets[k])
	}
	return report
}

func emptyCounts() map[string]int {
	counts := make(map[string]int, len(enum.Statuses))
	for _, s := range enum.Statuses {
		counts[s] = 0
	}
	return counts
}

// DrillDown lists the orders of one month and status, nearest delivery first
// and undated orders last.
func DrillDown(orders []order.Order, month, status string, loc *time.Location) []order.Order {
	out := make([]order.Order, 0)
	for _, o := range orders {
		if o.Status == status && MonthKey(o, loc) == month {
			out = append(out, o)
		}
	}
	order.SortByDeliveryAsc(out)
	return out
}
