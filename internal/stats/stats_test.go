package stats_test

import (
	"testing"
	"time"

	"github.com/ceralandia/api/internal/enum"
	"github.com/ceralandia/api/internal/order"
	"github.com/ceralandia/api/internal/stats"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMonthKey_PrefersDelivery(t *testing.T) {
	o := order.Order{
		Delivery:  day(2025, 3, 10),
		CreatedAt: time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC),
	}
	if got := stats.MonthKey(o, time.UTC); got != "2025-03" {
		t.Errorf("got %s", got)
	}
}

func TestMonthKey_CreatedAtInLocation(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:30 UTC on 31 January is already February in Rome.
	o := order.Order{CreatedAt: time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)}
	if got := stats.MonthKey(o, rome); got != "2025-02" {
		t.Errorf("rome: got %s", got)
	}
	if got := stats.MonthKey(o, time.UTC); got != "2025-01" {
		t.Errorf("utc: got %s", got)
	}
}

func TestMonthKey_NoDates(t *testing.T) {
	if got := stats.MonthKey(order.Order{}, time.UTC); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestMonthLabel(t *testing.T) {
	cases := map[string]string{
		"2025-03": "Marzo 2025",
		"2024-12": "Dicembre 2024",
		"2026-01": "Gennaio 2026",
		"bogus":   "bogus",
	}
	for in, want := range cases {
		if got := stats.MonthLabel(in); got != want {
			t.Errorf("MonthLabel(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestValidMonthKey(t *testing.T) {
	for _, k := range []string{"2025-03", "1999-12"} {
		if !stats.ValidMonthKey(k) {
			t.Errorf("%s should be valid", k)
		}
	}
	for _, k := range []string{"2025-3", "2025-13", "marzo", "", "2025-03-01"} {
		if stats.ValidMonthKey(k) {
			t.Errorf("%s should be invalid", k)
		}
	}
}

func sample() []order.Order {
	return []order.Order{
		{Customer: "a", Status: enum.StatusAwaitingPickup, Delivery: day(2025, 3, 20)},
		{Customer: "b", Status: enum.StatusDelivered, Delivery: day(2025, 3, 2)},
		{Customer: "c", Status: enum.StatusAwaitingPickup, Delivery: day(2025, 3, 5)},
		{Customer: "d", Status: enum.StatusReady, CreatedAt: time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)},
		{Customer: "e", Status: enum.StatusInProgress, Delivery: day(2025, 1, 9)},
		{Customer: "f", Status: enum.StatusAwaitingPickup, CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		{Customer: "g", Status: enum.StatusReady},
	}
}

func TestAggregate(t *testing.T) {
	report := stats.Aggregate(sample(), time.UTC)
	if len(report.Months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(report.Months))
	}

	jan, mar := report.Months[0], report.Months[1]
	if jan.Key != "2025-01" || mar.Key != "2025-03" {
		t.Fatalf("months out of order: %s, %s", jan.Key, mar.Key)
	}
	if mar.Label != "Marzo 2025" {
		t.Errorf("label: %s", mar.Label)
	}
	if mar.Total != 5 {
		t.Errorf("march total: got %d, want 5", mar.Total)
	}
	if mar.Counts[enum.StatusAwaitingPickup] != 3 || mar.Counts[enum.StatusReady] != 1 ||
		mar.Counts[enum.StatusDelivered] != 1 || mar.Counts[enum.StatusInProgress] != 0 {
		t.Errorf("march counts: %v", mar.Counts)
	}
	if len(jan.Counts) != 4 {
		t.Errorf("every status must be present, got %v", jan.Counts)
	}
}

func TestAggregate_CountsSumToTotal(t *testing.T) {
	for _, m := range stats.Aggregate(sample(), time.UTC).Months {
		sum := 0
		for _, s := range enum.Statuses {
			sum += m.Counts[s]
		}
		if sum != m.Total {
			t.Errorf("%s: counts sum %d, total %d", m.Key, sum, m.Total)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := stats.Aggregate(nil, time.UTC)
	if report.Months == nil || len(report.Months) != 0 {
		t.Errorf("got %#v", report.Months)
	}
}

func TestDrillDown(t *testing.T) {
	got := stats.DrillDown(sample(), "2025-03", enum.StatusAwaitingPickup, time.UTC)
	want := []string{"c", "a", "f"}
	if len(got) != len(want) {
		t.Fatalf("got %d orders, want %d", len(got), len(want))
	}
	for i, o := range got {
		if o.Customer != want[i] {
			t.Errorf("position %d: got %s, want %s", i, o.Customer, want[i])
		}
	}
}

func TestDrillDown_NoMatch(t *testing.T) {
	got := stats.DrillDown(sample(), "2024-01", enum.StatusReady, time.UTC)
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v", got)
	}
}
