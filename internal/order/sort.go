package order

import (
	"slices"
)

// SortByDeliveryAsc orders by delivery date, nearest first. Orders without a
// date go last. The sort is stable.
func SortByDeliveryAsc(orders []Order) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		return compareDelivery(a, b, false)
	})
}

// SortByDeliveryDesc orders by delivery date, most recent first. Orders
// without a date go last. The sort is stable.
func SortByDeliveryDesc(orders []Order) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		return compareDelivery(a, b, true)
	})
}

func compareDelivery(a, b Order, desc bool) int {
	switch {
	case a.Delivery == nil && b.Delivery == nil:
		return 0
	case a.Delivery == nil:
		return 1
	case b.Delivery == nil:
		return -1
	}
	c := a.Delivery.Compare(*b.Delivery)
	if desc {
		return -c
	}
	return c
}
