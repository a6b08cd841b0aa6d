package order

import (
	"slices"
)

// Snapshot is a read-only copy of every order in a store, grouped by date.
// Nothing reachable from a Snapshot aliases the store it came from.
type Snapshot struct {
	partitions map[Date]map[int]Order
}

// NewSnapshot deep-copies partitions. Dates mapped to nil or empty maps are
// kept as empty dates.
func NewSnapshot(partitions map[Date]map[int]Order) Snapshot {
	s := Snapshot{partitions: make(map[Date]map[int]Order, len(partitions))}
	for date, orders := range partitions {
		cp := make(map[int]Order, len(orders))
		for n, o := range orders {
			cp[n] = o
		}
		s.partitions[date] = cp
	}
	return s
}

// Dates returns every date in the snapshot in ascending order.
func (s Snapshot) Dates() []Date {
	dates := make([]Date, 0, len(s.partitions))
	for date := range s.partitions {
		dates = append(dates, date)
	}
	slices.SortFunc(dates, compareDates)
	return dates
}

// Orders returns the orders of one date sorted by number.
func (s Snapshot) Orders(date Date) []Order {
	return sortedOrders(s.partitions[date])
}

// Get returns the order stored under key.
func (s Snapshot) Get(key Key) (Order, bool) {
	o, ok := s.partitions[key.Date][key.Number]
	return o, ok
}

// Len returns the total number of orders.
func (s Snapshot) Len() int {
	n := 0
	for _, orders := range s.partitions {
		n += len(orders)
	}
	return n
}

// All returns every order sorted by date, then number.
func (s Snapshot) All() []Order {
	out := make([]Order, 0, s.Len())
	for _, date := range s.Dates() {
		out = append(out, s.Orders(date)...)
	}
	return out
}

func sortedOrders(orders map[int]Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b Order) int { return a.Number - b.Number })
	return out
}

func compareDates(a, b Date) int {
	return a.Time().Compare(b.Time())
}
