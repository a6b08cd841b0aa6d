package order

import (
	"context"
)

// Store is the authoritative keyed collection of orders. Implementations do
// not validate; callers validate before Add and Edit.
type Store interface {
	// NextOrderNumber returns a number greater than any number this store
	// has issued or holds. Numbers are never reissued, even after Remove.
	NextOrderNumber() int
	// Add inserts o, returning the order it replaced, if any.
	Add(o Order) (Order, bool)
	Get(key Key) (Order, bool)
	// Edit replaces the order under o.Key() and returns the previous value.
	// It returns *NoSuchOrderError when the key is absent and never inserts.
	Edit(o Order) (Order, error)
	Remove(key Key) (Order, bool)
	// OrdersForDate returns the orders of date sorted by number, or an empty
	// slice.
	OrdersForDate(date Date) []Order
	AllOrders() Snapshot
	// Save writes every date partition to durable storage.
	Save(ctx context.Context) error
}

// Action names a store mutation recorded in a Journal.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionRemove Action = "remove"
)

// Journal records completed order mutations.
type Journal interface {
	Record(ctx context.Context, action Action, o Order) error
}
