package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockStore struct {
	orders  map[Key]Order
	next    int
	saveErr error
	saved   int
}

func newMockStore(orders ...Order) *mockStore {
	m := &mockStore{orders: make(map[Key]Order)}
	for _, o := range orders {
		m.orders[o.Key()] = o
	}
	return m
}

func (m *mockStore) NextOrderNumber() int {
	m.next++
	return m.next
}

func (m *mockStore) Add(o Order) (Order, bool) {
	prev, ok := m.orders[o.Key()]
	m.orders[o.Key()] = o
	return prev, ok
}

func (m *mockStore) Get(key Key) (Order, bool) {
	o, ok := m.orders[key]
	return o, ok
}

func (m *mockStore) Edit(o Order) (Order, error) {
	prev, ok := m.orders[o.Key()]
	if !ok {
		return Order{}, &NoSuchOrderError{Key: o.Key()}
	}
	m.orders[o.Key()] = o
	return prev, nil
}

func (m *mockStore) Remove(key Key) (Order, bool) {
	o, ok := m.orders[key]
	delete(m.orders, key)
	return o, ok
}

func (m *mockStore) OrdersForDate(date Date) []Order {
	var out []Order
	for k, o := range m.orders {
		if k.Date == date {
			out = append(out, o)
		}
	}
	return out
}

func (m *mockStore) AllOrders() Snapshot {
	parts := make(map[Date]map[int]Order)
	for k, o := range m.orders {
		if parts[k.Date] == nil {
			parts[k.Date] = make(map[int]Order)
		}
		parts[k.Date][k.Number] = o
	}
	return NewSnapshot(parts)
}

func (m *mockStore) Save(_ context.Context) error {
	m.saved++
	return m.saveErr
}

type mockJournal struct {
	actions []Action
	err     error
}

func (m *mockJournal) Record(_ context.Context, action Action, _ Order) error {
	m.actions = append(m.actions, action)
	return m.err
}

func newTestService(t *testing.T, store Store, journal Journal) *Service {
	t.Helper()
	svc, err := NewService(store, testTaxes, testProducts, ServiceConfig{Journal: journal})
	require.NoError(t, err)
	return svc
}

// --- Tests ---

func TestService_AddOrder(t *testing.T) {
	store := newMockStore()
	journal := &mockJournal{}
	svc := newTestService(t, store, journal)
	ctx := context.Background()

	o := newTestOrder()
	require.NoError(t, svc.AddOrder(ctx, o))

	got, ok := svc.GetOrder(o.Key())
	require.True(t, ok)
	assert.True(t, o.Equal(got))
	assert.Equal(t, []Action{ActionAdd}, journal.actions)
}

func TestService_AddOrder_Duplicate(t *testing.T) {
	existing := newTestOrder()
	existing.CustomerName = "First"
	store := newMockStore(existing)
	svc := newTestService(t, store, nil)

	err := svc.AddOrder(context.Background(), newTestOrder())

	require.ErrorIs(t, err, ErrDuplicateOrder)
	var dupErr *DuplicateOrderError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, existing.Key(), dupErr.Key)
	assert.Equal(t, "First", store.orders[existing.Key()].CustomerName)
}

func TestService_AddOrder_SameNumberOtherDate(t *testing.T) {
	store := newMockStore(newTestOrder())
	svc := newTestService(t, store, nil)

	o := newTestOrder()
	o.Date = DateOf(o.Date.Time().AddDate(0, 0, 1))

	require.NoError(t, svc.AddOrder(context.Background(), o))
	assert.Len(t, store.orders, 2)
}

func TestService_EditOrder(t *testing.T) {
	historical := newTestOrder()
	historical.Date = NewDate(2019, time.March, 4)
	store := newMockStore(historical)
	journal := &mockJournal{}
	svc := newTestService(t, store, journal)

	edited := historical
	edited.CustomerName = "Renamed Customer"
	require.NoError(t, svc.EditOrder(context.Background(), edited))

	got, ok := svc.GetOrder(historical.Key())
	require.True(t, ok)
	assert.Equal(t, "Renamed Customer", got.CustomerName)
	assert.Equal(t, []Action{ActionEdit}, journal.actions)
}

func TestService_EditOrder_Missing(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)

	err := svc.EditOrder(context.Background(), newTestOrder())

	require.ErrorIs(t, err, ErrNoSuchOrder)
	assert.Empty(t, store.orders)
}

func TestService_EditOrder_Invalid(t *testing.T) {
	o := newTestOrder()
	store := newMockStore(o)
	svc := newTestService(t, store, nil)

	edited := o
	edited.TaxRate = d("1.00")
	err := svc.EditOrder(context.Background(), edited)

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, d("4.45").Equal(store.orders[o.Key()].TaxRate))
}

func TestService_RemoveOrder(t *testing.T) {
	o := newTestOrder()
	store := newMockStore(o)
	journal := &mockJournal{}
	svc := newTestService(t, store, journal)
	ctx := context.Background()

	removed, ok := svc.RemoveOrder(ctx, o.Key())
	require.True(t, ok)
	assert.True(t, o.Equal(removed))

	_, ok = svc.RemoveOrder(ctx, o.Key())
	assert.False(t, ok)
	assert.Equal(t, []Action{ActionRemove}, journal.actions)
}

func TestService_CalculateOrderCosts(t *testing.T) {
	svc := newTestService(t, newMockStore(), nil)

	got, err := svc.CalculateOrderCosts(newTestOrder(), NewDate(2026, time.October, 16))
	require.NoError(t, err)
	assert.True(t, d("1126.48").Equal(got.Total))

	_, err = svc.CalculateOrderCosts(newTestOrder(), testDate)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "calculate order costs")
}

func TestService_JournalFailureDoesNotFailMutation(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, &mockJournal{err: errors.New("disk full")})

	require.NoError(t, svc.AddOrder(context.Background(), newTestOrder()))
	assert.Len(t, store.orders, 1)
}

func TestService_SaveOrders(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)
	require.NoError(t, svc.SaveOrders(context.Background()))
	assert.Equal(t, 1, store.saved)

	store.saveErr = &PersistenceError{Path: "Orders_10202026.txt", Err: errors.New("read-only")}
	err := svc.SaveOrders(context.Background())
	require.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "Orders_10202026.txt")
}

func TestService_PassThroughs(t *testing.T) {
	o := newTestOrder()
	store := newMockStore(o)
	svc := newTestService(t, store, nil)

	assert.Equal(t, 1, svc.GetNextOrderNumber())
	assert.Equal(t, 2, svc.GetNextOrderNumber())
	assert.Len(t, svc.OrdersForDate(testDate), 1)
	assert.Equal(t, 1, svc.AllOrders().Len())
	assert.Len(t, svc.Taxes(), 2)
	assert.Len(t, svc.Products(), 2)
}
