// Package file implements order storage and reference catalogs on flat,
// comma-delimited text files.
//
// Orders are partitioned by date, one file per date named
// Orders_MMddyyyy.txt. The store is not safe for concurrent use and Save is
// not atomic across files.
package file

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/floormaster/internal/domain/order"
)

// FileDateLayout is the time layout of the date embedded in order file names.
const FileDateLayout = "01022006"

var orderFileRe = regexp.MustCompile(`^Orders_(\d{8})\.txt$`)

var _ order.Store = (*OrderStore)(nil)

// Options configures an OrderStore.
type Options struct {
	TracerProvider trace.TracerProvider
}

// OrderStore is an in-memory order index persisted as one file per date.
type OrderStore struct {
	dir        string
	partitions map[order.Date]map[int]order.Order
	lastNumber int
	tracer     trace.Tracer
}

// NewOrderStore returns a store over dir seeded with partitions instead of
// the directory contents. Dates mapped to nil are kept as empty partitions.
func NewOrderStore(dir string, partitions map[order.Date]map[int]order.Order, opts Options) *OrderStore {
	s := newOrderStore(dir, opts)
	for date, orders := range partitions {
		if orders == nil {
			s.partitions[date] = nil
			continue
		}
		cp := make(map[int]order.Order, len(orders))
		for n, o := range orders {
			cp[n] = o
		}
		s.partitions[date] = cp
	}
	s.lastNumber = s.maxNumber()
	return s
}

// OrderFileName returns the file name holding the orders of date.
func OrderFileName(date order.Date) string {
	return "Orders_" + date.Format(FileDateLayout) + ".txt"
}

// OpenOrderStore loads every order file found in dir.
//
// Files whose name does not encode a valid date, or whose first line is not
// the exact order header, are skipped. A malformed row aborts the load with
// an error naming the file and line. A missing directory yields an empty
// store; Save creates it.
func OpenOrderStore(ctx context.Context, dir string, opts Options) (_ *OrderStore, rerr error) {
	s := newOrderStore(dir, opts)
	lg := zctx.From(ctx)

	ctx, span := s.tracer.Start(ctx, "OrderStore.Open", trace.WithAttributes(attribute.String("dir", dir)))
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
		}
		span.End()
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			lg.Info("Order directory missing, starting empty", zap.String("dir", dir))
			return s, nil
		}
		return nil, &order.PersistenceError{Path: dir, Err: errors.Wrap(err, "read order directory")}
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		m := orderFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		date, err := order.ParseDate(FileDateLayout, m[1])
		if err != nil {
			lg.Warn("Skipping order file with invalid date", zap.String("file", e.Name()), zap.Error(err))
			continue
		}

		path := filepath.Join(dir, e.Name())
		orders, ok, err := readOrderFile(path, date)
		if err != nil {
			return nil, err
		}
		if !ok {
			lg.Warn("Skipping order file with unexpected header", zap.String("file", e.Name()))
			continue
		}
		s.partitions[date] = orders
	}

	s.lastNumber = s.maxNumber()
	lg.Info("Orders loaded",
		zap.String("dir", dir),
		zap.Int("dates", len(s.partitions)),
		zap.Int("orders", s.count()),
		zap.Int("last_number", s.lastNumber),
	)
	return s, nil
}

func newOrderStore(dir string, opts Options) *OrderStore {
	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &OrderStore{
		dir:        dir,
		partitions: make(map[order.Date]map[int]order.Order),
		tracer:     tp.Tracer("floormaster/storage/file"),
	}
}

// readOrderFile parses one partition file. ok is false when the header does
// not match and the file must be ignored.
func readOrderFile(path string, date order.Date) (_ map[int]order.Order, ok bool, _ error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "open")}
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, false, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "scan")}
		}
		return nil, false, nil
	}
	if !validHeader(strings.TrimRight(scanner.Text(), "\r")) {
		return nil, false, nil
	}

	orders := make(map[int]order.Order)
	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		o, err := parseRecord(text, date)
		if err != nil {
			return nil, false, &order.PersistenceError{Path: path, Line: line, Err: err}
		}
		orders[o.Number] = o
	}
	if err := scanner.Err(); err != nil {
		return nil, false, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "scan")}
	}
	return orders, true, nil
}

// NextOrderNumber returns the next unused order number. The counter is seeded
// from the highest number across all dates at construction and only grows.
func (s *OrderStore) NextOrderNumber() int {
	s.lastNumber++
	return s.lastNumber
}

// Add inserts o into its date partition, creating the partition if needed,
// and returns the order it replaced.
func (s *OrderStore) Add(o order.Order) (order.Order, bool) {
	orders := s.partitions[o.Date]
	if orders == nil {
		orders = make(map[int]order.Order)
		s.partitions[o.Date] = orders
	}
	prev, ok := orders[o.Number]
	orders[o.Number] = o
	if o.Number > s.lastNumber {
		s.lastNumber = o.Number
	}
	return prev, ok
}

// Get returns the order stored under key.
func (s *OrderStore) Get(key order.Key) (order.Order, bool) {
	o, ok := s.partitions[key.Date][key.Number]
	return o, ok
}

// Edit replaces an existing order. It never inserts.
func (s *OrderStore) Edit(o order.Order) (order.Order, error) {
	orders := s.partitions[o.Date]
	prev, ok := orders[o.Number]
	if !ok {
		return order.Order{}, &order.NoSuchOrderError{Key: o.Key()}
	}
	orders[o.Number] = o
	return prev, nil
}

// Remove deletes and returns the order under key. The emptied partition is
// kept so that Save truncates its file.
func (s *OrderStore) Remove(key order.Key) (order.Order, bool) {
	orders := s.partitions[key.Date]
	o, ok := orders[key.Number]
	if ok {
		delete(orders, key.Number)
	}
	return o, ok
}

// OrdersForDate returns the orders of date sorted by number. Missing, empty
// and nil partitions all yield an empty slice.
func (s *OrderStore) OrdersForDate(date order.Date) []order.Order {
	orders := s.partitions[date]
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, o)
	}
	slices.SortFunc(out, byNumber)
	return out
}

// AllOrders returns a deep copy of every partition.
func (s *OrderStore) AllOrders() order.Snapshot {
	return order.NewSnapshot(s.partitions)
}

// Save writes every partition to its file, replacing previous content. It
// stops at the first failure; files written before it stay written.
func (s *OrderStore) Save(ctx context.Context) (rerr error) {
	ctx, span := s.tracer.Start(ctx, "OrderStore.Save", trace.WithAttributes(attribute.String("dir", s.dir)))
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
		}
		span.End()
	}()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &order.PersistenceError{Path: s.dir, Err: errors.Wrap(err, "create order directory")}
	}

	dates := make([]order.Date, 0, len(s.partitions))
	for date := range s.partitions {
		dates = append(dates, date)
	}
	slices.SortFunc(dates, func(a, b order.Date) int { return a.Time().Compare(b.Time()) })

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(s.dir, OrderFileName(date))
		if err := writeOrderFile(path, s.OrdersForDate(date)); err != nil {
			return err
		}
	}

	zctx.From(ctx).Info("Orders saved",
		zap.String("dir", s.dir),
		zap.Int("dates", len(dates)),
		zap.Int("orders", s.count()),
	)
	return nil
}

func writeOrderFile(path string, orders []order.Order) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return &order.PersistenceError{Path: path, Err: errors.Wrap(err, "create")}
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = &order.PersistenceError{Path: path, Err: errors.Wrap(err, "close")}
		}
	}()

	w := bufio.NewWriter(f)
	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, HeaderLine())
	for _, o := range orders {
		lines = append(lines, FormatRecord(o))
	}
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			return &order.PersistenceError{Path: path, Err: errors.Wrap(err, "write")}
		}
	}
	if err := w.Flush(); err != nil {
		return &order.PersistenceError{Path: path, Err: errors.Wrap(err, "flush")}
	}
	return nil
}

func (s *OrderStore) maxNumber() int {
	highest := 0
	for _, orders := range s.partitions {
		for n := range orders {
			highest = max(highest, n)
		}
	}
	return highest
}

func (s *OrderStore) count() int {
	n := 0
	for _, orders := range s.partitions {
		n += len(orders)
	}
	return n
}

func byNumber(a, b order.Order) int {
	return a.Number - b.Number
}
