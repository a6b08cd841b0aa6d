// Package export writes every stored order to one gzip-compressed file.
package export

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/xenking/floormaster/internal/domain/order"
	"github.com/xenking/floormaster/internal/storage/file"
)

// DateLayout is the layout of the trailing OrderDate column.
const DateLayout = "01-02-2006"

// Header returns the export header: the order file header plus OrderDate.
func Header() string {
	return file.HeaderLine() + ",OrderDate"
}

// Write exports snap to path, sorted by date then order number, and returns
// the number of orders written. The previous export is replaced.
func Write(ctx context.Context, path string, snap order.Snapshot) (_ int, rerr error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "create export directory")}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "create")}
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = &order.PersistenceError{Path: path, Err: errors.Wrap(err, "close")}
		}
	}()

	gz := pgzip.NewWriter(f)
	w := bufio.NewWriter(gz)
	if _, err := w.WriteString(Header() + "\n"); err != nil {
		return 0, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "write header")}
	}

	orders := snap.All()
	for _, o := range orders {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		line := file.FormatRecord(o) + "," + o.Date.Format(DateLayout) + "\n"
		if _, err := w.WriteString(line); err != nil {
			return 0, &order.PersistenceError{Path: path, Err: errors.Wrapf(err, "write order %s", o.Key())}
		}
	}
	if err := w.Flush(); err != nil {
		return 0, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "flush")}
	}
	if err := gz.Close(); err != nil {
		return 0, &order.PersistenceError{Path: path, Err: errors.Wrap(err, "close gzip stream")}
	}

	zctx.From(ctx).Info("Orders exported", zap.String("path", path), zap.Int("orders", len(orders)))
	return len(orders), nil
}
