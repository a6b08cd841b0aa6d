// Package audit keeps an append-only JSON-lines journal of order mutations.
package audit

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/xenking/floormaster/internal/domain/money"
	"github.com/xenking/floormaster/internal/domain/order"
)

var _ order.Journal = (*Journal)(nil)

// Entry is one journal line.
type Entry struct {
	ID          uuid.UUID
	Time        time.Time
	Action      order.Action
	Date        order.Date
	OrderNumber int
	Total       string
}

// Journal appends entries to a file, opening it for every record so that a
// crash loses at most the entry being written.
type Journal struct {
	path  string
	now   func() time.Time
	newID func() uuid.UUID
}

// NewJournal creates a Journal writing to path. Parent directories are
// created on first write.
func NewJournal(path string) *Journal {
	return &Journal{path: path, now: time.Now, newID: uuid.New}
}

// Record appends an entry for o.
func (j *Journal) Record(_ context.Context, action order.Action, o order.Order) error {
	e := Entry{
		ID:          j.newID(),
		Time:        j.now().UTC(),
		Action:      action,
		Date:        o.Date,
		OrderNumber: o.Number,
		Total:       money.Format(o.Total),
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return errors.Wrap(err, "create audit directory")
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open audit journal")
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(encodeEntry(e)); err != nil {
		return errors.Wrap(err, "write audit entry")
	}
	return nil
}

func encodeEntry(e Entry) []byte {
	var w jx.Encoder
	w.Obj(func(w *jx.Encoder) {
		w.Field("id", func(w *jx.Encoder) { w.Str(e.ID.String()) })
		w.Field("time", func(w *jx.Encoder) { w.Str(e.Time.Format(time.RFC3339Nano)) })
		w.Field("action", func(w *jx.Encoder) { w.Str(string(e.Action)) })
		w.Field("date", func(w *jx.Encoder) { w.Str(e.Date.String()) })
		w.Field("order_number", func(w *jx.Encoder) { w.Int(e.OrderNumber) })
		w.Field("total", func(w *jx.Encoder) { w.Str(e.Total) })
	})
	return append(w.Bytes(), '\n')
}

// ReadEntries decodes every entry of the journal at path.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read audit journal")
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		e, err := decodeEntry(scanner.Bytes())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan audit journal")
	}
	return entries, nil
}

func decodeEntry(data []byte) (Entry, error) {
	var e Entry
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			s, err := d.Str()
			if err != nil {
				return err
			}
			e.ID, err = uuid.Parse(s)
			return err
		case "time":
			s, err := d.Str()
			if err != nil {
				return err
			}
			e.Time, err = time.Parse(time.RFC3339Nano, s)
			return err
		case "action":
			s, err := d.Str()
			e.Action = order.Action(s)
			return err
		case "date":
			s, err := d.Str()
			if err != nil {
				return err
			}
			e.Date, err = order.ParseDate(time.DateOnly, s)
			return err
		case "order_number":
			n, err := d.Int()
			e.OrderNumber = n
			return err
		case "total":
			s, err := d.Str()
			e.Total = s
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return Entry{}, errors.Wrap(err, "decode audit entry")
	}
	return e, nil
}
