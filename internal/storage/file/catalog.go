package file

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xenking/floormaster/internal/domain/money"
	"github.com/xenking/floormaster/internal/domain/order"
	"github.com/xenking/floormaster/internal/domain/product"
	"github.com/xenking/floormaster/internal/domain/tax"
)

var (
	taxHeader     = []string{"State", "StateName", "TaxRate"}
	productHeader = []string{"ProductType", "CostPerSquareFoot", "LaborCostPerSquareFoot"}
)

var validate = validator.New()

// LoadTaxes reads a tax catalog of State,StateName,TaxRate rows. Unlike order
// files, a wrong header or any bad row fails the whole load, and so do
// duplicate state codes or names.
func LoadTaxes(ctx context.Context, path string) (tax.Table, error) {
	var (
		table  tax.Table
		codes  = make(map[string]struct{})
		states = make(map[string]struct{})
	)
	err := readCatalog(path, taxHeader, func(fields []string) error {
		rate, err := money.Parse(fields[2])
		if err != nil {
			return err
		}
		r := tax.Rate{
			State:        fields[1],
			Abbreviation: fields[0],
			Rate:         rate,
		}
		if err := validate.Struct(r); err != nil {
			return errors.Wrap(err, "validate tax entry")
		}
		if _, ok := codes[r.Abbreviation]; ok {
			return errors.Errorf("duplicate state code %q", r.Abbreviation)
		}
		if _, ok := states[r.State]; ok {
			return errors.Errorf("duplicate state %q", r.State)
		}
		codes[r.Abbreviation] = struct{}{}
		states[r.State] = struct{}{}
		table = append(table, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zctx.From(ctx).Info("Tax catalog loaded", zap.String("path", path), zap.Int("states", len(table)))
	return table, nil
}

// LoadProducts reads a product catalog of
// ProductType,CostPerSquareFoot,LaborCostPerSquareFoot rows. Product types
// must be unique.
func LoadProducts(ctx context.Context, path string) (product.Catalog, error) {
	var (
		catalog product.Catalog
		types   = make(map[string]struct{})
	)
	err := readCatalog(path, productHeader, func(fields []string) error {
		cost, err := money.Parse(fields[1])
		if err != nil {
			return err
		}
		labor, err := money.Parse(fields[2])
		if err != nil {
			return err
		}
		p := product.Product{
			Type:                   fields[0],
			CostPerSquareFoot:      cost,
			LaborCostPerSquareFoot: labor,
		}
		if err := validate.Struct(p); err != nil {
			return errors.Wrap(err, "validate product")
		}
		if _, ok := types[p.Type]; ok {
			return errors.Errorf("duplicate product type %q", p.Type)
		}
		types[p.Type] = struct{}{}
		catalog = append(catalog, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	zctx.From(ctx).Info("Product catalog loaded", zap.String("path", path), zap.Int("products", len(catalog)))
	return catalog, nil
}

// readCatalog checks the header of a reference file and hands every
// following row, split into len(header) fields, to fn.
func readCatalog(path string, header []string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &order.PersistenceError{Path: path, Err: errors.Wrap(err, "open")}
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return &order.PersistenceError{Path: path, Err: errors.Wrap(err, "scan")}
		}
		return &order.PersistenceError{Path: path, Err: errors.New("missing header")}
	}
	if got := strings.TrimRight(scanner.Text(), "\r"); got != strings.Join(header, delimiter) {
		return &order.PersistenceError{Path: path, Line: 1, Err: errors.Errorf("unexpected header %q", got)}
	}

	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		fields := strings.Split(text, delimiter)
		if len(fields) != len(header) {
			return &order.PersistenceError{
				Path: path,
				Line: line,
				Err:  errors.Errorf("expected %d fields, got %d", len(header), len(fields)),
			}
		}
		if err := fn(fields); err != nil {
			return &order.PersistenceError{Path: path, Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return &order.PersistenceError{Path: path, Err: errors.Wrap(err, "scan")}
	}
	return nil
}
