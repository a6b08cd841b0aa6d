package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/floormaster/internal/audit"
	"github.com/xenking/floormaster/internal/console"
	"github.com/xenking/floormaster/internal/domain/order"
	"github.com/xenking/floormaster/internal/domain/product"
	"github.com/xenking/floormaster/internal/domain/tax"
	"github.com/xenking/floormaster/internal/export"
	"github.com/xenking/floormaster/internal/storage/file"
)

// Run loads reference data and orders, then serves the console on in/out
// until the user quits. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, in io.Reader, out io.Writer) error {
	return run(ctx, lg, telemetry{
		tracerProvider: m.TracerProvider(),
		meterProvider:  m.MeterProvider(),
	}, cfg, in, out)
}

// telemetry carries the providers taken from the sdk telemetry. Nil
// providers fall back to no-op implementations downstream.
type telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func run(ctx context.Context, lg *zap.Logger, m telemetry, cfg *Config, in io.Reader, out io.Writer) error {
	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing", zap.String("orders_dir", cfg.OrdersDir))

	var (
		taxes    tax.Table
		products product.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if taxes, err = file.LoadTaxes(gctx, cfg.TaxFile); err != nil {
			return errors.Wrap(err, "load taxes")
		}
		return nil
	})
	g.Go(func() (err error) {
		if products, err = file.LoadProducts(gctx, cfg.ProductFile); err != nil {
			return errors.Wrap(err, "load products")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	store, err := file.OpenOrderStore(ctx, cfg.OrdersDir, file.Options{
		TracerProvider: m.tracerProvider,
	})
	if err != nil {
		return errors.Wrap(err, "open order store")
	}

	svcCfg := order.ServiceConfig{
		MeterProvider: m.meterProvider,
		Logger:        lg.Named("order"),
	}
	if cfg.AuditFile != "" {
		svcCfg.Journal = audit.NewJournal(cfg.AuditFile)
	}
	svc, err := order.NewService(store, taxes, products, svcCfg)
	if err != nil {
		return errors.Wrap(err, "create order service")
	}

	exporter := func(ctx context.Context, snap order.Snapshot) (int, error) {
		return export.Write(ctx, cfg.ExportFile, snap)
	}
	if err := console.New(svc, exporter, in, out).Run(ctx); err != nil {
		return errors.Wrap(err, "console")
	}
	lg.Info("Session finished")
	return nil
}
