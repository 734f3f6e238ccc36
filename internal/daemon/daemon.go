package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/budgetlens/budgetlens/internal/api"
	"github.com/budgetlens/budgetlens/internal/app/budget"
	"github.com/budgetlens/budgetlens/internal/domain"
	"github.com/budgetlens/budgetlens/internal/infra/eventlog"
	"github.com/budgetlens/budgetlens/internal/infra/monitor"
	"github.com/budgetlens/budgetlens/internal/infra/observability"
	"github.com/budgetlens/budgetlens/internal/infra/postgres"
	"github.com/budgetlens/budgetlens/internal/infra/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Store is a budget store that also persists audit events.
type Store interface {
	domain.BudgetStore
	eventlog.EventLogger
	Close() error
}

// OpenStore opens the backend selected by cfg.Database.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Database.Driver {
	case DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverSQLite, "":
		db, err := sqlite.Open(cfg.SQLiteDir())
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// Run serves the API until ctx is cancelled, then shuts everything down in
// reverse start order.
func Run(ctx context.Context, cfg Config, log *logrus.Logger) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("closing store")
		}
	}()

	events := eventlog.NewWorker(store, cfg.Events.Buffer, log)
	events.Start()
	defer events.Shutdown()

	svc := budget.NewService(store,
		budget.WithEventSink(events),
		budget.WithLogger(log.WithField("component", "budget")),
	)
	if n, err := svc.Count(ctx); err == nil {
		observability.BudgetCount.Set(float64(n))
	}

	mon, err := monitor.New(cfg.Monitor.Schedule, log)
	if err != nil {
		return err
	}
	mon.Start()
	defer mon.Stop()

	srv := api.NewServer(svc, log.WithField("component", "api"))
	srv.SetSystemSampler(mon)
	srv.SetCORSOrigins(cfg.API.CORSOrigins)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":   cfg.Addr(),
			"driver": cfg.Database.Driver,
		}).Info("budgetlens API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
