package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/api"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/reward"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/app/shop"
	"github.com/nooksandhook-ux/NOOKSBRIDGE/internal/infra/sqlite"
)

// Daemon is the reward engine runtime. It wires together storage, the
// engine, the shop, and the API server.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Engine *reward.Engine
	Shop   *shop.Service
	Server *api.Server
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	engine := reward.New(db)
	shopSvc := shop.NewService(db, engine, nil)

	server := api.NewServer(engine, shopSvc)
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Engine: engine,
		Shop:   shopSvc,
		Server: server,
	}, nil
}

// Serve runs the HTTP API server until the context is cancelled or an
// interrupt arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           d.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("nooksbridge listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		d.Close()
		return err
	case <-sig:
		log.Printf("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	return d.Close()
}

// Close releases daemon resources.
func (d *Daemon) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
