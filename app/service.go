package app

import (
	"context"
	"fmt"
	"time"

	"github.com/xeniter/romygo/config"
	"github.com/xeniter/romygo/core/history"
	coremetrics "github.com/xeniter/romygo/core/metrics"
	coremon "github.com/xeniter/romygo/core/monitoring"
	coremqtt "github.com/xeniter/romygo/core/mqtt"
	"github.com/xeniter/romygo/core/robotstatus"
	"github.com/xeniter/romygo/core/schedule"
	"github.com/xeniter/romygo/infra/logger"
	"github.com/xeniter/romygo/infra/metrics"
	"github.com/xeniter/romygo/infra/monitoring"
	"github.com/xeniter/romygo/infra/mqtt"
	"github.com/xeniter/romygo/infra/romy"
	"github.com/xeniter/romygo/infra/watcher"
	"github.com/xeniter/romygo/internal/eventbus"
)

// Service orchestrates the robot client, the watcher and the outputs.
type Service struct {
	Client    *romy.Client
	Commander *Commander
	Watcher   *watcher.Watcher

	cfg    *config.Config
	bus    eventbus.EventBus
	store  robotstatus.Store
	hist   history.LogStore
	sink   coremetrics.Sink
	mirror coremqtt.Publisher
	log    logger.Logger
}

// New connects to the configured robot and wires the service. Sentry is
// initialized first so connect failures are already reported.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	cli, err := romy.Connect(ctx, romy.Config{
		Host:     cfg.Robot.Host,
		Password: cfg.Robot.Password,
		Ports:    cfg.Robot.Ports,
		Timeout:  cfg.Robot.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect robot: %w", err)
	}

	hist, err := NewHistoryStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	store := robotstatus.NewMemoryStore()

	svc := &Service{
		Client: cli,
		cfg:    cfg,
		bus:    bus,
		store:  store,
		hist:   hist,
		sink:   sink,
		log:    logg,
	}
	svc.Commander = NewCommander(cli, bus)
	svc.Watcher = watcher.New(cli, cfg.Watcher, watcher.Options{
		Bus:     bus,
		Store:   store,
		History: hist,
		Sink:    sink,
	})

	if cfg.MQTT.Enabled {
		mirror, err := mqtt.NewMirror(cfg.MQTT, cli.Info())
		if err != nil {
			return nil, fmt.Errorf("mqtt mirror: %w", err)
		}
		svc.mirror = mirror
	}
	return svc, nil
}

// NewHistoryStore maps the history section onto a store backend.
func NewHistoryStore(cfg config.HistoryConfig) (history.LogStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return history.NewSQLiteStore(cfg.Path)
	case "jsonl":
		return history.NewJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	default:
		return nil, fmt.Errorf("unknown history backend %s", cfg.Backend)
	}
}

// Run starts the watcher, the bus bridges, the schedule and the servers and
// blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	watcher.StartCommandRecorder(ctx, s.bus, s.store, s.hist)
	if s.mirror != nil {
		mqtt.StartEventMirror(ctx, s.bus, s.mirror)
	}
	go s.Watcher.Start(ctx)
	go schedule.Run(ctx, s.cfg.Schedule, s.Commander, s.log)
	if s.cfg.API.Enabled {
		go func() {
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	if addr := metrics.PromListen(s.cfg.Metrics.Sinks); addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases bus, history and broker resources.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mirror != nil {
		s.mirror.Close()
	}
	err := s.hist.Close()
	coremon.Flush(2 * time.Second)
	return err
}
