// Package app wires the engine, sessions, metrics, history and HTTP API
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kilianp07/ecocommute/api"
	"github.com/kilianp07/ecocommute/config"
	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/factory"
	corehistory "github.com/kilianp07/ecocommute/core/history"
	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
	coremon "github.com/kilianp07/ecocommute/core/monitoring"
	"github.com/kilianp07/ecocommute/core/session"
	_ "github.com/kilianp07/ecocommute/infra/history"
	"github.com/kilianp07/ecocommute/infra/logger"
	"github.com/kilianp07/ecocommute/infra/metrics"
	"github.com/kilianp07/ecocommute/infra/monitoring"
	"github.com/kilianp07/ecocommute/internal/eventbus"
)

// eventBuffer is the per-subscriber capacity of the session bus.
const eventBuffer = 256

// Service owns the long running components.
type Service struct {
	Engine   *ecoscore.Engine
	Sessions *session.Manager
	History  corehistory.Store
	Sink     coremetrics.ScoreSink

	cfg     config.Config
	bus     *eventbus.Bus[session.Event]
	handler http.Handler
	log     logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if os.Getenv("LOG_LEVEL") == "" {
		logger.SetLevel(cfg.Logging.Level)
	}
	log := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	engine, err := ecoscore.New(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	sink, err := coremetrics.NewScoreSink(sinkConfigs(cfg.Metrics))
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := corehistory.NewStore(cfg.History.Module())
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	bus := eventbus.NewWithBuffer[session.Event](eventBuffer)
	mgr := session.NewManager(engine, bus)
	svc := &Service{
		Engine:   engine,
		Sessions: mgr,
		History:  store,
		Sink:     sink,
		cfg:      *cfg,
		bus:      bus,
		log:      log,
	}
	svc.handler = api.NewRouter(api.Deps{
		Engine:        engine,
		Sessions:      mgr,
		History:       store,
		SnapshotOnEnd: !cfg.History.Disabled,
		Sink:          sink,
		Token:         cfg.HTTP.Token,
		Logger:        logger.New("api"),
	})
	return svc, nil
}

// sinkConfigs adds a Prometheus sink when /metrics is served but no sink
// of that type is configured.
func sinkConfigs(cfg coremetrics.Config) []factory.ModuleConfig {
	sinks := cfg.Sinks
	if cfg.PrometheusAddr == "" {
		return sinks
	}
	for _, s := range sinks {
		if s.Type == "prometheus" {
			return sinks
		}
	}
	return append(append([]factory.ModuleConfig(nil), sinks...), factory.ModuleConfig{Type: "prometheus"})
}

// Handler returns the HTTP API handler.
func (s *Service) Handler() http.Handler { return s.handler }

// Run starts the collectors and servers and blocks until the context is
// cancelled or the API server fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics.StartScoreCollector(ctx, s.bus, s.Engine, s.Sink, func() int { return len(s.Sessions.IDs()) })
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if ttl := s.cfg.Session.TTL(); ttl > 0 {
		go s.expireLoop(ctx, ttl, s.cfg.Session.SweepInterval())
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.HTTP.ReadTimeout(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}

func (s *Service) expireLoop(ctx context.Context, ttl, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireSessions(ctx, ttl)
		}
	}
}

// ExpireSessions ends the sessions idle for longer than ttl and records
// their final score in the history. It returns the number of sessions ended.
func (s *Service) ExpireSessions(ctx context.Context, ttl time.Duration) int {
	expired := s.Sessions.Expire(ttl)
	for _, sess := range expired {
		s.log.Infof("session %s expired after %s idle", sess.ID, ttl)
		if s.cfg.History.Disabled {
			continue
		}
		if _, _, err := corehistory.Snapshot(ctx, s.History, s.Engine, sess.ID, time.Now(), sess.Itinerary()); err != nil {
			s.log.Errorf("history snapshot: %v", err)
			coremon.CaptureException(err, map[string]string{"session": sess.ID})
		}
	}
	return len(expired)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if n := s.bus.Dropped(); n > 0 {
		s.log.Warnf("session bus dropped %d events", n)
	}
	coremon.Flush(2 * time.Second)
	if c, ok := s.Sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.History.Close()
}
