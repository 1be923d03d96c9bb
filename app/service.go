// Package app wires the dispatch core to its transports and observability
// sinks and owns the process lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apiregistry "github.com/openhail/dispatchd/api/registry"
	"github.com/openhail/dispatchd/api/rides"
	"github.com/openhail/dispatchd/config"
	"github.com/openhail/dispatchd/core/booking"
	"github.com/openhail/dispatchd/core/dispatch"
	"github.com/openhail/dispatchd/core/driverstatus"
	coremetrics "github.com/openhail/dispatchd/core/metrics"
	coremon "github.com/openhail/dispatchd/core/monitoring"
	"github.com/openhail/dispatchd/core/pubsub"
	"github.com/openhail/dispatchd/core/registry"
	"github.com/openhail/dispatchd/infra/logger"
	"github.com/openhail/dispatchd/infra/metrics"
	"github.com/openhail/dispatchd/infra/monitoring"
	"github.com/openhail/dispatchd/infra/mqtt"
	"github.com/openhail/dispatchd/internal/eventbus"
)

// Service owns the engine, its stores, and the configured transports.
type Service struct {
	Engine   *dispatch.Engine
	Registry *registry.Registry

	cfg       *config.Config
	log       logger.Logger
	bus       *eventbus.Bus
	publisher *mqtt.Publisher
	presence  *mqtt.PresenceListener
	monitor   coremon.Monitor
}

// New creates a Service from the configuration. All state is in-memory and
// lives for the process lifetime.
func New(cfg *config.Config) (*Service, error) {
	applyLogLevel(cfg.Logging.Level)
	logg := logger.New("service")

	svc := &Service{cfg: cfg, log: logg, Registry: registry.New()}

	monitor, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	coremon.Init(monitor)
	svc.monitor = monitor

	var pub pubsub.Publisher
	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = client
		pub = client
		listener, err := mqtt.NewPresenceListener(cfg.MQTT, svc.Registry)
		if err != nil {
			client.Disconnect()
			return nil, fmt.Errorf("presence listener: %w", err)
		}
		svc.presence = listener
	} else {
		svc.bus = eventbus.New()
		pub = svc.bus
	}

	var sinks []coremetrics.BookingSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.BookingSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	engine, err := dispatch.NewEngine(svc.Registry, booking.NewStore(), pub, logger.New("dispatch"), sink)
	if err != nil {
		return nil, fmt.Errorf("dispatch engine: %w", err)
	}
	engine.SetStatusBoard(driverstatus.NewMemoryStore())
	svc.Engine = engine
	return svc, nil
}

// Bus returns the in-process event bus, or nil when MQTT transport is active.
func (s *Service) Bus() *eventbus.Bus { return s.bus }

// Routes builds the HTTP surface of the service.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	rides.NewHandler(s.Engine).Register(mux)
	apiregistry.NewHandler(s.Registry, logger.New("registry")).Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Run serves the API until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: s.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("dispatch API listening on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases transport resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if s.presence != nil {
		s.presence.Disconnect()
	}
	if s.bus != nil {
		s.bus.Close()
	}
	if s.monitor != nil {
		s.monitor.Flush(2 * time.Second)
	}
	return nil
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
