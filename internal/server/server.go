// Package server exposes vecview over HTTP: static assets, a health
// endpoint and one websocket session per viewport.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/vecview/internal/assets"
	"github.com/zeusync/vecview/internal/config"
	"github.com/zeusync/vecview/internal/core/events/bus"
	"github.com/zeusync/vecview/internal/core/observability/log"
)

// Server represents a vecview server
type Server struct {
	config   config.Config
	assets   *assets.Store
	bus      bus.EventBus
	logger   log.Log
	upgrader websocket.Upgrader

	// Session management
	sessions     sync.Map // map[string]*session
	sessionCount int64    // atomic
	sessionGroup sync.WaitGroup

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	ctx        context.Context
	cancel     context.CancelFunc

	stats    counters
	subs     []bus.Subscription
	observer *deliveryObserver
}

type counters struct {
	sessions        uint64
	ready           uint64
	fatal           uint64
	variantFailures uint64
	images          uint64
}

// Stats is a snapshot of server activity.
type Stats struct {
	ActiveSessions  int64       `json:"activeSessions"`
	Sessions        uint64      `json:"sessions"`
	Ready           uint64      `json:"ready"`
	Fatal           uint64      `json:"fatal"`
	VariantFailures uint64      `json:"variantFailures"`
	Images          uint64      `json:"images"`
	Events          bus.Metrics `json:"events"`
}

// NewServer creates a server. A nil eventBus gets a private in-memory bus.
func NewServer(cfg config.Config, store *assets.Store, eventBus bus.EventBus, logger log.Log) *Server {
	if eventBus == nil {
		eventBus = bus.New()
	}

	s := &Server{
		config: cfg,
		assets: store,
		bus:    eventBus,
		logger: logger.With(log.String("component", "server")),
	}
	s.upgrader = s.newUpgrader()
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.observer = &deliveryObserver{logger: s.logger, slow: slowDelivery}
	s.bus.AddObserver(s.observer)

	s.subscribe(bus.TypeBootstrapReady, &s.stats.ready)
	s.subscribe(bus.TypeBootstrapFatal, &s.stats.fatal)
	s.subscribe(bus.TypeVariantFailed, &s.stats.variantFailures)
	s.subscribe(bus.TypeImageInstalled, &s.stats.images)

	s.logger.Info("Server created",
		log.String("listen_addr", cfg.Server.ListenAddr),
		log.Int("max_sessions", cfg.Server.MaxSessions))

	return s
}

func (s *Server) subscribe(eventType string, counter *uint64) {
	sub, err := s.bus.Subscribe(eventType, func(bus.Event) error {
		atomic.AddUint64(counter, 1)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to subscribe", log.String("event", eventType), log.Error(err))
		return
	}
	s.subs = append(s.subs, sub)
}

// Run listens on the configured address and serves until ctx is done or
// Stop is called, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 || s.ctx.Err() != nil {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}
	defer atomic.StoreInt32(&s.running, 0)

	s.logger.Info("Starting server")

	ln, err := net.Listen("tcp", s.config.Server.ListenAddr)
	if err != nil {
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.Server.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-s.ctx.Done():
		}
		return s.shutdown()
	})

	err = g.Wait()
	s.logger.Info("Server stopped")
	return err
}

func (s *Server) shutdown() error {
	s.logger.Info("Stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)

	// Hijacked websocket connections are not tracked by http.Server.
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.sessions.Range(func(_, value any) bool {
		if sess, ok := value.(*session); ok {
			sess.close(websocket.CloseGoingAway, "server shutting down")
		}
		return true
	})

	done := make(chan struct{})
	go func() {
		s.sessionGroup.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Sessions still open after shutdown timeout",
			log.Int64("sessions", atomic.LoadInt64(&s.sessionCount)))
	}
	return err
}

// Stop asks a running server to shut down; Run returns once it has. A
// stopped server cannot run again.
func (s *Server) Stop() error {
	if atomic.LoadInt32(&s.running) == 0 {
		return ErrServerNotRunning
	}
	s.cancel()
	return nil
}

// Close stops the server for good and releases bus subscriptions.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil // Already closed
	}

	s.logger.Info("Closing server")
	s.cancel()
	s.bus.RemoveObserver(s.observer)

	var errs []error
	for _, sub := range s.subs {
		if err := s.bus.Unsubscribe(sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Addr is the bound listener address while running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Server) Stats() Stats {
	return Stats{
		ActiveSessions:  atomic.LoadInt64(&s.sessionCount),
		Sessions:        atomic.LoadUint64(&s.stats.sessions),
		Ready:           atomic.LoadUint64(&s.stats.ready),
		Fatal:           atomic.LoadUint64(&s.stats.fatal),
		VariantFailures: atomic.LoadUint64(&s.stats.variantFailures),
		Images:          atomic.LoadUint64(&s.stats.images),
		Events:          s.bus.GetMetrics(),
	}
}

func (s *Server) baseContext() context.Context {
	return s.ctx
}
