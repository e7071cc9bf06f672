package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/zeusync/vecview/internal/core/bootstrap"
	"github.com/zeusync/vecview/internal/core/events/bus"
	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/module"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/renderer"
	"github.com/zeusync/vecview/internal/core/transform"
	"github.com/zeusync/vecview/internal/viewer"
)

type stateful interface {
	State() renderer.ViewState
}

// session is one websocket client driving one viewport. All reads,
// bootstrap and dispatch happen on the goroutine that calls run.
type session struct {
	id     string
	conn   *connection
	server *Server
	logger log.Log

	profile   platform.Profile
	sequencer *bootstrap.Sequencer
	module    transform.Renderer
	viewer    *viewer.Viewer
	fatalOnce sync.Once
}

func newSession(id string, conn *connection, srv *Server) *session {
	return &session{
		id:     id,
		conn:   conn,
		server: srv,
		logger: srv.logger.With(log.String("session_id", id)),
	}
}

// run serves the session until the peer leaves or bootstrap fails. It
// returns the close code and reason to send.
func (s *session) run(ctx context.Context) (int, string) {
	hello, err := s.readHello()
	if err != nil {
		s.logger.Warn("Handshake failed", log.Error(err))
		s.sendError(err)
		return websocket.ClosePolicyViolation, ErrHelloRequired.Error()
	}

	cfg := s.server.config
	s.profile = platform.Resolve(hello.Client(), cfg.PlatformSettings())
	s.logger.Info("Client profiled",
		log.String("family", s.profile.Family.String()),
		log.Float64("pixel_ratio", s.profile.PixelRatio),
		log.Strings("plan", s.profile.Plan()))

	loader := module.NewLoader(cfg.Bootstrap.Variants, s.profile.Capabilities, s.logger)
	s.sequencer = bootstrap.NewSequencer(loader, s, s.ready, s.logger,
		bootstrap.WithEventBus(s.server.bus, s.id))

	bootCtx, cancel := context.WithTimeout(ctx, cfg.Server.BootstrapTimeout)
	_, err = s.sequencer.Run(bootCtx, s.profile.Plan())
	cancel()
	if err != nil {
		if s.sequencer.State() != bootstrap.StateFailed {
			s.sendError(err)
			return websocket.CloseGoingAway, "bootstrap abandoned"
		}
		return websocket.CloseInternalServerErr, "module failed to start"
	}

	for {
		msg, err := s.read()
		if err != nil {
			if errors.Is(err, ErrInvalidMessage) {
				s.sendError(err)
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Read failed", log.Error(err))
			}
			return websocket.CloseNormalClosure, ""
		}
		s.handle(msg)
	}
}

func (s *session) readHello() (ClientMessage, error) {
	msg, err := s.read()
	if err != nil {
		return ClientMessage{}, err
	}
	if msg.Type != TypeHello {
		return ClientMessage{}, fmt.Errorf("%w: got %q", ErrHelloRequired, msg.Type)
	}
	return msg, nil
}

func (s *session) read() (ClientMessage, error) {
	p, err := s.conn.Receive()
	if err != nil {
		return ClientMessage{}, err
	}
	return decodeClientMessage(p)
}

func (s *session) handle(msg ClientMessage) {
	switch msg.Type {
	case TypeHello:
		s.sendError(fmt.Errorf("%w: repeated hello", ErrInvalidMessage))
	case TypeOpen:
		if err := s.open(msg.Name); err != nil {
			s.logger.Warn("Failed to open image", log.String("name", msg.Name), log.Error(err))
			s.sendError(err)
			return
		}
		s.sendState(nil)
	default:
		ev, err := msg.Event()
		if err != nil {
			s.sendError(err)
			return
		}
		s.sendState(s.viewer.Handle(ev))
	}
}

// ready runs once the sequencer has a module: it builds the viewer, shows
// the default image and announces the session.
func (s *session) ready(variant string, m transform.Renderer) {
	cfg := s.server.config
	s.module = m
	s.viewer = viewer.New(s.profile, m, s.logger, gesture.WithNoiseThreshold(cfg.Gesture.NoiseThreshold))

	s.send(readyMessage{
		Type:        TypeReady,
		Session:     s.id,
		Variant:     variant,
		Family:      s.profile.Family.String(),
		Plan:        s.profile.Plan(),
		PixelRatio:  s.profile.PixelRatio,
		WheelFactor: s.profile.WheelFactor,
	})

	if cfg.Assets.DefaultImage == "" {
		return
	}
	if err := s.open(cfg.Assets.DefaultImage); err != nil {
		s.logger.Warn("Default image unavailable", log.String("name", cfg.Assets.DefaultImage), log.Error(err))
		return
	}
	s.sendState(nil)
}

func (s *session) open(name string) error {
	a, err := s.server.assets.Fetch(name)
	if err != nil {
		return err
	}
	if err = s.viewer.Install(a.Data); err != nil {
		return err
	}

	ev := bus.NewEvent(bus.TypeImageInstalled, s.id, bus.ImageEvent{Name: a.Name, Size: len(a.Data), Hash: a.Hash})
	if err = s.server.bus.Publish(ev); err != nil {
		s.logger.Warn("Lifecycle handler failed", log.String("event", ev.Type), log.Error(err))
	}
	return nil
}

// ShowFatal tells the client that no module could be started.
func (s *session) ShowFatal() {
	s.fatalOnce.Do(func() {
		msg := fatalMessage{Type: TypeFatal, Error: "module failed to start"}
		if s.sequencer != nil && s.sequencer.Err() != nil {
			msg.Error = s.sequencer.Err().Error()
		}
		s.send(msg)
	})
}

func (s *session) sendState(cmds []transform.Command) {
	st, ok := s.module.(stateful)
	if !ok {
		return
	}
	names := make([]string, len(cmds))
	for i, cmd := range cmds {
		names[i] = cmd.String()
	}
	s.send(stateMessage{Type: TypeState, State: st.State(), Commands: names})
}

func (s *session) sendError(err error) {
	s.send(errorMessage{Type: TypeError, Error: err.Error()})
}

func (s *session) send(v any) {
	if err := s.conn.SendJSON(v); err != nil {
		s.logger.Debug("Write failed", log.Error(err))
	}
}

func (s *session) close(code int, reason string) {
	_ = s.conn.Close(code, reason)
}
