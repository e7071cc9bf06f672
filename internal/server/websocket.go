package server

import (
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/vecview/internal/core/observability/log"
)

func (s *Server) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: s.config.Server.HandshakeTimeout,
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.closed) == 1 {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if int(atomic.LoadInt64(&s.sessionCount)) >= s.config.Server.MaxSessions {
		s.logger.Warn("Maximum sessions reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxSessionsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.String("remote_addr", r.RemoteAddr), log.Error(err))
		return
	}
	conn.SetReadLimit(s.config.Server.MaxMessageSize)

	sess := newSession(uuid.NewString(),
		newConnection(conn, s.config.Server.IdleTimeout, s.config.Server.WriteTimeout), s)

	// Registration and shutdown's cancel share s.mu so that no session
	// joins the group after shutdown has started waiting on it.
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		sess.close(websocket.CloseGoingAway, "server shutting down")
		return
	}
	s.sessionGroup.Add(1)
	s.sessions.Store(sess.id, sess)
	s.mu.Unlock()
	atomic.AddInt64(&s.sessionCount, 1)
	atomic.AddUint64(&s.stats.sessions, 1)

	s.logger.Info("Session opened",
		log.String("session_id", sess.id),
		log.String("remote_addr", r.RemoteAddr),
		log.Int64("total_sessions", atomic.LoadInt64(&s.sessionCount)))

	code, reason := sess.run(s.baseContext())

	s.sessions.Delete(sess.id)
	atomic.AddInt64(&s.sessionCount, -1)
	sess.close(code, reason)
	s.sessionGroup.Done()

	traffic := sess.conn.Stats()
	s.logger.Info("Session closed",
		log.String("session_id", sess.id),
		log.Int("close_code", code),
		log.Uint64("messages_received", traffic.MessagesReceived),
		log.Uint64("messages_sent", traffic.MessagesSent),
		log.Int64("total_sessions", atomic.LoadInt64(&s.sessionCount)))
}
