package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/kaara/it100-websocket/pkg/bridge"
	"github.com/kaara/it100-websocket/pkg/metrics"
	"github.com/rs/zerolog/log"
)

// Handler receives the lifecycle and the frames of every session.
type Handler interface {
	OnOpen(conn bridge.Conn) error
	OnMessage(conn bridge.Conn, payload []byte) error
	OnClose(conn bridge.Conn)
}

type Server interface {
	// Start listening in the background.
	Start() error
	// Stop closes every session and shuts down the HTTP server.
	Stop() error
	// Router serving the WebSocket endpoint.
	Router() http.Handler
}

type server struct {
	options  Options
	handler  Handler
	upgrader websocket.Upgrader

	httpServer *http.Server

	sessionsMutex sync.Mutex
	sessions      map[*session]struct{}
	stopped       bool
	// Counts the sessions whose OnClose has not run yet.
	sessionsDone  sync.WaitGroup
}

func NewServer(handler Handler, options *Options) Server {
	return &server{
		options: *options,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Keypads are served from other origins, e.g. a file on a tablet.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: map[*session]struct{}{},
	}
}

func (s *server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get(s.options.Path, s.serveWebsocket)
	return r
}

func (s *server) Start() error {
	listener, err := net.Listen("tcp", s.options.ListenAddress)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", s.options.ListenAddress, err)
	}
	s.httpServer = &http.Server{Handler: s.Router()}
	go func() {
		log.Info().Str("address", listener.Addr().String()).Str("path", s.options.Path).Msg("Starting WebSocket server.")
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("WebSocket server stopped unexpectedly.")
		}
	}()
	return nil
}

func (s *server) Stop() error {
	s.sessionsMutex.Lock()
	s.stopped = true
	for sess := range s.sessions {
		sess.close()
	}
	s.sessionsMutex.Unlock()

	// Every subscription is cancelled once this returns.
	s.sessionsDone.Wait()

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down WebSocket server: %w", err)
	}
	log.Info().Msg("WebSocket server stopped.")
	return nil
}

func (s *server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("WebSocket upgrade failed.")
		return
	}

	sess := newSession(conn, s.options.SendBufferSize)
	if !s.track(sess) {
		log.Debug().Str("remote", r.RemoteAddr).Msg("Server stopped, rejecting client.")
		conn.Close()
		return
	}
	log.Debug().Str("session", sess.ID()).Str("remote", r.RemoteAddr).Msg("Client connected.")

	// The write pump runs before OnOpen so the status report requested there
	// is drained as it arrives.
	go sess.writePump()

	if err := s.handler.OnOpen(sess); err != nil {
		log.Error().Err(err).Str("session", sess.ID()).Msg("Error opening session.")
	}

	go func() {
		defer func() {
			s.handler.OnClose(sess)
			s.untrack(sess)
			sess.close()
			s.sessionsDone.Done()
		}()
		sess.readPump(func(data []byte) {
			if err := s.handler.OnMessage(sess, data); err != nil {
				// Bad frames are skipped, the session stays open.
				log.Warn().Err(err).Str("session", sess.ID()).Msg("Frame not forwarded to panel.")
			}
		})
	}()
}

// track registers a new session. It returns false once the server is stopped.
func (s *server) track(sess *session) bool {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()
	if s.stopped {
		return false
	}
	s.sessions[sess] = struct{}{}
	s.sessionsDone.Add(1)
	metrics.Sessions.Set(float64(len(s.sessions)))
	return true
}

func (s *server) untrack(sess *session) {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()
	delete(s.sessions, sess)
	metrics.Sessions.Set(float64(len(s.sessions)))
}
