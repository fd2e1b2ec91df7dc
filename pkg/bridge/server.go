package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vroute/pkg/routepath"
)

// ErrNoInit is reported to a tab whose first message is not "init".
var ErrNoInit = errors.New("bridge: expected init message")

// Option configures a Server.
type Option func(*options)

type options struct {
	mode         Mode
	logger       *slog.Logger
	onSession    func(*Session) (func(), error)
	checkOrigin  func(*http.Request) bool
	writeTimeout time.Duration
	initTimeout  time.Duration
}

// WithMode sets the default history mode. A tab may request another mode
// in its init message.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithLogger sets the server logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOnSession registers fn to run for every new tab, after its history is
// created. The returned cleanup runs when the tab disconnects. An error
// rejects the tab.
func WithOnSession(fn func(*Session) (func(), error)) Option {
	return func(o *options) {
		o.onSession = fn
	}
}

// WithCheckOrigin sets the origin check of the WebSocket upgrade.
// By default gorilla's same-origin check applies.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(o *options) {
		o.checkOrigin = fn
	}
}

// WithWriteTimeout bounds each frame write (default: 10s).
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = d
	}
}

// WithInitTimeout bounds the wait for the init message (default: 10s).
func WithInitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.initTimeout = d
	}
}

// Server accepts tab connections and keeps one Session per tab.
type Server struct {
	opts     options
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu       sync.RWMutex
	sessions map[uint64]*Session
}

// NewServer creates a bridge server.
func NewServer(opts ...Option) *Server {
	o := options{
		mode:         ModeBrowser,
		writeTimeout: 10 * time.Second,
		initTimeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Server{
		opts:     o,
		sessions: make(map[uint64]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     o.checkOrigin,
		},
	}
}

// ServeHTTP upgrades the request and runs the tab's session until it
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.opts.logger.Debug("bridge upgrade failed", "error", err)
		return
	}

	hello, err := s.readInit(conn)
	if err != nil {
		s.reject(conn, err)
		return
	}

	mode := s.opts.mode
	if hello.Mode == ModeBrowser || hello.Mode == ModeHash {
		mode = hello.Mode
	}
	session := newSession(s.nextID.Add(1), conn, mode, hello.URL, s.opts)

	cleanup := func() {}
	if s.opts.onSession != nil {
		fn, err := s.opts.onSession(session)
		if err != nil {
			_ = session.send(Message{Type: TypeError, Error: err.Error()})
			session.Close()
			s.opts.logger.Warn("bridge session rejected", "session", session.id, "error", err)
			return
		}
		if fn != nil {
			cleanup = fn
		}
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()
	s.opts.logger.Debug("bridge session started", "session", session.id, "mode", mode, "url", hello.URL)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, session.id)
		s.mu.Unlock()
		cleanup()
		session.Close()
		s.opts.logger.Debug("bridge session ended", "session", session.id)
	}()

	s.readLoop(session)
}

func (s *Server) readInit(conn *websocket.Conn) (Message, error) {
	if s.opts.initTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.initTimeout))
	}
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		return Message{}, fmt.Errorf("bridge: read init: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	if msg.Type != TypeInit {
		return Message{}, ErrNoInit
	}
	if _, err := routepath.ValidateNavPath(msg.URL); err != nil {
		return Message{}, fmt.Errorf("bridge: init url %q: %w", msg.URL, err)
	}
	return msg, nil
}

func (s *Server) reject(conn *websocket.Conn, err error) {
	s.opts.logger.Warn("bridge connection rejected", "error", err)
	data, _ := json.Marshal(Message{Type: TypeError, Error: err.Error()})
	_ = conn.SetWriteDeadline(time.Now().Add(s.opts.writeTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, data)
	conn.Close()
}

func (s *Server) readLoop(session *Session) {
	for {
		var msg Message
		if err := session.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				session.logger.Debug("bridge frame ignored", "error", err)
				continue
			}
			return
		}

		switch msg.Type {
		case TypePopState:
			// The URL is validated but applied as reported, so that it
			// still matches the entry the tab moved to.
			if _, err := routepath.ValidateNavPath(msg.URL); err != nil {
				session.logger.Warn("bridge popstate rejected", "url", msg.URL, "error", err)
				continue
			}
			session.popState(msg.URL)
		default:
			session.logger.Debug("bridge message ignored", "type", msg.Type)
		}
	}
}

// Session returns the live session with the given id.
func (s *Server) Session(id uint64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// SessionCount returns the number of connected tabs.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close disconnects every tab.
func (s *Server) Close() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.Close()
	}
}
