package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vroute/pkg/history"
)

// Mode selects the history backend created for a tab.
type Mode string

const (
	ModeBrowser Mode = "browser"
	ModeHash    Mode = "hash"
)

// popper is implemented by histories that accept platform navigations.
type popper interface {
	history.History
	HandlePopState(rawURL string)
	Close()
}

// Session is one connected tab. It is the Driver of its history.
type Session struct {
	id     uint64
	mode   Mode
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu      sync.Mutex
	writeTimeout time.Duration

	history popper
	closed  sync.Once
}

var _ history.Driver = (*Session)(nil)

func newSession(id uint64, conn *websocket.Conn, mode Mode, initialURL string, o options) *Session {
	s := &Session{
		id:           id,
		mode:         mode,
		conn:         conn,
		logger:       o.logger.With("session", id),
		writeTimeout: o.writeTimeout,
	}
	hopts := []history.Option{history.WithDriver(s), history.WithLogger(s.logger)}
	if mode == ModeHash {
		s.history = history.NewHashHistory(initialURL, hopts...)
	} else {
		s.history = history.NewBrowserHistory(initialURL, hopts...)
	}
	return s
}

// ID returns the session identifier, unique per Server.
func (s *Session) ID() uint64 { return s.id }

// Mode returns the history mode of the session.
func (s *Session) Mode() Mode { return s.mode }

// History returns the tab's history.
func (s *Session) History() history.History { return s.history }

// Apply implements history.Driver by sending cmd to the tab.
func (s *Session) Apply(cmd history.Command) error {
	return s.send(commandMessage(cmd))
}

func (s *Session) send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("bridge: encode %s: %w", msg.Type, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("bridge: write %s: %w", msg.Type, err)
	}
	return nil
}

// popState applies a navigation reported by the tab.
func (s *Session) popState(rawURL string) {
	s.history.HandlePopState(rawURL)
}

// Close closes the history and the connection.
func (s *Session) Close() {
	s.closed.Do(func() {
		s.history.Close()
		s.conn.Close()
	})
}
