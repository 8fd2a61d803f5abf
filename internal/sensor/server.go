package sensor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/litescript/ls-exohunter/internal/logging"
)

// Path is where devices connect.
const Path = "/ws/sensors"

const (
	maxMessageSize = 4096
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	shutdownWait   = 2 * time.Second

	// pingPeriod must stay below readTimeout so an idle device is kept
	// alive by its pongs.
	pingPeriod = readTimeout * 9 / 10
)

// Server accepts sensor WebSocket connections and feeds a Hub.
type Server struct {
	hub        *Hub
	logger     *logging.Logger
	upgrader   websocket.Upgrader
	pingPeriod time.Duration

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewServer creates a sensor server for hub.
func NewServer(hub *Hub, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		hub:        hub,
		logger:     logger,
		pingPeriod: pingPeriod,
		conns:      make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Phones connect from arbitrary local pages.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns an http.Handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleSensors)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled. Open sensor
// connections are closed on shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(s.closeAll)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("sensor server listening", "addr", ln.Addr().String(), "path", Path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) track(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// closeAll sends a going-away close frame to every device and drops the
// connection. The read loops then exit on their own.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range s.conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
	}
}

// pingLoop keeps a quiet device connected until done is closed.
func (s *Server) pingLoop(conn *websocket.Conn, remote string, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				s.logger.Debug("sensor ping failed", "remote", remote, "error", err)
				return
			}
		}
	}
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("sensor upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	s.track(conn)
	defer s.untrack(conn)

	remote := r.RemoteAddr
	s.hub.connected(remote)
	defer s.hub.disconnected(remote)

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, remote, done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("sensor read failed", "remote", remote, "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msgType != websocket.TextMessage {
			continue
		}
		if _, err := s.hub.HandleMessage(data); err != nil {
			s.logger.Warn("dropping sensor sample", "remote", remote, "error", err)
		}
	}
}
