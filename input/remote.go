package input

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultRemoteQueue = 64
	remoteWriteTimeout = 2 * time.Second
	remoteShutdownWait = 3 * time.Second
)

// ErrQueueFull is reported to a remote client when the render loop has not
// drained earlier intents yet.
var ErrQueueFull = errors.New("intent queue full")

// RemoteMessage is one client request.
type RemoteMessage struct {
	Intent string `json:"intent"`
}

// RemoteAck answers every RemoteMessage.
type RemoteAck struct {
	OK     bool   `json:"ok"`
	Intent string `json:"intent,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RemoteServer accepts intents over a websocket at /ws and queues them for
// the render loop. It never touches scene state.
type RemoteServer struct {
	upgrader websocket.Upgrader
	intents  chan Intent
	logger   *log.Logger

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

func NewRemoteServer(queue int, logger *log.Logger) *RemoteServer {
	if queue < 1 {
		queue = DefaultRemoteQueue
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RemoteServer{
		// nil CheckOrigin: browsers from other origins are refused.
		upgrader: websocket.Upgrader{},
		intents: make(chan Intent, queue),
		logger:  logger,
		conns:   make(map[*websocket.Conn]struct{}),
	}
}

// Intents is the queue the render loop drains.
func (s *RemoteServer) Intents() <-chan Intent {
	return s.intents
}

// Drain hands every queued intent to apply without blocking.
func (s *RemoteServer) Drain(apply func(Intent)) int {
	n := 0
	for {
		select {
		case in := <-s.intents:
			apply(in)
			n++
		default:
			return n
		}
	}
}

func (s *RemoteServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

// HandleWS upgrades the request and serves one client until it disconnects.
func (s *RemoteServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("remote: upgrade failed: %v", err)
		return
	}
	if !s.track(conn, true) {
		conn.Close()
		return
	}
	defer func() {
		s.track(conn, false)
		conn.Close()
	}()

	s.logger.Printf("remote: client %s connected", conn.RemoteAddr())
	for {
		var msg RemoteMessage
		if err := conn.ReadJSON(&msg); err != nil {
			var syntax *json.SyntaxError
			var typ *json.UnmarshalTypeError
			if errors.As(err, &syntax) || errors.As(err, &typ) {
				if s.reply(conn, RemoteAck{Error: "malformed message"}) != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("remote: read error: %v", err)
			}
			return
		}
		if err := s.reply(conn, s.enqueue(msg)); err != nil {
			s.logger.Printf("remote: write error: %v", err)
			return
		}
	}
}

func (s *RemoteServer) enqueue(msg RemoteMessage) RemoteAck {
	in, err := ParseIntent(msg.Intent)
	if err != nil {
		return RemoteAck{Error: err.Error()}
	}
	select {
	case s.intents <- in:
		return RemoteAck{OK: true, Intent: in.String()}
	default:
		return RemoteAck{Intent: in.String(), Error: ErrQueueFull.Error()}
	}
}

func (s *RemoteServer) reply(conn *websocket.Conn, ack RemoteAck) error {
	conn.SetWriteDeadline(time.Now().Add(remoteWriteTimeout))
	return conn.WriteJSON(ack)
}

// track registers or forgets conn. It refuses new clients once the server
// has shut down.
func (s *RemoteServer) track(conn *websocket.Conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !add {
		delete(s.conns, conn)
		return true
	}
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *RemoteServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.conns {
		c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		c.Close()
	}
}

// ListenAndServe serves /ws on addr until ctx is cancelled.
func (s *RemoteServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves /ws on ln until ctx is cancelled, then closes open clients.
func (s *RemoteServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Printf("remote: listening on %s", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), remoteShutdownWait)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeAll()
	if e := <-errc; !errors.Is(e, http.ErrServerClosed) && err == nil {
		err = e
	}
	return err
}
