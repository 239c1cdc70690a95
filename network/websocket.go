package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/peerfire/config"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/wrapws"
)

const wsReadLimit = 1 << 20

// WebSocketTransport carries channels over websockets. The host serves one
// endpoint per session; guests find it through the Resolver and identify
// themselves with the session and peer query parameters.
type WebSocketTransport struct {
	ListenAddr    string
	AdvertiseAddr string
	Resolver      Resolver
	DialTimeout   time.Duration
	WriteTimeout  time.Duration
	QueueSize     int
}

// NewWebSocketTransport returns a transport configured from config.Network.
func NewWebSocketTransport(resolver Resolver) *WebSocketTransport {
	return &WebSocketTransport{
		ListenAddr:    config.Network.ListenAddr,
		AdvertiseAddr: config.Network.AdvertiseAddr,
		Resolver:      resolver,
		DialTimeout:   config.Network.DialTimeout,
		WriteTimeout:  config.Network.WriteTimeout,
		QueueSize:     config.Network.SendQueue,
	}
}

func (t *WebSocketTransport) Listen(ctx context.Context, sessionID string, sink Sink) (Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", t.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("ws: listen %s: %w", t.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:           t.Handler(sessionID, sink),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ws] serve: %v", err)
		}
	}()

	addr := t.AdvertiseAddr
	if addr == "" {
		addr = "ws://" + ln.Addr().String()
	}
	log.Printf("[ws] listening on %s", ln.Addr())
	return &wsListener{srv: srv, addr: addr}, nil
}

// Handler accepts guest channels for sessionID. Listen serves it; it is
// exported so a host can mount it on its own server.
func (t *WebSocketTransport) Handler(sessionID string, sink Sink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("session") != sessionID {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}
		peer := q.Get("peer")
		if peer == "" {
			http.Error(w, "peer id required", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, req, nil)
		if err != nil {
			log.Printf("[ws] accept %s: %v", peer, err)
			return
		}
		conn.SetReadLimit(wsReadLimit)

		ch := newWSChannel(peer, conn, t.writeTimeout(), t.queueSize())
		sink.Opened(ch)

		err = ch.readLoop(req.Context(), sink)
		ch.shutdown()
		_ = conn.CloseNow()
		sink.Closed(ch, ch.closeCause(err))
	})
}

func (t *WebSocketTransport) Dial(ctx context.Context, sessionID, localID string, sink Sink) error {
	if t.Resolver == nil {
		return fmt.Errorf("ws: dial %s: no resolver", sessionID)
	}
	addr, err := t.Resolver.Resolve(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("ws: %w", err)
	}
	target, err := dialURL(addr, sessionID, localID)
	if err != nil {
		return err
	}

	h := &wsClientHandler{
		sink:         sink,
		id:           sessionID,
		writeTimeout: t.writeTimeout(),
		queueSize:    t.queueSize(),
		opened:       make(chan struct{}),
	}
	opts := &websocket.DialOptions{HTTPClient: &http.Client{Timeout: t.DialTimeout}}

	errc := make(chan error, 1)
	go func() {
		errc <- wrapws.NewWebSocketClient(h).Dial(target, opts, h.attach)
	}()

	select {
	case <-h.opened:
		return nil
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("ws: dial %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *WebSocketTransport) writeTimeout() time.Duration {
	if t.WriteTimeout <= 0 {
		return 2 * time.Second
	}
	return t.WriteTimeout
}

func (t *WebSocketTransport) queueSize() int {
	if t.QueueSize <= 0 {
		return defaultMemoryQueue
	}
	return t.QueueSize
}

func dialURL(addr, sessionID, localID string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("ws: bad address %q: %w", addr, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	q := u.Query()
	q.Set("session", sessionID)
	q.Set("peer", localID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type wsListener struct {
	srv  *http.Server
	addr string
}

func (l *wsListener) Addr() string { return l.addr }
func (l *wsListener) Close() error { return l.srv.Close() }

// wsClientHandler adapts the wrapws client callbacks to a Sink.
type wsClientHandler struct {
	sink         Sink
	id           string
	writeTimeout time.Duration
	queueSize    int

	ch      *wsChannel
	lastErr error
	opened  chan struct{}
}

func (h *wsClientHandler) attach(conn *websocket.Conn) {
	conn.SetReadLimit(wsReadLimit)
	h.ch = newWSChannel(h.id, conn, h.writeTimeout, h.queueSize)
}

func (h *wsClientHandler) OnConnect(_ context.Context, _ *websocket.Conn) {
	h.sink.Opened(h.ch)
	close(h.opened)
}

func (h *wsClientHandler) OnMessage(_ context.Context, _ *websocket.Conn, payload []byte) {
	h.sink.Received(h.ch, payload)
}

func (h *wsClientHandler) OnError(_ context.Context, _ *websocket.Conn, err error) {
	h.lastErr = err
}

func (h *wsClientHandler) OnDisconnect(_ context.Context, _ *websocket.Conn, _ error) {
	h.ch.shutdown()
	h.sink.Closed(h.ch, h.ch.closeCause(h.lastErr))
}

// wsChannel writes through a bounded queue drained by its own goroutine, so
// Send never blocks the game tick.
type wsChannel struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan []byte
	done   chan struct{}
	once   sync.Once
	local  atomic.Bool
}

func newWSChannel(id string, conn *websocket.Conn, writeTimeout time.Duration, queueSize int) *wsChannel {
	ch := &wsChannel{
		id:           id,
		conn:         conn,
		writeTimeout: writeTimeout,
		queue:        make(chan []byte, queueSize),
		done:         make(chan struct{}),
	}
	go ch.writeLoop()
	return ch
}

func (c *wsChannel) ID() string { return c.id }

func (c *wsChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	select {
	case c.queue <- payload:
		return nil
	default:
		log.Printf("[ws] send queue to %s full, dropping message", c.id)
		return ErrQueueFull
	}
}

// Close starts a normal close handshake without waiting for it.
func (c *wsChannel) Close() error {
	c.local.Store(true)
	if c.shutdown() {
		go func() { _ = c.conn.Close(websocket.StatusNormalClosure, "") }()
	}
	return nil
}

// shutdown stops the writer. It reports whether this call did it.
func (c *wsChannel) shutdown() bool {
	first := false
	c.once.Do(func() {
		first = true
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
	return first
}

func (c *wsChannel) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.queue:
			ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageBinary, payload)
			cancel()
			if err != nil {
				log.Printf("[ws] write to %s: %v", c.id, err)
				_ = c.conn.CloseNow()
				return
			}
		}
	}
}

func (c *wsChannel) readLoop(ctx context.Context, sink Sink) error {
	for {
		_, payload, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		sink.Received(c, payload)
	}
}

// closeCause maps the error that ended a read loop to the error reported to
// the sink: nil for a local close or a normal close by the peer.
func (c *wsChannel) closeCause(err error) error {
	if c.local.Load() || err == nil {
		return nil
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	return err
}
