package network

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/peerfire/shared/messages"
	"github.com/automoto/peerfire/shared/netconfig"
	"github.com/automoto/peerfire/shared/protocol"
)

const (
	sessionIDLength   = 8
	sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewSessionID returns a random 8 character base36 id.
func NewSessionID() (string, error) {
	base := big.NewInt(int64(len(sessionIDAlphabet)))
	b := make([]byte, sessionIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("session id: %w", err)
		}
		b[i] = sessionIDAlphabet[n.Int64()]
	}
	return string(b), nil
}

// Handler is the game side of a session. Every method runs inside Poll.
type Handler interface {
	messages.Handler

	// GameState returns every known player. The host sends it to each guest
	// as its channel opens.
	GameState() messages.GameState
	// LocalSnapshot returns the local player, announced to the host on join.
	LocalSnapshot() (messages.Snapshot, bool)
	// Joined is called on a guest once its channel to the host is open.
	Joined(sessionID string)
	// PeerLeft is called on the host when a guest's channel closes, after
	// the remaining guests were told.
	PeerLeft(playerID string)
	// SessionFailed is called on a guest whose dial failed or whose host went
	// away. The session is already back to Disconnected.
	SessionFailed(err error)
}

// Options configure a Session.
type Options struct {
	Codec protocol.Codec

	// Registrar, when set, publishes hosted sessions to a signaling registry.
	Registrar Registrar
	HostName  string
	Heartbeat time.Duration
}

type eventKind int

const (
	eventOpened eventKind = iota
	eventData
	eventClosed
	eventDialFailed
)

type event struct {
	kind    eventKind
	gen     uint64
	ch      Channel
	payload []byte
	err     error
}

// Session is one peer's side of a star-shaped game session: the host holds a
// channel per guest and relays between them; a guest holds one channel to
// the host.
//
// Transport goroutines only queue events. Poll drains the queue on the
// caller's goroutine, so handlers never run concurrently with the game tick.
// Host, Join, Close, Broadcast and Send must be called from that goroutine
// too.
type Session struct {
	localID   string
	transport Transport
	codec     protocol.Codec
	handler   Handler
	opts      Options

	mu        sync.Mutex
	inbox     []event
	gen       uint64
	state     netconfig.SessionState
	role      netconfig.Role
	sessionID string
	lastErr   error

	hostChannel string
	channels    map[string]Channel
	players     map[string]string // channel id -> player id, host only
	listener    Listener
	cancel      context.CancelFunc
	peerCount   atomic.Int32
}

func NewSession(localID string, transport Transport, handler Handler, opts Options) *Session {
	if opts.Codec == nil {
		opts.Codec = protocol.JSON
	}
	return &Session{
		localID:   localID,
		transport: transport,
		codec:     opts.Codec,
		handler:   handler,
		opts:      opts,
		channels:  make(map[string]Channel),
		players:   make(map[string]string),
	}
}

// sink tags events with the generation of the Host or Join call that opened
// the channel, so events from a closed session are ignored.
type sink struct {
	s   *Session
	gen uint64
}

func (k sink) Opened(ch Channel) {
	k.s.push(event{kind: eventOpened, gen: k.gen, ch: ch})
}

func (k sink) Received(ch Channel, payload []byte) {
	k.s.push(event{kind: eventData, gen: k.gen, ch: ch, payload: payload})
}

func (k sink) Closed(ch Channel, err error) {
	k.s.push(event{kind: eventClosed, gen: k.gen, ch: ch, err: err})
}

func (s *Session) push(ev event) {
	s.mu.Lock()
	s.inbox = append(s.inbox, ev)
	s.mu.Unlock()
}

func (s *Session) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Session) begin(role netconfig.Role, state netconfig.SessionState, id string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != netconfig.SessionDisconnected {
		return 0, ErrAlreadyActive
	}
	s.gen++
	s.inbox = nil
	s.role = role
	s.state = state
	s.sessionID = id
	s.lastErr = nil
	return s.gen, nil
}

func (s *Session) setState(state netconfig.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Host starts hosting a new session and returns its id.
func (s *Session) Host(ctx context.Context) (string, error) {
	id, err := NewSessionID()
	if err != nil {
		return "", err
	}
	gen, err := s.begin(netconfig.RoleHost, netconfig.SessionConnecting, id)
	if err != nil {
		return "", err
	}

	ln, err := s.transport.Listen(ctx, id, sink{s, gen})
	if err != nil {
		s.reset(err)
		return "", fmt.Errorf("session: listen: %w", err)
	}
	s.listener = ln
	s.peerCount.Store(1)
	s.setState(netconfig.SessionHost)
	log.Printf("[session] hosting %s at %s", id, ln.Addr())

	if s.opts.Registrar != nil {
		rctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.register(rctx, Registration{
			SessionID: id,
			Address:   ln.Addr(),
			HostName:  s.opts.HostName,
		})
	}
	return id, nil
}

// Join connects to the host of sessionID in the background. Poll reports the
// outcome through Handler.Joined or Handler.SessionFailed.
func (s *Session) Join(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	gen, err := s.begin(netconfig.RoleGuest, netconfig.SessionConnecting, sessionID)
	if err != nil {
		return err
	}

	dctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go func() {
		if err := s.transport.Dial(dctx, sessionID, s.localID, sink{s, gen}); err != nil {
			s.push(event{kind: eventDialFailed, gen: gen, err: err})
		}
	}()
	log.Printf("[session] joining %s", sessionID)
	return nil
}

// Close leaves the session: every channel is closed, hosting stops and
// queued events are dropped. The session can host or join again afterwards.
func (s *Session) Close() error {
	wasActive := s.State() != netconfig.SessionDisconnected
	s.reset(nil)
	if wasActive {
		log.Printf("[session] closed")
	}
	return nil
}

// reset tears down channels and the listener and returns to Disconnected.
// Events still queued for the old channels are dropped.
func (s *Session) reset(cause error) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for id, ch := range s.channels {
		_ = ch.Close()
		delete(s.channels, id)
	}
	clear(s.players)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	s.hostChannel = ""
	s.peerCount.Store(0)

	s.mu.Lock()
	s.gen++
	s.inbox = nil
	s.state = netconfig.SessionDisconnected
	s.role = netconfig.RoleUnset
	s.sessionID = ""
	if cause != nil {
		s.lastErr = cause
	}
	s.mu.Unlock()
}

// Poll handles every queued transport event in arrival order and returns how
// many it took.
func (s *Session) Poll() int {
	s.mu.Lock()
	events := s.inbox
	s.inbox = nil
	s.mu.Unlock()

	for _, ev := range events {
		// A handler may have closed the session mid-batch.
		if ev.gen != s.generation() {
			if ev.kind == eventOpened {
				_ = ev.ch.Close()
			}
			continue
		}
		switch ev.kind {
		case eventOpened:
			s.opened(ev.ch)
		case eventData:
			s.received(ev.ch, ev.payload)
		case eventClosed:
			s.closed(ev.ch, ev.err)
		case eventDialFailed:
			s.dialFailed(ev.err)
		}
	}
	return len(events)
}

func (s *Session) opened(ch Channel) {
	if old, ok := s.channels[ch.ID()]; ok && old != ch {
		_ = old.Close()
	}
	s.channels[ch.ID()] = ch

	switch s.Role() {
	case netconfig.RoleHost:
		s.peerCount.Store(int32(len(s.channels) + 1))
		log.Printf("[host] peer %s connected", ch.ID())
		s.sendTo(ch, messages.HostConfirm{SessionID: s.SessionID()})
		s.sendTo(ch, s.handler.GameState())

	case netconfig.RoleGuest:
		s.hostChannel = ch.ID()
		s.setState(netconfig.SessionGuest)
		log.Printf("[session] connected to host of %s", s.SessionID())
		if snap, ok := s.handler.LocalSnapshot(); ok {
			s.sendTo(ch, messages.PlayerJoin{Player: snap})
		}
		s.handler.Joined(s.SessionID())
	}
}

func (s *Session) received(ch Channel, payload []byte) {
	if s.channels[ch.ID()] != ch {
		return
	}
	msg, err := s.codec.Decode(payload)
	if err != nil {
		if !errors.Is(err, protocol.ErrUnknownKind) {
			log.Printf("[session] dropped message from %s: %v", ch.ID(), err)
		}
		return
	}

	if s.Role() == netconfig.RoleHost {
		switch m := msg.(type) {
		case messages.PlayerJoin:
			s.players[ch.ID()] = m.Player.ID
			s.relay(ch.ID(), payload)
		case messages.PlayerUpdate, messages.ChatMessage:
			s.relay(ch.ID(), payload)
		}
	}
	msg.Accept(ch.ID(), s.handler)
}

// relay forwards an already encoded payload to every guest but one.
func (s *Session) relay(except string, payload []byte) {
	for id, ch := range s.channels {
		if id == except {
			continue
		}
		if err := ch.Send(payload); err != nil {
			log.Printf("[host] relay to %s failed: %v", id, err)
		}
	}
}

func (s *Session) closed(ch Channel, err error) {
	id := ch.ID()
	if s.channels[id] != ch {
		return
	}
	delete(s.channels, id)

	switch s.Role() {
	case netconfig.RoleHost:
		playerID, ok := s.players[id]
		if !ok {
			playerID = id
		}
		delete(s.players, id)
		s.peerCount.Store(int32(len(s.channels) + 1))
		log.Printf("[host] peer %s disconnected", id)
		if err := s.Broadcast(messages.PlayerDisconnected{PlayerID: playerID}); err != nil {
			log.Printf("[host] announce disconnect of %s: %v", playerID, err)
		}
		s.handler.PeerLeft(playerID)

	case netconfig.RoleGuest:
		if err != nil {
			log.Printf("[session] lost host: %v", err)
		} else {
			log.Printf("[session] lost host")
		}
		s.reset(ErrHostLost)
		s.handler.SessionFailed(ErrHostLost)
	}
}

func (s *Session) dialFailed(err error) {
	err = fmt.Errorf("session: join %s: %w", s.SessionID(), err)
	log.Printf("[session] %v", err)
	s.reset(err)
	s.handler.SessionFailed(err)
}

func (s *Session) sendTo(ch Channel, msg messages.Message) {
	payload, err := s.codec.Encode(msg)
	if err != nil {
		log.Printf("[session] encode %s: %v", msg.Kind(), err)
		return
	}
	if err := ch.Send(payload); err != nil {
		log.Printf("[session] send %s to %s: %v", msg.Kind(), ch.ID(), err)
	}
}

// Broadcast sends msg to every open channel.
func (s *Session) Broadcast(msg messages.Message) error {
	return s.BroadcastExcept(msg)
}

// BroadcastExcept sends msg to every open channel not named in exclude.
func (s *Session) BroadcastExcept(msg messages.Message, exclude ...string) error {
	if !s.State().Active() {
		return ErrNotConnected
	}
	payload, err := s.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", msg.Kind(), err)
	}

	var errs []error
	for id, ch := range s.channels {
		if slices.Contains(exclude, id) {
			continue
		}
		if err := ch.Send(payload); err != nil {
			errs = append(errs, fmt.Errorf("send %s to %s: %w", msg.Kind(), id, err))
		}
	}
	return errors.Join(errs...)
}

// Send delivers msg on the channel named peerID.
func (s *Session) Send(peerID string, msg messages.Message) error {
	ch, ok := s.channels[peerID]
	if !ok || !s.State().Active() {
		return ErrNotConnected
	}
	payload, err := s.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", msg.Kind(), err)
	}
	return ch.Send(payload)
}

// SendToHost delivers msg to the host. It fails unless this session is a
// connected guest.
func (s *Session) SendToHost(msg messages.Message) error {
	if s.Role() != netconfig.RoleGuest || s.hostChannel == "" {
		return ErrNotConnected
	}
	return s.Send(s.hostChannel, msg)
}

// PlayerFor returns the player announced on a guest channel.
func (s *Session) PlayerFor(channelID string) (string, bool) {
	id, ok := s.players[channelID]
	return id, ok
}

func (s *Session) State() netconfig.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Role() netconfig.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Session) LocalID() string { return s.localID }

// Addr returns the address guests dial while hosting.
func (s *Session) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr()
}

func (s *Session) IsHost() bool { return s.Role() == netconfig.RoleHost }

// LastError returns the error that last ended the session, if any.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Peers returns the ids of every open channel, sorted.
func (s *Session) Peers() []string {
	ids := make([]string, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// register publishes the hosted session and keeps it alive until ctx ends.
func (s *Session) register(ctx context.Context, reg Registration) {
	interval := s.opts.Heartbeat
	if interval <= 0 {
		interval = 10 * time.Second
	}

	reg.Players = int(s.peerCount.Load())
	if err := s.opts.Registrar.Register(ctx, reg); err != nil {
		log.Printf("[signal] register %s: %v", reg.SessionID, err)
	} else {
		log.Printf("[signal] registered %s at %s", reg.SessionID, reg.Address)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := s.opts.Registrar.Unregister(uctx, reg.SessionID); err != nil {
				log.Printf("[signal] unregister %s: %v", reg.SessionID, err)
			}
			cancel()
			return
		case <-ticker.C:
			players := int(s.peerCount.Load())
			if err := s.opts.Registrar.Heartbeat(ctx, reg.SessionID, players); err != nil {
				if !errors.Is(err, ErrSessionNotFound) {
					log.Printf("[signal] heartbeat %s: %v", reg.SessionID, err)
					continue
				}
				// Expired on the registry side; publish it again.
				reg.Players = players
				if err := s.opts.Registrar.Register(ctx, reg); err != nil {
					log.Printf("[signal] re-register %s: %v", reg.SessionID, err)
				}
			}
		}
	}
}
