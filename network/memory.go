package network

import (
	"context"
	"fmt"
	"sync"
)

const defaultMemoryQueue = 256

// MemoryNetwork is an in-process Transport. Every session hosted on it is
// reachable by id from every session dialing through it.
type MemoryNetwork struct {
	mu    sync.Mutex
	hosts map[string]Sink
	queue int
}

func NewMemoryNetwork() *MemoryNetwork {
	return &MemoryNetwork{
		hosts: make(map[string]Sink),
		queue: defaultMemoryQueue,
	}
}

func (n *MemoryNetwork) Listen(ctx context.Context, sessionID string, sink Sink) (Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.hosts[sessionID]; ok {
		return nil, fmt.Errorf("memory: session %s: %w", sessionID, ErrAlreadyActive)
	}
	n.hosts[sessionID] = sink
	return &memListener{net: n, sessionID: sessionID, sink: sink}, nil
}

func (n *MemoryNetwork) Dial(ctx context.Context, sessionID, localID string, sink Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	host, ok := n.hosts[sessionID]
	n.mu.Unlock()
	if !ok {
		return fmt.Errorf("memory: dial %s: %w", sessionID, ErrSessionNotFound)
	}

	p := &memPipe{
		toHost:  make(chan []byte, n.queue),
		toGuest: make(chan []byte, n.queue),
	}
	hostSide := &memChannel{id: localID, pipe: p, out: p.toGuest}
	guestSide := &memChannel{id: sessionID, pipe: p, out: p.toHost}

	host.Opened(hostSide)
	sink.Opened(guestSide)
	go pump(p.toHost, host, hostSide)
	go pump(p.toGuest, sink, guestSide)
	return nil
}

type memListener struct {
	net       *MemoryNetwork
	sessionID string
	sink      Sink
}

func (l *memListener) Addr() string { return "memory://" + l.sessionID }

func (l *memListener) Close() error {
	l.net.mu.Lock()
	defer l.net.mu.Unlock()
	if l.net.hosts[l.sessionID] == l.sink {
		delete(l.net.hosts, l.sessionID)
	}
	return nil
}

// memPipe is one bidirectional connection. Closing either end closes both.
type memPipe struct {
	mu      sync.Mutex
	closed  bool
	toHost  chan []byte
	toGuest chan []byte
}

type memChannel struct {
	id   string
	pipe *memPipe
	out  chan []byte
}

func (c *memChannel) ID() string { return c.id }

func (c *memChannel) Send(payload []byte) error {
	c.pipe.mu.Lock()
	defer c.pipe.mu.Unlock()
	if c.pipe.closed {
		return ErrChannelClosed
	}
	select {
	case c.out <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *memChannel) Close() error {
	c.pipe.mu.Lock()
	defer c.pipe.mu.Unlock()
	if !c.pipe.closed {
		c.pipe.closed = true
		close(c.pipe.toHost)
		close(c.pipe.toGuest)
	}
	return nil
}

// pump delivers queued payloads in order, then reports the close.
func pump(in <-chan []byte, sink Sink, ch Channel) {
	for payload := range in {
		sink.Received(ch, payload)
	}
	sink.Closed(ch, nil)
}
