package network

import (
	"context"
	"errors"
)

var (
	ErrEmptySessionID  = errors.New("session id is empty")
	ErrNotConnected    = errors.New("not connected")
	ErrHostLost        = errors.New("connection to host lost")
	ErrAlreadyActive   = errors.New("session already active")
	ErrSessionNotFound = errors.New("session not found")
	ErrChannelClosed   = errors.New("channel closed")
	ErrQueueFull       = errors.New("send queue full")
)

// Channel is an open, ordered connection to one peer.
type Channel interface {
	// ID names the peer on the other end. A guest's channel is named after the
	// session id; the host names each channel after the guest's peer id.
	ID() string
	Send(payload []byte) error
	Close() error
}

// Sink receives channel events. Transports call it from their own goroutines,
// so implementations must not block.
type Sink interface {
	Opened(ch Channel)
	Received(ch Channel, payload []byte)
	Closed(ch Channel, err error)
}

// Listener accepts guest channels for one hosted session.
type Listener interface {
	// Addr is the address guests dial, as published to the signaling registry.
	Addr() string
	Close() error
}

// Transport opens channels between peers.
type Transport interface {
	// Listen hosts sessionID until the listener is closed.
	Listen(ctx context.Context, sessionID string, sink Sink) (Listener, error)
	// Dial connects localID to the host of sessionID. It returns once the
	// channel is open and Opened has been delivered, or on failure.
	Dial(ctx context.Context, sessionID, localID string, sink Sink) error
}
