// Package messages defines every message that crosses the wire between peers.
//
// Message is a closed set: only types in this package implement it, and each
// one dispatches itself to the matching Handler method. Adding a new kind
// means adding a Handler method, which breaks every handler until it copes
// with the new message.
package messages

// Kind is the wire tag of a message.
type Kind string

const (
	KindHostConfirm        Kind = "host-confirm"
	KindGameState          Kind = "game-state"
	KindPlayerUpdate       Kind = "player-update"
	KindPlayerJoin         Kind = "player-join"
	KindPlayerDisconnected Kind = "player-disconnected"
	KindHit                Kind = "hit"
	KindChatMessage        Kind = "chat-message"
)

// Kinds lists every known tag.
var Kinds = []Kind{
	KindHostConfirm,
	KindGameState,
	KindPlayerUpdate,
	KindPlayerJoin,
	KindPlayerDisconnected,
	KindHit,
	KindChatMessage,
}

// Message is a decoded wire message.
type Message interface {
	Kind() Kind
	// Accept dispatches the message to the handler method for its kind.
	// from is the id of the channel it arrived on.
	Accept(from string, h Handler)
	sealed()
}

// Handler receives one callback per message kind.
type Handler interface {
	HandleHostConfirm(from string, m HostConfirm)
	HandleGameState(from string, m GameState)
	HandlePlayerUpdate(from string, m PlayerUpdate)
	HandlePlayerJoin(from string, m PlayerJoin)
	HandlePlayerDisconnected(from string, m PlayerDisconnected)
	HandleHit(from string, m Hit)
	HandleChatMessage(from string, m ChatMessage)
}
