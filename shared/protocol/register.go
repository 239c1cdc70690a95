package protocol

import (
	"github.com/automoto/peerfire/shared/messages"
)

// decodeFn turns a raw payload into a typed message using the codec's own
// unmarshal function.
type decodeFn func(payload []byte, unmarshal func([]byte, any) error) (messages.Message, error)

var decoders = map[messages.Kind]decodeFn{}

// register binds a message kind to its concrete payload type. Every kind in
// messages.Kinds must be registered here.
func register[T messages.Message]() {
	var zero T
	decoders[zero.Kind()] = func(payload []byte, unmarshal func([]byte, any) error) (messages.Message, error) {
		var m T
		if err := unmarshal(payload, &m); err != nil {
			return nil, err
		}
		return m, nil
	}
}

func init() {
	register[messages.HostConfirm]()
	register[messages.GameState]()
	register[messages.PlayerUpdate]()
	register[messages.PlayerJoin]()
	register[messages.PlayerDisconnected]()
	register[messages.Hit]()
	register[messages.ChatMessage]()
}
