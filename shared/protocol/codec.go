// Package protocol encodes and decodes wire messages. Every message travels in
// an envelope carrying its kind tag and the kind-specific payload.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automoto/peerfire/shared/messages"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

// ErrUnknownKind is returned when an envelope carries a tag no message type is
// registered for. Callers drop such messages.
var ErrUnknownKind = errors.New("protocol: unknown message kind")

// Codec converts messages to and from bytes.
type Codec interface {
	Name() string
	Encode(m messages.Message) ([]byte, error)
	Decode(data []byte) (messages.Message, error)
}

// ByName returns the codec registered under name ("json" or "msgpack").
func ByName(name string) (Codec, error) {
	switch name {
	case "", JSON.Name():
		return JSON, nil
	case Msgpack.Name():
		return Msgpack, nil
	}
	return nil, fmt.Errorf("protocol: unknown codec %q", name)
}

func decodePayload(kind messages.Kind, payload []byte, unmarshal func([]byte, any) error) (messages.Message, error) {
	decode, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	m, err := decode(payload, unmarshal)
	if err != nil {
		return nil, fmt.Errorf("protocol: decode %s: %w", kind, err)
	}
	return m, nil
}

// JSON is the default codec: {"type": <tag>, "payload": {...}}.
var JSON Codec = jsonCodec{}

type jsonEnvelope struct {
	Type    messages.Kind   `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(m messages.Message) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", m.Kind(), err)
	}
	return json.Marshal(jsonEnvelope{Type: m.Kind(), Payload: payload})
}

func (jsonCodec) Decode(data []byte) (messages.Message, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return decodePayload(env.Type, env.Payload, json.Unmarshal)
}

// Msgpack is the compact binary codec. The envelope has the same shape as the
// JSON one with the payload carried as nested msgpack bytes.
var Msgpack Codec = newMsgpackCodec()

type msgpackEnvelope struct {
	Type    string `codec:"type"`
	Payload []byte `codec:"payload"`
}

type msgpackCodec struct {
	handle *codec.MsgpackHandle
}

func newMsgpackCodec() msgpackCodec {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.RawToString = true
	return msgpackCodec{handle: h}
}

func (msgpackCodec) Name() string { return "msgpack" }

func (c msgpackCodec) marshal(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func (c msgpackCodec) unmarshal(data []byte, v any) error {
	return codec.NewDecoderBytes(data, c.handle).Decode(v)
}

func (c msgpackCodec) Encode(m messages.Message) ([]byte, error) {
	payload, err := c.marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", m.Kind(), err)
	}
	return c.marshal(msgpackEnvelope{Type: string(m.Kind()), Payload: payload})
}

func (c msgpackCodec) Decode(data []byte) (messages.Message, error) {
	var env msgpackEnvelope
	if err := c.unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return decodePayload(messages.Kind(env.Type), env.Payload, c.unmarshal)
}
