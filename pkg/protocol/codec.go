package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	arenaerrors "github.com/vango-dev/snakearena/internal/errors"
)

// Subprotocol names, also used as codec names.
const (
	CodecJSON    = "arena.json"
	CodecMsgpack = "arena.msgpack"
)

// Codec encodes and decodes envelopes.
type Codec interface {
	// Name is the websocket subprotocol that selects this codec.
	Name() string

	// Binary reports whether frames should be sent as binary messages.
	Binary() bool

	// Encode wraps payload in an envelope for event.
	Encode(event string, payload any) ([]byte, error)

	// DecodeEnvelope splits a frame into event name and raw payload.
	DecodeEnvelope(b []byte) (Envelope, error)
}

// Envelope is a decoded frame whose payload has not been interpreted yet.
type Envelope struct {
	Event   string
	Payload []byte

	unmarshal func([]byte, any) error
}

// Unmarshal decodes the payload into v with the codec that produced the envelope.
func (e Envelope) Unmarshal(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("empty payload for event %q", e.Event)
	}
	if e.unmarshal == nil {
		return json.Unmarshal(e.Payload, v)
	}
	return e.unmarshal(e.Payload, v)
}

// DecodePayload decodes an envelope's payload into a fresh T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	err := env.Unmarshal(&out)
	return out, err
}

// Codecs returns every supported codec, preferred first.
func Codecs() []Codec {
	return []Codec{JSON, Msgpack}
}

// Subprotocols returns the codec names for websocket negotiation.
func Subprotocols() []string {
	cs := Codecs()
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

// CodecByName resolves a subprotocol to its codec. The empty name selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSON, nil
	case CodecMsgpack:
		return Msgpack, nil
	}
	return nil, arenaerrors.New("E104").WithDetailf("codec %q", name)
}

var (
	// JSON is the text codec.
	JSON Codec = jsonCodec{}

	// Msgpack is the binary codec.
	Msgpack Codec = msgpackCodec{}
)

type wireEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecJSON }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, fmt.Errorf("encode: empty event name")
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(wireEnvelope{T: event, P: pb})
}

func (jsonCodec) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, arenaerrors.New("E101").WithDetail("empty frame")
	}
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return Envelope{}, arenaerrors.New("E101").Wrap(err)
	}
	if w.T == "" {
		return Envelope{}, arenaerrors.New("E101").WithDetail("missing event name")
	}
	return Envelope{Event: w.T, Payload: w.P, unmarshal: json.Unmarshal}, nil
}

type msgpackEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return CodecMsgpack }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, fmt.Errorf("encode: empty event name")
	}
	pb, err := msgpackMarshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return msgpackMarshal(msgpackEnvelope{T: event, P: pb})
}

func (msgpackCodec) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, arenaerrors.New("E101").WithDetail("empty frame")
	}
	var w msgpackEnvelope
	if err := msgpackUnmarshal(b, &w); err != nil {
		return Envelope{}, arenaerrors.New("E101").Wrap(err)
	}
	if w.T == "" {
		return Envelope{}, arenaerrors.New("E101").WithDetail("missing event name")
	}
	return Envelope{Event: w.T, Payload: []byte(w.P), unmarshal: msgpackUnmarshal}, nil
}

// msgpackMarshal falls back to json tags so payload types need a single set of tags.
func msgpackMarshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func msgpackUnmarshal(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
