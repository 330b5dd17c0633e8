package protocol

import (
	"math"

	arenaerrors "github.com/vango-dev/snakearena/internal/errors"
	"github.com/vango-dev/snakearena/pkg/world"
)

// Event names.
const (
	EventPlayerJoined   = "playerJoined"
	EventFoodEaten      = "foodEaten"
	EventUpdateMovement = "updateMovement"

	EventWelcome       = "welcome"
	EventInitFood      = "initFood"
	EventUpdateFood    = "updateFood"
	EventActivePlayers = "activePlayers"
)

// Message is one of the variants below.
type Message interface {
	Event() string
	Payload() any
}

// PlayerJoined registers the sender under a display name.
type PlayerJoined struct {
	Name string
}

// FoodEaten claims consumption of a food item.
type FoodEaten struct {
	FoodID string
}

// UpdateMovement reports the sender's whole snake.
type UpdateMovement struct {
	Snake world.Snake
}

// Welcome tells a joiner its connection identity.
type Welcome struct {
	ID string `json:"id"`
}

// InitFood is the food pool sent to a joiner.
type InitFood struct {
	Food []world.FoodItem
}

// UpdateFood replaces every client's food pool.
type UpdateFood struct {
	Food []world.FoodItem
}

// ActivePlayers replaces every client's view of the player list.
type ActivePlayers struct {
	Players []world.PlayerRecord
}

func (m PlayerJoined) Event() string   { return EventPlayerJoined }
func (m FoodEaten) Event() string      { return EventFoodEaten }
func (m UpdateMovement) Event() string { return EventUpdateMovement }
func (m Welcome) Event() string        { return EventWelcome }
func (m InitFood) Event() string       { return EventInitFood }
func (m UpdateFood) Event() string     { return EventUpdateFood }
func (m ActivePlayers) Event() string  { return EventActivePlayers }

func (m PlayerJoined) Payload() any   { return m.Name }
func (m FoodEaten) Payload() any      { return m.FoodID }
func (m UpdateMovement) Payload() any { return nonNilSnake(m.Snake) }
func (m Welcome) Payload() any        { return m }
func (m InitFood) Payload() any       { return nonNilFood(m.Food) }
func (m UpdateFood) Payload() any     { return nonNilFood(m.Food) }
func (m ActivePlayers) Payload() any  { return nonNilPlayers(m.Players) }

// Encode encodes msg with codec.
func Encode(codec Codec, msg Message) ([]byte, error) {
	return codec.Encode(msg.Event(), msg.Payload())
}

// DecodeInbound decodes a client to server envelope.
func DecodeInbound(env Envelope) (Message, error) {
	switch env.Event {
	case EventPlayerJoined:
		name, err := DecodePayload[string](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		return PlayerJoined{Name: name}, nil

	case EventFoodEaten:
		id, err := DecodePayload[string](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		return FoodEaten{FoodID: id}, nil

	case EventUpdateMovement:
		snake, err := DecodePayload[world.Snake](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		if i, ok := firstNonFinite(snake); ok {
			return nil, arenaerrors.New("E103").
				WithDetailf("event %q: segment %d is not a finite position", env.Event, i)
		}
		return UpdateMovement{Snake: snake}, nil
	}
	return nil, arenaerrors.New("E102").WithDetailf("inbound event %q", env.Event)
}

// DecodeOutbound decodes a server to client envelope.
func DecodeOutbound(env Envelope) (Message, error) {
	switch env.Event {
	case EventWelcome:
		w, err := DecodePayload[Welcome](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		return w, nil

	case EventInitFood:
		food, err := DecodePayload[[]world.FoodItem](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		return InitFood{Food: food}, nil

	case EventUpdateFood:
		food, err := DecodePayload[[]world.FoodItem](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		return UpdateFood{Food: food}, nil

	case EventActivePlayers:
		players, err := DecodePayload[[]world.PlayerRecord](env)
		if err != nil {
			return nil, badPayload(env, err)
		}
		return ActivePlayers{Players: players}, nil
	}
	return nil, arenaerrors.New("E102").WithDetailf("outbound event %q", env.Event)
}

// firstNonFinite returns the index of the first segment with a NaN or infinite coordinate.
// JSON cannot carry such values, so they would poison every later broadcast.
func firstNonFinite(snake world.Snake) (int, bool) {
	for i, p := range snake {
		if !finite(p.X) || !finite(p.Y) {
			return i, true
		}
	}
	return 0, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func badPayload(env Envelope, err error) error {
	return arenaerrors.New("E103").WithDetailf("event %q", env.Event).Wrap(err)
}

// Empty lists go out as [] rather than null.

func nonNilFood(f []world.FoodItem) []world.FoodItem {
	if f == nil {
		return []world.FoodItem{}
	}
	return f
}

func nonNilPlayers(p []world.PlayerRecord) []world.PlayerRecord {
	if p == nil {
		return []world.PlayerRecord{}
	}
	return p
}

func nonNilSnake(s world.Snake) world.Snake {
	if s == nil {
		return world.Snake{}
	}
	return s
}
