// Package protocol defines the game channel's wire format.
//
// Every websocket message carries one envelope naming an event and holding its payload:
//
//	{"t": "foodEaten", "p": "k3j9x0a2b"}
//
// # Events
//
// Client to server:
//   - playerJoined(name string)
//   - foodEaten(foodId string)
//   - updateMovement(snake []Position)
//
// Server to client:
//   - welcome({"id": identity}), to the joiner only
//   - initFood([]FoodItem), to the joiner only
//   - updateFood([]FoodItem), to everyone after a successful consumption
//   - activePlayers([]PlayerRecord), to everyone after join, leave, or movement
//
// # Codecs
//
// Two codecs are negotiated through the websocket subprotocol header. arena.json sends
// text frames and is the default; arena.msgpack sends the same envelope as MessagePack in
// binary frames. Payload field names are identical in both.
//
// # Decoding
//
// DecodeInbound and DecodeOutbound turn an Envelope into one of a closed set of Message
// variants, so handlers switch on Go types rather than event strings.
package protocol
