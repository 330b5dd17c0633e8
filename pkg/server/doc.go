// Package server runs the authoritative side of the arena.
//
// # Architecture
//
//   - Hub: the single dispatcher. It owns the world.Store and world.FoodManager and
//     processes one command at a time from its inbox, so handlers never interleave.
//   - Session: one websocket connection with a fresh uuid identity, a negotiated codec,
//     a ReadLoop that posts decoded messages to the hub, and a WriteLoop that drains a
//     bounded send queue and sends heartbeat pings.
//   - Outbox: the broadcast capability handed to handlers. The hub's implementation
//     encodes each message once per codec and never blocks on network I/O; a session
//     whose queue is full is closed, which the hub later sees as a disconnect.
//   - Server: chi router serving /ws, /healthz, /api/status and /metrics.
//
// # Message handling
//
//   - playerJoined: create the record, send welcome and initFood to the joiner, then
//     activePlayers to everyone.
//   - foodEaten: consume and replenish, then updateFood to everyone. A claim on food that
//     is already gone is dropped without a broadcast.
//   - updateMovement: replace the stored snake, then activePlayers to everyone.
//   - disconnect: remove the record, then activePlayers to the remaining connections.
//
// Reports from a connection with no player record are orphans and are dropped.
//
// # Observability
//
// Metrics are registered under the "arena" namespace on the configured registry. Each
// inbound message runs inside an OpenTelemetry span named arena.<event>.
package server
