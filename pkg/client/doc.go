// Package client is the player side of the arena.
//
// A Client owns three pieces and touches them from a single goroutine:
//
//   - Mirror: the last food pool and player list the server broadcast, minus self.
//   - Sim: the locally predicted snake. It ticks on a fixed interval, clamps to the world,
//     grows on a food hit and reports the hit to the server. The server never corrects it.
//   - Camera: centres an 800x600 viewport on the local head and projects everything into
//     a Frame for a view to draw.
//
// Score is optimistic. When two players hit the same food in the same instant both score
// locally while the server consumes the item once.
package client
