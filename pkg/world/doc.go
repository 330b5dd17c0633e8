// Package world holds the shared arena state: players, their snakes, and the food pool.
//
// The package is transport agnostic. The server owns one Store and one FoodManager and
// mutates them from its dispatch loop; clients use the geometry helpers (Bounds, Velocity,
// FindEaten) to run their local prediction with the same rules the server assumes.
//
// # Food
//
// The FoodManager keeps the pool at exactly Config.FoodCount items. A consumption claim for
// an id that is no longer present is a stale claim and is ignored without replenishment, so
// two players racing for the same item remove it once.
//
// # Players
//
// The Store keys PlayerRecords by connection identity. Snakes are replaced wholesale by
// movement reports and are never validated.
package world
