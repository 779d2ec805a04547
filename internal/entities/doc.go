// Package entities holds the plain data records of the shared world: players,
// treasures, enemies, buildings and their walls, and the per-player
// visibility snapshot. Records carry no behavior beyond small accessors; the
// world state owns every mutable record.
package entities
