// Package worldgen produces the initial world layout: buildings with walls,
// doors and partitions, plus the interior and outdoor treasures and enemies.
//
// Generation is a pure function of its Config. The same seeded Rand and
// Roller always produce the same world.
package worldgen
