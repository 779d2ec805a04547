package main

import (
	"math/rand"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/treasure-realm/internal/config"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/world"
	"github.com/KirkDiggler/treasure-realm/internal/worldgen"
)

// generateWorld runs the generator for cfg. A zero seed draws one from the
// clock and rolls chances with the toolkit's default roller; a fixed seed
// drives every roll from the same source so the layout is reproducible.
func generateWorld(cfg *config.Config, log logrus.FieldLogger) (*worldgen.Result, int64, error) {
	seed := cfg.World.Seed
	rng := rand.New(rand.NewSource(seed))

	var roller dice.Roller = worldgen.NewSeededRoller(rng)
	if seed == 0 {
		seed = time.Now().UnixNano()
		rng = rand.New(rand.NewSource(seed))
		roller = dice.DefaultRoller
	}

	result, err := worldgen.Generate(&worldgen.Config{
		Settings: cfg.World.Generator,
		Rand:     rng,
		Roller:   roller,
		Logger:   log.WithField("seed", seed),
	})
	if err != nil {
		return nil, seed, errors.Wrap(err, "failed to generate world")
	}
	return result, seed, nil
}

// buildWorld generates the layout and loads it into a fresh world state
func buildWorld(cfg *config.Config, log logrus.FieldLogger) (*world.State, error) {
	result, _, err := generateWorld(cfg, log)
	if err != nil {
		return nil, err
	}

	spawn := cfg.World.Spawn
	state, err := world.New(&world.Config{
		Width:       cfg.World.Generator.Width,
		Height:      cfg.World.Generator.Height,
		Buildings:   result.Buildings,
		Treasures:   result.Treasures(),
		Enemies:     result.Enemies(),
		Spawn:       &spawn,
		PlayerMaxHP: cfg.World.PlayerMaxHP,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create world state")
	}
	return state, nil
}
