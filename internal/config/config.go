// Package config loads the server's YAML configuration. A file only needs to
// name the values it changes; everything else keeps its default.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/orchestrators/game"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/logger"
	"github.com/KirkDiggler/treasure-realm/internal/visibility"
	"github.com/KirkDiggler/treasure-realm/internal/world"
	"github.com/KirkDiggler/treasure-realm/internal/worldgen"
)

// Default server settings
const (
	DefaultWorldID         = "world_1"
	DefaultGRPCPort        = 50051
	DefaultWSAddr          = ":8080"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultJournalDir      = "data/journal"
	DefaultJournalPrefix   = "actions"
)

// Config is the complete server configuration
type Config struct {
	World      World         `yaml:"world"`
	Visibility Visibility    `yaml:"visibility"`
	Combat     game.Rules    `yaml:"combat"`
	Server     Server        `yaml:"server"`
	Redis      Redis         `yaml:"redis"`
	Journal    Journal       `yaml:"journal"`
	Log        logger.Config `yaml:"log"`
}

// World describes the generated world and how players enter it
type World struct {
	ID string `yaml:"id"`
	// Seed makes generation reproducible. Zero picks a random seed.
	Seed        int64             `yaml:"seed"`
	Spawn       geometry.Point    `yaml:"spawn"`
	PlayerMaxHP int               `yaml:"player_max_hp"`
	Generator   worldgen.Settings `yaml:"generator"`
}

// Visibility tunes the area-of-interest rules
type Visibility struct {
	ViewRadius           float64 `yaml:"view_radius"`
	BuildingRevealMargin float64 `yaml:"building_reveal_margin"`
}

// Server holds the listener settings
type Server struct {
	GRPCPort        int           `yaml:"grpc_port"`
	WSAddr          string        `yaml:"ws_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Redis configures the scoreboard store. An empty Addr keeps scores in memory.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Journal configures the compressed action journal
type Journal struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		World: World{
			ID:          DefaultWorldID,
			Spawn:       world.DefaultSpawn,
			PlayerMaxHP: world.DefaultPlayerMaxHP,
			Generator:   worldgen.DefaultSettings(),
		},
		Visibility: Visibility{
			ViewRadius:           visibility.DefaultViewRadius,
			BuildingRevealMargin: visibility.DefaultBuildingRevealMargin,
		},
		Combat: game.DefaultRules(),
		Server: Server{
			GRPCPort:        DefaultGRPCPort,
			WSAddr:          DefaultWSAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Journal: Journal{
			Dir:    DefaultJournalDir,
			Prefix: DefaultJournalPrefix,
		},
		Log: logger.Config{
			Level:  "info",
			Format: logger.FormatText,
		},
	}
}

// Load reads path and overlays it on the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNotFound, "failed to read config file")
	}
	if err := Parse(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML onto cfg. Keys absent from raw keep their current value.
func Parse(raw []byte, cfg *Config) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid yaml")
	}
	return nil
}

// Marshal renders cfg as YAML
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode config")
	}
	return out, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("world.id", c.World.ID, vb)
	errors.ValidatePositive("world.player_max_hp", float64(c.World.PlayerMaxHP), vb)
	bounds := geometry.Rect{Width: c.World.Generator.Width, Height: c.World.Generator.Height}
	if !geometry.PointInRect(c.World.Spawn, bounds) {
		vb.Fieldf("world.spawn", "(%v, %v) is outside the map", c.World.Spawn.X, c.World.Spawn.Y)
	}

	errors.ValidatePositive("visibility.view_radius", c.Visibility.ViewRadius, vb)
	errors.ValidateNonNegative("visibility.building_reveal_margin", c.Visibility.BuildingRevealMargin, vb)

	if c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535 {
		vb.Fieldf("server.grpc_port", "must be a valid port, got %d", c.Server.GRPCPort)
	}
	errors.ValidateRequired("server.ws_addr", c.Server.WSAddr, vb)
	errors.ValidatePositive("server.shutdown_timeout", c.Server.ShutdownTimeout.Seconds(), vb)

	errors.ValidateNonNegative("redis.db", float64(c.Redis.DB), vb)

	if c.Journal.Enabled {
		errors.ValidateRequired("journal.dir", c.Journal.Dir, vb)
		errors.ValidateRequired("journal.prefix", c.Journal.Prefix, vb)
	}

	if c.Log.Format != "" {
		errors.ValidateEnum("log.format", c.Log.Format, []string{logger.FormatText, logger.FormatJSON}, vb)
	}

	if err := vb.Build(); err != nil {
		return err
	}

	if err := c.World.Generator.Validate(); err != nil {
		return errors.Wrap(err, "world.generator")
	}
	if err := c.Combat.Validate(); err != nil {
		return errors.Wrap(err, "combat")
	}
	return nil
}
