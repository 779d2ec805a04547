package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/logger"
)

var (
	generateFormat string
	printConfig    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a world and print its layout",
	Long: `Run the world generator with the configured settings and print the
buildings, treasures and enemies it places. With --print-config the effective
configuration is printed instead, which is a starting point for a config file.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "world generation seed (overrides config)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "json", "output format: json or yaml")
	generateCmd.Flags().BoolVar(&printConfig, "print-config", false, "print the effective config as YAML and exit")
}

type layout struct {
	Seed      int64                `json:"seed" yaml:"seed"`
	Width     float64              `json:"width" yaml:"width"`
	Height    float64              `json:"height" yaml:"height"`
	Buildings []*entities.Building `json:"buildings" yaml:"buildings"`
	Treasures []*entities.Treasure `json:"treasures" yaml:"treasures"`
	Enemies   []*entities.Enemy    `json:"enemies" yaml:"enemies"`
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if printConfig {
		out, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	// Keep stdout clean for the layout
	logCfg := cfg.Log
	logCfg.Output = os.Stderr
	log := logger.New(logCfg)

	result, usedSeed, err := generateWorld(cfg, log)
	if err != nil {
		return err
	}

	doc := layout{
		Seed:      usedSeed,
		Width:     cfg.World.Generator.Width,
		Height:    cfg.World.Generator.Height,
		Buildings: result.Buildings,
		Treasures: result.Treasures(),
		Enemies:   result.Enemies(),
	}

	switch generateFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q", generateFormat)
	}
}
