// Package config provides configuration for swapchess engine sessions.
package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

// Default values for a session.
const (
	DefaultEnginePath    = "stockfish"
	DefaultWASMRunner    = "wasmtime"
	DefaultThinkTime     = 2000 * time.Millisecond
	DefaultSearchTimeout = 10 * time.Second
)

// EngineConfig locates the engine binaries.
type EngineConfig struct {
	Path       string // Plain engine executable
	WASMPath   string // WebAssembly engine build (optional)
	WASMRunner string // Runtime used to execute WASMPath
}

// Config holds the settings of one engine session.
type Config struct {
	Engine     EngineConfig
	Difficulty Difficulty

	// Search
	ThinkTime     time.Duration // Passed to "go movetime"
	SearchTimeout time.Duration // 0 = wait as long as the caller's context allows

	// Handshake behaviour
	SkillOverride bool // Send "Skill Level 0" after the tier options
	SearchOnReady bool // Start a search as soon as the engine reports readyok

	// Diagnostics
	LogEngineMetadata bool // Log "id" and "option" lines
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Path:       DefaultEnginePath,
			WASMRunner: DefaultWASMRunner,
		},
		Difficulty:    Intermediate,
		ThinkTime:     DefaultThinkTime,
		SearchTimeout: DefaultSearchTimeout,
		SkillOverride: true,
		SearchOnReady: true,
	}
}

// Clone returns a copy that can be modified independently.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks that the configuration can drive an engine session.
func (c *Config) Validate() error {
	if c.Engine.Path == "" && c.Engine.WASMPath == "" {
		return fmt.Errorf("no engine path: %w", errors.ErrInvalidConfig)
	}
	if c.Engine.WASMPath != "" && c.Engine.WASMRunner == "" {
		return fmt.Errorf("wasm engine %s has no runner: %w", c.Engine.WASMPath, errors.ErrInvalidConfig)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("difficulty %d: %w", int(c.Difficulty), errors.ErrInvalidConfig)
	}
	if c.ThinkTime < time.Millisecond {
		return fmt.Errorf("think time %v below 1ms: %w", c.ThinkTime, errors.ErrInvalidConfig)
	}
	if c.SearchTimeout < 0 {
		return fmt.Errorf("negative search timeout %v: %w", c.SearchTimeout, errors.ErrInvalidConfig)
	}
	if c.SearchTimeout > 0 && c.SearchTimeout < c.ThinkTime {
		return fmt.Errorf("search timeout %v shorter than think time %v: %w",
			c.SearchTimeout, c.ThinkTime, errors.ErrInvalidConfig)
	}
	return nil
}
