package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithEnginePath sets the plain engine executable.
func (b *ConfigBuilder) WithEnginePath(path string) *ConfigBuilder {
	b.cfg.Engine.Path = path
	return b
}

// WithWASMEngine sets the WebAssembly engine build and its runner.
func (b *ConfigBuilder) WithWASMEngine(path, runner string) *ConfigBuilder {
	b.cfg.Engine.WASMPath = path
	if runner != "" {
		b.cfg.Engine.WASMRunner = runner
	}
	return b
}

// WithDifficulty sets the strength tier.
func (b *ConfigBuilder) WithDifficulty(d Difficulty) *ConfigBuilder {
	b.cfg.Difficulty = d
	return b
}

// WithThinkTime sets the per-move search budget.
func (b *ConfigBuilder) WithThinkTime(d time.Duration) *ConfigBuilder {
	b.cfg.ThinkTime = d
	return b
}

// WithSearchTimeout sets how long a caller waits for a move.
func (b *ConfigBuilder) WithSearchTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.SearchTimeout = d
	return b
}

// WithSkillOverride toggles the trailing "Skill Level 0" option.
func (b *ConfigBuilder) WithSkillOverride(enabled bool) *ConfigBuilder {
	b.cfg.SkillOverride = enabled
	return b
}

// WithSearchOnReady toggles the search started by readyok.
func (b *ConfigBuilder) WithSearchOnReady(enabled bool) *ConfigBuilder {
	b.cfg.SearchOnReady = enabled
	return b
}

// WithMetadataLogging toggles logging of engine id and option lines.
func (b *ConfigBuilder) WithMetadataLogging(enabled bool) *ConfigBuilder {
	b.cfg.LogEngineMetadata = enabled
	return b
}
