package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LESSONKIT_"

// Config carries the process-level settings of the lesson pipeline.
// Precedence: defaults < environment (LESSONKIT_*) < CLI flags (applied by
// the command layer after Load).
type Config struct {
	// SlidesDir is the directory holding one lesson-NN.json per lesson.
	SlidesDir string `koanf:"slides_dir" validate:"required"`
	// SchemaPath optionally overrides the embedded canonical schema.
	SchemaPath string    `koanf:"schema_path"`
	Log        LogConfig `koanf:"log"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

func Default() *Config {
	return &Config{
		SlidesDir: "public/slides",
		Log:       LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults and environment variables.
// LESSONKIT_SLIDES_DIR maps to slides_dir, LESSONKIT_LOG_LEVEL to
// log.level, and so on.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// transformEnvKey converts LESSONKIT_LOG_LEVEL into the koanf path
// log.level. The env provider filters on the prefix but hands the key over
// with the prefix still attached, so it is stripped here. Keys like
// SLIDES_DIR stay a flat top-level key.
func transformEnvKey(key, value string) (string, any) {
	key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
	switch {
	case strings.HasPrefix(key, "log_"):
		return "log." + strings.TrimPrefix(key, "log_"), value
	default:
		return key, value
	}
}
