package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped onto Settings
const EnvPrefix = "WAFCLI_"

// Settings holds values that can come from the environment or a .env file.
// Command-line flags take precedence over these.
type Settings struct {
	Analyzer AnalyzerSettings `koanf:"analyzer"`
	Server   ServerSettings   `koanf:"server"`
	LogLevel string           `koanf:"log_level" validate:"oneof=debug info warn error"`
}

type AnalyzerSettings struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region" validate:"required"`
	Endpoint  string `koanf:"endpoint" validate:"omitempty,url"`
	ChartDir  string `koanf:"chart_dir" validate:"required"`
	LocalDir  string `koanf:"local_dir"`
	MaxFiles  int    `koanf:"max_files" validate:"gte=0"`
	Timezone  string `koanf:"timezone"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

type ServerSettings struct {
	Port      int    `koanf:"port" validate:"gte=1,lte=65535"`
	StaticDir string `koanf:"static_dir"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() *Settings {
	return &Settings{
		Analyzer: AnalyzerSettings{
			Region:   "us-east-1",
			ChartDir: "./waf_charts",
		},
		Server: ServerSettings{
			Port: 80,
		},
		LogLevel: "info",
	}
}

// Load reads .env (if present) and WAFCLI_* variables on top of the defaults.
// WAFCLI_ANALYZER__BUCKET maps to analyzer.bucket.
func Load(envFiles ...string) (*Settings, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load(envFiles...)

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	settings := DefaultSettings()
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	settings.LogLevel = strings.ToLower(settings.LogLevel)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings against their struct tags
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
