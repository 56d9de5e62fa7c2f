package copilot

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/hpowernl/wafcli/internal/textproc"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// App implements the copilot operations
type App struct {
	logger zerolog.Logger
}

// NewApp creates an app logging to logger
func NewApp(logger zerolog.Logger) *App {
	logger.Info().Msg("Copilot application initialized")
	return &App{logger: logger}
}

// ProcessText applies op to text
func (a *App) ProcessText(text string, op textproc.Operation) (string, error) {
	a.logger.Debug().Stringer("operation", op).Msg("Processing text")

	result, err := textproc.Apply(op, text)
	if err != nil {
		return "", err
	}

	a.logger.Info().Stringer("operation", op).Msg("Text processed successfully")
	return result, nil
}

// ReadFile returns the contents of path
func (a *App) ReadFile(path string) (string, error) {
	a.logger.Debug().Str("file", path).Msg("Reading file")

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		a.logger.Error().Err(err).Str("file", path).Msg("Error reading file")
		return "", err
	}

	a.logger.Info().Str("file", path).Msg("Successfully read file")
	return string(content), nil
}

// WriteFile replaces the contents of path with content
func (a *App) WriteFile(path, content string) error {
	a.logger.Debug().Str("file", path).Msg("Writing to file")

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		a.logger.Error().Err(err).Str("file", path).Msg("Error writing to file")
		return err
	}

	a.logger.Info().Str("file", path).Msg("Successfully wrote to file")
	return nil
}

// InfoItem is one line of system information
type InfoItem struct {
	Key   string
	Value string
}

// SystemInfo describes the host the program runs on
func (a *App) SystemInfo() []InfoItem {
	platform := runtime.GOOS
	if info, err := host.Info(); err == nil {
		platform = fmt.Sprintf("%s-%s-%s", info.OS, info.Platform, info.PlatformVersion)
	} else {
		a.logger.Debug().Err(err).Msg("Host info unavailable")
	}

	processor := runtime.GOARCH
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 && cpus[0].ModelName != "" {
		processor = cpus[0].ModelName
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown"
	}

	items := []InfoItem{
		{Key: "platform", Value: platform},
		{Key: "go_version", Value: runtime.Version()},
		{Key: "architecture", Value: runtime.GOARCH},
		{Key: "processor", Value: processor},
		{Key: "current_directory", Value: cwd},
	}

	a.logger.Info().Msg("System information retrieved")
	return items
}
