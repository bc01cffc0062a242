// Package config provides the configuration loader for pubkit.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the config file looked up in the working directory.
const DefaultFilename = "pubkit.yaml"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a loader for the default config filename.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{
		Filename: DefaultFilename,
		logger:   log,
	}
}

// Load reads the configuration from the given working directory. A missing
// file yields the defaults.
func (l *FileConfigLoader) Load(cwd string) (domain.Settings, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the caller's cwd
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("no " + l.Filename + " found, using defaults")
			return Defaults(), nil
		}
		return domain.Settings{}, zerr.Wrap(err, "failed to read config file")
	}

	settings, err := parse(data)
	if err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}
	return settings, nil
}

// Defaults returns the settings applied when no config file is present.
func Defaults() domain.Settings {
	return domain.Settings{
		Enabled:        true,
		Tool:           "pub",
		ArchiveURL:     "https://pub.dev/api/archives",
		ResolveTimeout: 20 * time.Second,
		HTTPTimeout:    30 * time.Second,
		Parallelism:    runtime.NumCPU(),
	}
}

// fileDTO mirrors the YAML shape. Pointer fields distinguish absent keys,
// which keep their defaults, from explicit zero values.
type fileDTO struct {
	Enabled        *bool   `yaml:"enabled"`
	Tool           *string `yaml:"tool"`
	CacheDir       *string `yaml:"cache_dir"`
	ArchiveURL     *string `yaml:"archive_url"`
	ResolveTimeout *string `yaml:"resolve_timeout"`
	HTTPTimeout    *string `yaml:"http_timeout"`
	Parallelism    *int    `yaml:"parallelism"`
	KeepArchives   *bool   `yaml:"keep_archives"`
}

// parse decodes the DTO, overlays it on the defaults and validates the
// result.
func parse(data []byte) (domain.Settings, error) {
	var dto fileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return domain.Settings{}, zerr.Wrap(err, "failed to parse config file")
	}

	settings := Defaults()

	if dto.Enabled != nil {
		settings.Enabled = *dto.Enabled
	}
	if dto.Tool != nil {
		settings.Tool = *dto.Tool
	}
	if dto.CacheDir != nil {
		settings.CacheDir = *dto.CacheDir
	}
	if dto.ArchiveURL != nil {
		settings.ArchiveURL = *dto.ArchiveURL
	}
	if dto.ResolveTimeout != nil {
		d, err := time.ParseDuration(*dto.ResolveTimeout)
		if err != nil {
			return domain.Settings{}, zerr.Wrap(err, "invalid resolve_timeout")
		}
		settings.ResolveTimeout = d
	}
	if dto.HTTPTimeout != nil {
		d, err := time.ParseDuration(*dto.HTTPTimeout)
		if err != nil {
			return domain.Settings{}, zerr.Wrap(err, "invalid http_timeout")
		}
		settings.HTTPTimeout = d
	}
	if dto.Parallelism != nil {
		settings.Parallelism = *dto.Parallelism
	}
	if dto.KeepArchives != nil {
		settings.KeepArchives = *dto.KeepArchives
	}

	return validate(settings)
}

func validate(settings domain.Settings) (domain.Settings, error) {
	if settings.Tool == "" {
		return domain.Settings{}, zerr.New("tool must not be empty")
	}

	settings.ArchiveURL = strings.TrimRight(settings.ArchiveURL, "/")
	if settings.ArchiveURL == "" {
		return domain.Settings{}, zerr.New("archive_url must not be empty")
	}

	if settings.ResolveTimeout <= 0 {
		return domain.Settings{}, zerr.With(zerr.New("resolve_timeout must be positive"), "resolve_timeout", settings.ResolveTimeout.String())
	}
	if settings.HTTPTimeout <= 0 {
		return domain.Settings{}, zerr.With(zerr.New("http_timeout must be positive"), "http_timeout", settings.HTTPTimeout.String())
	}
	if settings.Parallelism < 1 {
		return domain.Settings{}, zerr.With(zerr.New("parallelism must be at least 1"), "parallelism", settings.Parallelism)
	}

	return settings, nil
}
