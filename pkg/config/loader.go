package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	toml2 "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/logging"
)

// Load builds the effective configuration: embedded defaults, then any
// rgpatch.toml found in the XDG config dir or the working directory, then
// RGPATCH_* environment variables (RGPATCH_BOARD_FALLBACK=rg35xx-h maps to
// board.fallback).
func Load() (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. Override files, lowest precedence first
	for _, path := range overridePaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("loaded config override")
	}

	// 3. Environment variables
	err := k.Load(env.Provider("RGPATCH_", ".", func(s string) string {
		// Only the first underscore separates the section from the key:
		// RGPATCH_NETWORK_PROBE_ADDRESS maps to network.probe_address.
		key := strings.ToLower(strings.TrimPrefix(s, "RGPATCH_"))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// Default returns the configuration built from the embedded defaults only,
// ignoring override files and the environment. Used by tests and as a safe
// fallback.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		// The embedded defaults are part of the binary. If they do not
		// parse the build is broken.
		panic(err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Render serializes the effective configuration as TOML.
func Render(cfg *Config) (string, error) {
	out, err := toml2.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}

// overridePaths lists the locations checked for an rgpatch.toml, in
// ascending precedence.
func overridePaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "rgpatch", "rgpatch.toml"),
		"rgpatch.toml",
	}
}
