// Package config loads rgpatch's layered configuration: embedded defaults,
// then rgpatch.toml from the XDG config dir and the working directory, then
// RGPATCH_* environment variables.
package config

import "time"

// Config is the fully merged rgpatch configuration.
type Config struct {
	Board   BoardConfig   `koanf:"board" toml:"board"`
	Network NetworkConfig `koanf:"network" toml:"network"`
	Github  GithubConfig  `koanf:"github" toml:"github"`
	Host    HostConfig    `koanf:"host" toml:"host"`
}

// BoardConfig controls board detection.
type BoardConfig struct {
	// Command is the argv of the external command whose output identifies
	// the board.
	Command []string `koanf:"command" toml:"command"`

	// Marker is a path that exists only on the target device family.
	Marker string `koanf:"marker" toml:"marker"`

	// Fallback is the board assumed when detection fails off-device.
	Fallback string `koanf:"fallback" toml:"fallback"`
}

// NetworkConfig controls reachability probing and download timeouts.
type NetworkConfig struct {
	ProbeAddress        string `koanf:"probe_address" toml:"probe_address"`
	ProbeTimeoutSeconds int    `koanf:"probe_timeout_seconds" toml:"probe_timeout_seconds"`
	HTTPTimeoutSeconds  int    `koanf:"http_timeout_seconds" toml:"http_timeout_seconds"`
}

// ProbeTimeout returns the probe timeout as a duration.
func (n NetworkConfig) ProbeTimeout() time.Duration {
	return time.Duration(n.ProbeTimeoutSeconds) * time.Second
}

// HTTPTimeout returns the per-request download timeout as a duration.
func (n NetworkConfig) HTTPTimeout() time.Duration {
	return time.Duration(n.HTTPTimeoutSeconds) * time.Second
}

// GithubConfig points at the code-hosting content API.
type GithubConfig struct {
	APIBase string `koanf:"api_base" toml:"api_base"`
}

// HostConfig controls how shell commands and reboots reach the host.
type HostConfig struct {
	Shell         string   `koanf:"shell" toml:"shell"`
	RebootCommand []string `koanf:"reboot_command" toml:"reboot_command"`
}
