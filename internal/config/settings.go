package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Settings holds the runtime options that can be overridden from the environment.
// Precedence: ANALOGCLOCK_* environment variables, then compiled defaults.
type Settings struct {
	// Zone is an IANA timezone identifier. Empty means the system zone.
	Zone string `koanf:"zone"`

	// Port is the local snapshot server port.
	Port string `koanf:"port"`

	// Serve enables the local snapshot server.
	Serve bool `koanf:"serve"`

	// Lang is the UI language used until the user picks one in the settings window.
	Lang string `koanf:"lang"`
}

// DefaultSettings returns the compiled defaults.
func DefaultSettings() Settings {
	return Settings{
		Port:  DefaultPort,
		Serve: DefaultServe,
		Lang:  DefaultLanguage,
	}
}

// LoadSettings reads ANALOGCLOCK_* variables over the compiled defaults and validates them.
func LoadSettings() (Settings, error) {
	k := koanf.New(EnvDelimiter)

	cfg := DefaultSettings()

	// ANALOGCLOCK_ZONE -> zone, ANALOGCLOCK_SERVE -> serve
	err := k.Load(env.Provider(EnvPrefix, EnvDelimiter, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}

	cfg.Zone = strings.TrimSpace(cfg.Zone)
	if cfg.Lang == "" {
		cfg.Lang = DefaultLanguage
	}

	if err := ValidatePort(cfg.Port); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsInvalid, err)
	}

	return cfg, nil
}

// ValidatePort checks that a port string is numeric and within [MinPort, MaxPort].
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
