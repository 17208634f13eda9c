package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domainconfig "ifn-backend/domain/config"
	"ifn-backend/pkg/utils"
)

// ListingSettings is the YAML form of the listing configuration.
// Fields left out of the file keep their defaults.
type ListingSettings struct {
	PageSize           int           `yaml:"page_size" validate:"min=1,max=1000"`
	MaxPageSize        int           `yaml:"max_page_size" validate:"min=1,gtefield=PageSize"`
	PageWindow         int           `yaml:"page_window" validate:"min=1,max=25"`
	Debounce           time.Duration `yaml:"debounce" validate:"min=0"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout" validate:"min=0"`
	CategorySentinel   string        `yaml:"category_sentinel" validate:"required,max=32"`
	SentinelAliases    []string      `yaml:"sentinel_aliases" validate:"dive,required,max=32"`
	SearchMinChars     int           `yaml:"search_min_chars" validate:"min=1,max=20"`
	SearchDebounce     time.Duration `yaml:"search_debounce" validate:"min=0"`
	EnableStats        bool          `yaml:"enable_stats"`
	EnableSearch       bool          `yaml:"enable_search"`
	EnablePresets      bool          `yaml:"enable_presets"`
}

// SettingsFrom copies a domain configuration into its file form
func SettingsFrom(c *domainconfig.ListingConfig) ListingSettings {
	return ListingSettings{
		PageSize:           c.PageSize,
		MaxPageSize:        c.MaxPageSize,
		PageWindow:         c.PageWindow,
		Debounce:           c.DebounceWindow,
		SessionIdleTimeout: c.SessionIdleTimeout,
		CategorySentinel:   c.CategorySentinel,
		SentinelAliases:    append([]string(nil), c.SentinelAliases...),
		SearchMinChars:     c.SearchMinChars,
		SearchDebounce:     c.SearchDebounce,
		EnableStats:        c.EnableStats,
		EnableSearch:       c.EnableSearch,
		EnablePresets:      c.EnablePresets,
	}
}

// ToDomain converts the settings into the domain configuration
func (s ListingSettings) ToDomain() *domainconfig.ListingConfig {
	return &domainconfig.ListingConfig{
		PageSize:           s.PageSize,
		MaxPageSize:        s.MaxPageSize,
		PageWindow:         s.PageWindow,
		DebounceWindow:     s.Debounce,
		SessionIdleTimeout: s.SessionIdleTimeout,
		CategorySentinel:   s.CategorySentinel,
		SentinelAliases:    append([]string(nil), s.SentinelAliases...),
		SearchMinChars:     s.SearchMinChars,
		SearchDebounce:     s.SearchDebounce,
		EnableStats:        s.EnableStats,
		EnableSearch:       s.EnableSearch,
		EnablePresets:      s.EnablePresets,
	}
}

// Validate checks field ranges
func (s ListingSettings) Validate() error {
	if err := utils.ValidateStruct(s); err != nil {
		return fmt.Errorf("invalid listing settings: %w", err)
	}
	return nil
}

// ParseSettings decodes YAML over base. Unknown keys are rejected.
func ParseSettings(data []byte, base *domainconfig.ListingConfig) (*domainconfig.ListingConfig, error) {
	settings := SettingsFrom(base)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode listing settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cfg := settings.ToDomain()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSettings reads path over the defaults of environment. An empty path returns the defaults.
func LoadSettings(path, environment string) (*domainconfig.ListingConfig, error) {
	base := domainconfig.LoadListingConfig(environment)
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing settings: %w", err)
	}
	return ParseSettings(data, base)
}
