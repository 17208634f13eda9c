package config

import (
	"errors"
	"fmt"
	"time"
)

// ListingConfig holds the tuning parameters of record listings
type ListingConfig struct {
	// Pagination
	PageSize    int
	MaxPageSize int
	PageWindow  int

	// Interaction
	DebounceWindow     time.Duration
	SessionIdleTimeout time.Duration

	// Filtering
	CategorySentinel string
	SentinelAliases  []string

	// Universal search
	SearchMinChars int
	SearchDebounce time.Duration

	// Feature flags
	EnableStats   bool
	EnableSearch  bool
	EnablePresets bool
}

// DefaultListingConfig returns the values the inventory front end shipped with
func DefaultListingConfig() *ListingConfig {
	return &ListingConfig{
		PageSize:    5,
		MaxPageSize: 100,
		PageWindow:  5,

		DebounceWindow:     300 * time.Millisecond,
		SessionIdleTimeout: 30 * time.Minute,

		CategorySentinel: "todos",
		SentinelAliases:  []string{"all"},

		SearchMinChars: 2,
		SearchDebounce: 300 * time.Millisecond,

		EnableStats:   true,
		EnableSearch:  true,
		EnablePresets: true,
	}
}

// ProductionListingConfig returns production-specific configuration
func ProductionListingConfig() *ListingConfig {
	cfg := DefaultListingConfig()
	cfg.MaxPageSize = 50
	cfg.SessionIdleTimeout = 15 * time.Minute
	return cfg
}

// DevelopmentListingConfig returns development-specific configuration
func DevelopmentListingConfig() *ListingConfig {
	cfg := DefaultListingConfig()
	cfg.MaxPageSize = 1000
	cfg.SessionIdleTimeout = 2 * time.Hour
	return cfg
}

// LoadListingConfig picks the configuration for an environment
func LoadListingConfig(environment string) *ListingConfig {
	switch environment {
	case "production":
		return ProductionListingConfig()
	case "development":
		return DevelopmentListingConfig()
	default:
		return DefaultListingConfig()
	}
}

// Sentinels returns every category value meaning "no constraint"
func (c *ListingConfig) Sentinels() []string {
	out := make([]string, 0, len(c.SentinelAliases)+1)
	out = append(out, c.CategorySentinel)
	return append(out, c.SentinelAliases...)
}

// Validate checks if the configuration is valid
func (c *ListingConfig) Validate() error {
	var errs []error
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.PageSize))
	}
	if c.MaxPageSize < c.PageSize {
		errs = append(errs, fmt.Errorf("max page size %d is below page size %d", c.MaxPageSize, c.PageSize))
	}
	if c.PageWindow < 1 {
		errs = append(errs, fmt.Errorf("page window must be positive, got %d", c.PageWindow))
	}
	if c.DebounceWindow < 0 || c.SearchDebounce < 0 {
		errs = append(errs, errors.New("debounce windows cannot be negative"))
	}
	if c.CategorySentinel == "" {
		errs = append(errs, errors.New("category sentinel is required"))
	}
	if c.SearchMinChars < 1 {
		errs = append(errs, fmt.Errorf("search min chars must be positive, got %d", c.SearchMinChars))
	}
	return errors.Join(errs...)
}

// ListingSource yields the configuration in effect. Implementations backed by a
// file watcher may return a different value on every call.
type ListingSource interface {
	Current() *ListingConfig
}

// Current returns c, so a fixed configuration is its own source
func (c *ListingConfig) Current() *ListingConfig {
	return c
}
