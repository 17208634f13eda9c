package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultListingConfig(t *testing.T) {
	cfg := DefaultListingConfig()

	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 5, cfg.PageWindow)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, []string{"todos", "all"}, cfg.Sentinels())
	assert.NoError(t, cfg.Validate())
}

func TestLoadListingConfig(t *testing.T) {
	assert.Equal(t, 50, LoadListingConfig("production").MaxPageSize)
	assert.Equal(t, 1000, LoadListingConfig("development").MaxPageSize)
	assert.Equal(t, 100, LoadListingConfig("staging").MaxPageSize)
}

func TestListingConfig_Validate(t *testing.T) {
	cfg := DefaultListingConfig()
	cfg.PageSize = 0
	cfg.CategorySentinel = ""

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "page size must be positive")
	assert.Contains(t, err.Error(), "category sentinel is required")
}
