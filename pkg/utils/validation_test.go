package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSettings struct {
	PageSize int    `validate:"min=1,max=100"`
	Sentinel string `validate:"required"`
	Mode     string `validate:"oneof=single cluster"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sampleSettings{PageSize: 5, Sentinel: "todos", Mode: "single"}))

	err := ValidateStruct(sampleSettings{PageSize: 0, Mode: "ring"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pagesize must be at least 1")
	assert.Contains(t, err.Error(), "sentinel is required")
	assert.Contains(t, err.Error(), "mode must be one of: single cluster")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("date", "2024-03-15", "datetime=2006-01-02"))

	err := ValidateVar("date", "15/03/2024", "datetime=2006-01-02")
	require.Error(t, err)
	assert.Equal(t, "date must match the layout 2006-01-02", err.Error())
}
