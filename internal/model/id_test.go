package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatID(t *testing.T) {
	assert.Equal(t, "GRV-2024-0047", FormatID(2024, 47))
	assert.Equal(t, "GRV-2025-0001", FormatID(2025, 1))
	assert.Equal(t, "GRV-2024-9999", FormatID(2024, 9999))
}

func TestFormatIDMatchesPattern(t *testing.T) {
	for _, seq := range []int{1, 42, 512, 9999} {
		assert.Regexp(t, `^GRV-2024-\d{4}$`, FormatID(2024, seq))
	}
}

func TestIDPattern(t *testing.T) {
	assert.True(t, IDPattern.MatchString("GRV-2024-0047"))
	assert.False(t, IDPattern.MatchString("GRV-2024-47"))
	assert.False(t, IDPattern.MatchString("grv-2024-0047"))
	assert.False(t, IDPattern.MatchString("GRV-24-0047"))
	assert.False(t, IDPattern.MatchString("GRV-2024-0047-extra"))
}

func TestFormatIDPastFourDigits(t *testing.T) {
	id := FormatID(2024, 10000)
	assert.Equal(t, "GRV-2024-10000", id)
	assert.True(t, IDPattern.MatchString(id), "overflowed counters still produce valid IDs")
}
