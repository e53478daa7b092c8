package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"PT45S", 45},
		{"PT1M", 60},
		{"PT3M24S", 204},
		{"PT1H2M3S", 3723},
		{"PT2H", 7200},
		{"PT0S", 0},
		{"P1DT2H", 0}, // day component not produced for regular uploads
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseISODuration(tt.input))
		})
	}
}

func TestParseCount(t *testing.T) {
	n, ok := parseCount("12345")
	assert.True(t, ok)
	assert.Equal(t, int64(12345), n)

	n, ok = parseCount("")
	assert.False(t, ok)
	assert.Zero(t, n)

	n, ok = parseCount("not-a-number")
	assert.False(t, ok)
	assert.Zero(t, n)

	n, ok = parseCount("-5")
	assert.False(t, ok)
	assert.Zero(t, n)

	n, ok = parseCount("0")
	assert.True(t, ok)
	assert.Zero(t, n)
}
