package utils

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Nil", nil, 0},
		{"Int", 3, 3},
		{"Float", float64(81), 81},
		{"Number", json.Number("30"), 30},
		{"FloatNumber", json.Number("2.0"), 2},
		{"String", " 12 ", 12},
		{"FloatString", "4.0", 4},
		{"Garbage", "abc", 0},
		{"Bytes", []byte("7"), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "ADANA", ToString("  ADANA "))
	assert.Equal(t, "12", ToString(12))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("YES"))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(nil))
}
