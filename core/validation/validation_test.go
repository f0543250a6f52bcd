package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string  `json:"name" validate:"required,max=5"`
	Ratio   float64 `mapstructure:"ratio" validate:"gt=0,lte=1"`
	Backend string  `validate:"oneof=database redis"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "ok", Ratio: 0.5, Backend: "redis"}))

	err := Struct(sample{Name: "toolong", Ratio: 2, Backend: "etcd"})
	require.Error(t, err)

	msgs := FormatErrors(err)
	assert.Equal(t, "name must be at most 5 characters", msgs["name"])
	assert.Equal(t, "ratio must be less than or equal to 1", msgs["ratio"])
	assert.Equal(t, "Backend must be one of [database redis]", msgs["Backend"])
}

func TestFormatErrors_Required(t *testing.T) {
	msgs := FormatErrors(Struct(sample{Ratio: 1, Backend: "database"}))
	assert.Equal(t, map[string]string{"name": "name is required"}, msgs)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "boom", Summary(errors.New("boom")))
	assert.Equal(t, "name is required; ratio must be greater than 0",
		Summary(Struct(sample{Backend: "redis"})))
}
