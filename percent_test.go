package wallet

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentFormatting(t *testing.T) {
	assert.Equal(t, "6.67%", Percent(6.6667).String())
	assert.Equal(t, "+6.67%", Percent(6.6667).SignedString())
	assert.Equal(t, "-2.50%", Percent(-2.5).SignedString())
	assert.Equal(t, "-", Percent(0.001).SignedString())
	assert.True(t, Percent(6.66667).Equal(Percent(6.66668)))
	assert.False(t, Percent(6.66).Equal(Percent(6.67)))
}

func TestPercentJSON(t *testing.T) {
	tests := []struct {
		in   Percent
		want string
	}{
		{Percent(100.0 / 15), "6.6667"},
		{Percent(-50), "-50"},
		{Percent(math.NaN()), "0"},
		{Percent(math.Inf(1)), "0"},
	}
	for _, tc := range tests {
		got, err := json.Marshal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(got))
	}
}
