package liveview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRates(t *testing.T) {
	got, err := ParseRates(" eur=1100, USD = 950 ,")
	require.NoError(t, err)
	assert.True(t, got["EUR"].Equal(dec("1100")))
	assert.True(t, got["USD"].Equal(dec("950")))

	for _, bad := range []string{"EUR", "EUR=abc", "EUR=-1", "EUR=0"} {
		_, err := ParseRates(bad)
		assert.Error(t, err, bad)
	}
}

func TestStaticRates_Override(t *testing.T) {
	rates := DefaultRates()
	require.NoError(t, rates.Override("aoa", "EUR=1200"))

	r, ok := rates.Rate("eur", "AOA")
	require.True(t, ok)
	assert.True(t, r.Equal(dec("1200")))

	r, ok = rates.Rate("USD", "AOA")
	require.True(t, ok)
	assert.True(t, r.Equal(dec("950")))

	r, ok = rates.Rate("MZN", "MZN")
	require.True(t, ok)
	assert.True(t, r.Equal(dec("1")))

	_, ok = rates.Rate("GBP", "AOA")
	assert.False(t, ok)

	assert.Error(t, rates.Override("MZN", "USD"))
	assert.NoError(t, rates.Override("MZN", ""))
}
