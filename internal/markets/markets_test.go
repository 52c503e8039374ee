// internal/markets/markets_test.go
package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownMarkets(t *testing.T) {
	for _, code := range []string{"US", "EU", "UK", "BR", "CN", "JP"} {
		m, ok := Resolve(code)
		require.True(t, ok, code)
		assert.Equal(t, code, m.Code)
		assert.NotEmpty(t, m.Language)
		assert.NotEmpty(t, m.AllergenPrefix)
	}
}

func TestResolveUnknownMarket(t *testing.T) {
	_, ok := Resolve("XX")
	assert.False(t, ok)
	// Lowercase codes are not normalized; the registry is exact-match.
	_, ok = Resolve("us")
	assert.False(t, ok)
}

func TestRequiresTranslation(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"US", false},
		{"EU", false},
		{"UK", false},
		{"BR", true},
		{"CN", true},
		{"JP", true},
	}
	for _, tt := range tests {
		m, ok := Resolve(tt.code)
		require.True(t, ok, tt.code)
		assert.Equal(t, tt.want, m.RequiresTranslation(), tt.code)
	}
}

func TestTranslatedMarketsCarryMarkerTokens(t *testing.T) {
	for _, code := range Supported() {
		m, _ := Resolve(code)
		if m.RequiresTranslation() {
			assert.NotEmpty(t, m.MarkerTokens, "translated market %s needs marker tokens", code)
		}
	}
}

func TestSupportedCoversRegistry(t *testing.T) {
	codes := Supported()
	assert.Len(t, codes, 6)
	for _, code := range codes {
		assert.True(t, IsSupported(code))
	}
}
