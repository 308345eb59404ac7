package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected int
	}{
		{"even par", "E", 0},
		{"empty string", "", 0},
		{"over par with plus", "+4", 4},
		{"under par", "-3", -3},
		{"bare digits", "2", 2},
		{"whitespace around token", " +7 ", 7},
		{"garbage falls back to zero", "WD", 0},
		{"lone minus", "-", 0},
		{"lone plus", "+", 0},
		{"mixed garbage", "+4a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseScore(tt.token))
		})
	}
}

func TestParseScoreRoundTripsFormatScore(t *testing.T) {
	for _, score := range []int{-12, -1, 0, 1, 9, 25} {
		assert.Equal(t, score, ParseScore(FormatScore(score)))
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "E", FormatScore(0))
	assert.Equal(t, "+3", FormatScore(3))
	assert.Equal(t, "-5", FormatScore(-5))
}

func TestPlayerID(t *testing.T) {
	assert.Equal(t, "scottie_scheffler", PlayerID("Scottie Scheffler"))
	assert.Equal(t, "ludvig_aberg", PlayerID("  Ludvig   Aberg "))
	assert.Equal(t, "", PlayerID("   "))
}
