package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframeTable(t *testing.T) {
	tests := []struct {
		tf        Timeframe
		multiple  int
		tolerance int64
		ratio     float64
		dur       time.Duration
	}{
		{M15, 1, 900, 0.10, 15 * time.Minute},
		{H1, 4, 1800, 0.08, time.Hour},
		{H4, 16, 7200, 0.06, 4 * time.Hour},
		{H12, 48, 21600, 0.05, 12 * time.Hour},
		{D1, 96, 43200, 0.04, 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			assert.True(t, tt.tf.Valid())
			assert.Equal(t, tt.multiple, tt.tf.Multiple())
			assert.Equal(t, tt.tolerance, tt.tf.Tolerance())
			assert.Equal(t, tt.ratio, tt.tf.OffsetRatio())
			assert.Equal(t, tt.dur, tt.tf.Duration())
		})
	}
}

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe(" 4H ")
	require.NoError(t, err)
	assert.Equal(t, H4, tf)

	for _, s := range []string{"", "5m", "1w", "15"} {
		_, err := ParseTimeframe(s)
		assert.ErrorIs(t, err, ErrUnknownTimeframe, s)
	}
}

func TestUnknownTimeframeZeroValues(t *testing.T) {
	tf := Timeframe("2h")
	assert.False(t, tf.Valid())
	assert.Equal(t, 0, tf.Multiple())
	assert.Equal(t, int64(0), tf.Tolerance())
}
