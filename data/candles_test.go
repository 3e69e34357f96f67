package data

import (
	"strings"
	"testing"

	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCandles(t *testing.T) {
	in := `time,open,high,low,close,volume
1970-01-01 00:00:00,10,12,9,11,100
900,11,13,10,12,150
1800,12,12,11,11.5,80
`
	candles, err := ReadCandles(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []market.Candle{
		{Time: 0, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: 900, Open: 11, High: 13, Low: 10, Close: 12, Volume: 150},
		{Time: 1800, Open: 12, High: 12, Low: 11, Close: 11.5, Volume: 80},
	}, candles)
}

func TestReadCandlesRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short row", "0,1,2,3\n"},
		{"bad number", "0,1,2,x,1,1\n"},
		{"ohlc violation", "0,10,9,8,9.5,1\n"},
		{"out of order", "900,1,2,0.5,1.5,1\n0,1,2,0.5,1.5,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCandles(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}

	_, err := ReadCandles(strings.NewReader("0,10,9,8,9.5,1\n"))
	assert.ErrorIs(t, err, market.ErrInvalidInput)
}

func TestReadSignals(t *testing.T) {
	in := "timestamp,signal\n100,buy\n105,SELL\n"
	sigs, err := ReadSignals(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []signals.Signal{
		{Timestamp: 100, Direction: signals.Buy},
		{Timestamp: 105, Direction: signals.Sell},
	}, sigs)

	_, err = ReadSignals(strings.NewReader("100,hold\n"))
	assert.ErrorIs(t, err, signals.ErrUnknownDirection)
}
