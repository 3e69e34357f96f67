package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rustyeddy/sigchart/chart"
	"github.com/rustyeddy/sigchart/data"
	"github.com/rustyeddy/sigchart/internal/slogx"
	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) FetchSignals(ctx context.Context, ticker string, tf market.Timeframe) ([]signals.Signal, error) {
	return nil, errors.New("upstream down")
}

func testCandles(n int) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		p := 100 + float64(i%5)
		out[i] = market.Candle{
			Time:   1_700_000_000 + int64(i)*900,
			Open:   p,
			High:   p + 2,
			Low:    p - 1,
			Close:  p + 1,
			Volume: 10,
		}
	}
	return out
}

func newTestRouter(t *testing.T, src signals.Source, opts Options) http.Handler {
	t.Helper()

	indicator := []data.IndicatorPoint{{Time: 1_700_000_000, Total: 1.5, Value: 42}}
	svc, err := chart.NewService(testCandles(96), indicator, src, slogx.Discard())
	require.NoError(t, err)

	return NewHandler(svc, opts, slogx.Discard()).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil, Options{})
	w := do(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeaderKey))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp["status"])
	assert.Equal(t, ServiceName, resp["service"])
}

func TestRequestIDPassthrough(t *testing.T) {
	h := newTestRouter(t, nil, Options{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeaderKey, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeaderKey))
}

func TestGetCandles(t *testing.T) {
	h := newTestRouter(t, nil, Options{})

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"", http.StatusOK, 96},
		{"?timeframe=1h", http.StatusOK, 24},
		{"?timeframe=1d", http.StatusOK, 1},
		{"?timeframe=5m", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/candles"+tt.query, "")
			require.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				return
			}
			var candles []market.Candle
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &candles))
			assert.Len(t, candles, tt.count)
		})
	}
}

func TestGetIndicatorAndTimeframes(t *testing.T) {
	h := newTestRouter(t, nil, Options{})

	w := do(t, h, http.MethodGet, "/api/indicator", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pts []data.IndicatorPoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pts))
	assert.Equal(t, []data.IndicatorPoint{{Time: 1_700_000_000, Total: 1.5, Value: 42}}, pts)

	w = do(t, h, http.MethodGet, "/api/timeframes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info []chart.TimeframeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Len(t, info, 5)
}

func TestGetChart(t *testing.T) {
	base := testCandles(96)
	src := signals.StaticSource{
		{Timestamp: base[0].Time, Direction: signals.Buy},
		{Timestamp: base[16].Time + 300, Direction: signals.Sell},
	}
	h := newTestRouter(t, src, Options{})

	w := do(t, h, http.MethodGet, "/api/chart?ticker=btc&timeframe=4h", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view chart.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "BTC", view.Ticker)
	assert.Equal(t, market.H4, view.Timeframe)
	assert.Len(t, view.Candles, 6)
	require.Len(t, view.Signals, 2)
	assert.Equal(t, signals.Buy, view.Signals[0].Direction)
	assert.Equal(t, signals.Sell, view.Signals[1].Direction)
	assert.False(t, view.Fallback)
}

func TestGetChartOffsetRatio(t *testing.T) {
	base := testCandles(96)
	src := signals.StaticSource{{Timestamp: base[2].Time, Direction: signals.Buy}}
	zero := 0.0

	// configured default applies when the query has none
	h := newTestRouter(t, src, Options{OffsetRatio: &zero})
	w := do(t, h, http.MethodGet, "/api/chart?timeframe=15m", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view chart.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Signals, 1)
	assert.Equal(t, base[2].Low, view.Signals[0].DisplayValue)

	// the query wins over the configured default
	w = do(t, h, http.MethodGet, "/api/chart?timeframe=15m&offset_ratio=0.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.InDelta(t, base[2].Low-1.5, view.Signals[0].DisplayValue, 1e-9)

	for _, bad := range []string{"-1", "abc"} {
		w = do(t, h, http.MethodGet, "/api/chart?offset_ratio="+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestGetChartFallback(t *testing.T) {
	h := newTestRouter(t, failingSource{}, Options{})

	w := do(t, h, http.MethodGet, "/api/chart?timeframe=1h", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view chart.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.Fallback)
	assert.NotEmpty(t, view.Signals)
}

func TestGetChartUnknownTicker(t *testing.T) {
	h := newTestRouter(t, nil, Options{})
	w := do(t, h, http.MethodGet, "/api/chart?ticker=DOGE", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostSignals(t *testing.T) {
	src := signals.StaticSource{{Timestamp: 1_700_000_900, Direction: signals.Sell}}
	h := newTestRouter(t, src, Options{})

	w := do(t, h, http.MethodPost, "/api/signals", `{"ticker":"BTC","timeframe":"1h"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"timestamp":1700000900,"signal":"sell"}]`, w.Body.String())

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing timeframe", `{"ticker":"BTC"}`, http.StatusBadRequest},
		{"bad timeframe", `{"ticker":"BTC","timeframe":"2h"}`, http.StatusBadRequest},
		{"bad ticker", `{"ticker":"DOGE","timeframe":"1h"}`, http.StatusBadRequest},
		{"not json", `ticker=BTC`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/signals", tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestPostSignalsSourceDown(t *testing.T) {
	h := newTestRouter(t, failingSource{}, Options{})
	w := do(t, h, http.MethodPost, "/api/signals", `{"ticker":"BTC","timeframe":"1h"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestServesHTTPSource(t *testing.T) {
	// the API speaks the protocol HTTPSource consumes
	src := signals.StaticSource{{Timestamp: 1_700_000_000, Direction: signals.Buy}}
	srv := httptest.NewServer(newTestRouter(t, src, Options{}))
	defer srv.Close()

	sigs, err := signals.NewHTTPSource(srv.URL, 0).FetchSignals(context.Background(), "BTC", market.D1)
	require.NoError(t, err)
	assert.Equal(t, []signals.Signal(src), sigs)
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t, nil, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
