package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rustyeddy/sigchart/market"
)

// SignalsPath is the endpoint HTTPSource posts to.
const SignalsPath = "/api/signals"

// Request is the body of a signals request.
type Request struct {
	Ticker    string `json:"ticker" binding:"required"`
	Timeframe string `json:"timeframe" binding:"required"`
}

// HTTPSource fetches signals from a remote signals service.
type HTTPSource struct {
	client *resty.Client
}

// NewHTTPSource creates a source for the service at baseURL. A zero timeout
// defaults to 30 seconds.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (h *HTTPSource) FetchSignals(ctx context.Context, ticker string, tf market.Timeframe) ([]Signal, error) {
	var out []Signal
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(Request{Ticker: ticker, Timeframe: tf.String()}).
		SetResult(&out).
		Post(SignalsPath)
	if err != nil {
		return nil, fmt.Errorf("fetch signals: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch signals: HTTP error status %s", resp.Status())
	}
	return out, nil
}
