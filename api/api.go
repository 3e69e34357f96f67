// Package api serves chart data as JSON for the front end that draws it.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/sigchart/chart"
	"github.com/rustyeddy/sigchart/data"
	"github.com/rustyeddy/sigchart/internal/slogx"
	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
)

const (
	DefaultTimeout      = 30 * time.Second
	ServiceName         = "sigchart"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// ChartService is what the handlers need from chart.Service.
type ChartService interface {
	Indicator() []data.IndicatorPoint
	Candles(tf market.Timeframe) ([]market.Candle, error)
	Signals(ctx context.Context, ticker string, tf market.Timeframe) ([]signals.Signal, error)
	View(ctx context.Context, ticker string, tf market.Timeframe, opts ...signals.AlignOption) (chart.View, error)
	Info() ([]chart.TimeframeInfo, error)
}

// Options tune the handler.
type Options struct {
	DefaultTicker    string
	DefaultTimeframe market.Timeframe
	// OffsetRatio is applied when a request does not carry its own.
	OffsetRatio    *float64
	AllowedOrigins []string
}

// Handler serves the chart API.
type Handler struct {
	svc    ChartService
	opts   Options
	logger *slog.Logger
}

func NewHandler(svc ChartService, opts Options, logger *slog.Logger) *Handler {
	if opts.DefaultTicker == "" {
		opts.DefaultTicker = "BTC"
	}
	if !opts.DefaultTimeframe.Valid() {
		opts.DefaultTimeframe = market.M15
	}
	return &Handler{
		svc:    svc,
		opts:   opts,
		logger: slogx.OrDefault(logger),
	}
}

// Routes configures all API routes.
func (h *Handler) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(h.logger))
	router.Use(gin.Recovery())
	if len(h.opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  h.opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeaderKey},
			ExposeHeaders: []string{"Content-Length", RequestIDHeaderKey},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/health", h.Health)

	g := router.Group("/api")
	g.GET("/timeframes", h.GetTimeframes)
	g.GET("/indicator", h.GetIndicator)
	g.GET("/candles", h.GetCandles)
	g.GET("/chart", h.GetChart)
	g.POST("/signals", h.PostSignals)

	return router
}

// Server wraps the routes in an http.Server listening on addr.
func (h *Handler) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
