package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
)

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// GetTimeframes handles GET /api/timeframes
func (h *Handler) GetTimeframes(c *gin.Context) {
	info, err := h.svc.Info()
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetIndicator handles GET /api/indicator
func (h *Handler) GetIndicator(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Indicator())
}

// GetCandles handles GET /api/candles?timeframe=
func (h *Handler) GetCandles(c *gin.Context) {
	tf, err := h.timeframe(c.Query("timeframe"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	candles, err := h.svc.Candles(tf)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, candles)
}

// GetChart handles GET /api/chart?ticker=&timeframe=&offset_ratio=
func (h *Handler) GetChart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	tf, err := h.timeframe(c.Query("timeframe"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}
	ticker, err := h.ticker(c.Query("ticker"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	var opts []signals.AlignOption
	if raw := c.Query("offset_ratio"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r < 0 {
			h.handleValidationError(c, fmt.Errorf("offset_ratio must be a non-negative number"))
			return
		}
		opts = append(opts, signals.WithOffsetRatio(r))
	} else if h.opts.OffsetRatio != nil {
		opts = append(opts, signals.WithOffsetRatio(*h.opts.OffsetRatio))
	}

	view, err := h.svc.View(ctx, ticker, tf, opts...)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, view)
}

// PostSignals handles POST /api/signals with {"ticker","timeframe"}.
func (h *Handler) PostSignals(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	var req signals.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, fmt.Errorf("request body must carry ticker and timeframe"))
		return
	}
	tf, err := market.ParseTimeframe(req.Timeframe)
	if err != nil {
		h.handleValidationError(c, err)
		return
	}
	ticker, err := h.ticker(req.Ticker)
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	sigs, err := h.svc.Signals(ctx, ticker, tf)
	if err != nil {
		h.handleError(c, err, http.StatusBadGateway, "Signal source unavailable")
		return
	}
	if sigs == nil {
		sigs = []signals.Signal{}
	}
	c.JSON(http.StatusOK, sigs)
}

func (h *Handler) timeframe(raw string) (market.Timeframe, error) {
	if raw == "" {
		return h.opts.DefaultTimeframe, nil
	}
	return market.ParseTimeframe(raw)
}

func (h *Handler) ticker(raw string) (string, error) {
	if raw == "" {
		raw = h.opts.DefaultTicker
	}
	a, err := market.LookupAsset(raw)
	if err != nil {
		return "", err
	}
	return a.Ticker, nil
}

// handleError logs the error and sends appropriate HTTP response
func (h *Handler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID := c.GetString(RequestIDContextKey)
	if requestID == "" {
		requestID = "unknown"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		statusCode = http.StatusGatewayTimeout
		userMessage = "Request timed out"
	}

	h.logger.Error("API error",
		slog.String("request_id", requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID,
	})
}

func (h *Handler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}
