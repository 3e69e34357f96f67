// Package store keeps raw trading signals in SQLite. Plotted signals are
// derived per timeframe and are never stored.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/sigchart/internal/id"
	"github.com/rustyeddy/sigchart/market"
	"github.com/rustyeddy/sigchart/signals"
)

// SignalRecord is a stored signal.
type SignalRecord struct {
	ID        string
	Ticker    string
	Signal    signals.Signal
	CreatedAt time.Time
}

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordSignal stores s for ticker and returns its new id.
func (s *SQLite) RecordSignal(ctx context.Context, ticker string, sig signals.Signal) (string, error) {
	sid := id.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signals
		(signal_id, ticker, timestamp, direction, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		sid, normTicker(ticker), sig.Timestamp, string(sig.Direction), time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return sid, nil
}

// RecordSignals stores all sigs in one transaction.
func (s *SQLite) RecordSignals(ctx context.Context, ticker string, sigs []signals.Signal) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signals
		(signal_id, ticker, timestamp, direction, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, sig := range sigs {
		if _, err := stmt.ExecContext(ctx, id.New(), normTicker(ticker), sig.Timestamp, string(sig.Direction), now); err != nil {
			return 0, fmt.Errorf("signal %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(sigs), nil
}

// FetchSignals returns every stored signal for ticker. Alignment decides
// which ones land on the timeframe's candles.
func (s *SQLite) FetchSignals(ctx context.Context, ticker string, _ market.Timeframe) ([]signals.Signal, error) {
	recs, err := s.ListSignals(ctx, ticker, 0, maxTimestamp)
	if err != nil {
		return nil, err
	}
	out := make([]signals.Signal, len(recs))
	for i, r := range recs {
		out[i] = r.Signal
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func normTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
