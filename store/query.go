package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/sigchart/signals"
)

const maxTimestamp = math.MaxInt64

// GetSignal returns a single stored signal by id.
func (s *SQLite) GetSignal(ctx context.Context, signalID string) (SignalRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT signal_id, ticker, timestamp, direction, created_at
		FROM signals
		WHERE signal_id = ?`, signalID)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SignalRecord{}, fmt.Errorf("signal %q not found", signalID)
		}
		return SignalRecord{}, err
	}
	return rec, nil
}

// ListSignals returns ticker's signals with timestamp in [from, to), oldest
// first. Signals sharing a timestamp keep insertion order.
func (s *SQLite) ListSignals(ctx context.Context, ticker string, from, to int64) ([]SignalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT signal_id, ticker, timestamp, direction, created_at
		FROM signals
		WHERE ticker = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, signal_id ASC`, normTicker(ticker), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSignals removes every signal for ticker and returns the count.
func (s *SQLite) DeleteSignals(ctx context.Context, ticker string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM signals WHERE ticker = ?`, normTicker(ticker))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (SignalRecord, error) {
	var (
		rec SignalRecord
		dir string
	)
	if err := sc.Scan(&rec.ID, &rec.Ticker, &rec.Signal.Timestamp, &dir, &rec.CreatedAt); err != nil {
		return SignalRecord{}, err
	}
	d, err := signals.ParseDirection(dir)
	if err != nil {
		return SignalRecord{}, err
	}
	rec.Signal.Direction = d
	return rec, nil
}
