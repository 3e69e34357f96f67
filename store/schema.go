package store

const Schema = `
CREATE TABLE IF NOT EXISTS signals (
	signal_id TEXT PRIMARY KEY,
	ticker TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	direction TEXT NOT NULL CHECK (direction IN ('buy', 'sell')),
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_ticker_time ON signals(ticker, timestamp);
`
