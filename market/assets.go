package market

import (
	"fmt"
	"strings"
)

// AssetMeta describes a charted asset.
type AssetMeta struct {
	Ticker        string
	Name          string
	QuoteCurrency string
	PriceDecimals int
}

// Assets are the tickers the chart knows how to label.
var Assets = map[string]AssetMeta{
	"BTC": {
		Ticker:        "BTC",
		Name:          "Bitcoin",
		QuoteCurrency: "USD",
		PriceDecimals: 2,
	},
	"ETH": {
		Ticker:        "ETH",
		Name:          "Ethereum",
		QuoteCurrency: "USD",
		PriceDecimals: 2,
	},
	"SOL": {
		Ticker:        "SOL",
		Name:          "Solana",
		QuoteCurrency: "USD",
		PriceDecimals: 3,
	},
}

// LookupAsset returns the metadata for ticker, case-insensitive.
func LookupAsset(ticker string) (AssetMeta, error) {
	meta, ok := Assets[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return AssetMeta{}, fmt.Errorf("unknown asset: %s", ticker)
	}
	return meta, nil
}

// Pair is the display name used for chart series, e.g. "BTC/USD".
func (a AssetMeta) Pair() string {
	return a.Ticker + "/" + a.QuoteCurrency
}
