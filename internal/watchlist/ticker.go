package watchlist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCode is returned when a ticker has no code.
var ErrEmptyCode = errors.New("ticker code is empty")

// RawTicker is a watch-list entry as delivered by the ticker provider or the seed file.
type RawTicker struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Strategy    string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Provider    string `json:"provider,omitempty" yaml:"provider,omitempty"`
	YahooSymbol string `json:"yahooSymbol,omitempty" yaml:"symbol,omitempty"`
}

// Ticker is a normalized watch-list entry.
type Ticker struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Strategy Strategy `json:"strategy"`
	Provider string   `json:"provider"`
	// Symbol is the provider-side symbol used for quote lookups.
	Symbol string `json:"symbol"`
}

// Overrides assigns a strategy to specific codes when the ticker itself names none.
type Overrides map[string]Strategy

// Normalize converts raw entries into tickers, resolving each strategy.
// Order is preserved and duplicate codes are kept.
func Normalize(raw []RawTicker, overrides Overrides) ([]Ticker, error) {
	tickers := make([]Ticker, 0, len(raw))
	for i, r := range raw {
		t, err := NormalizeOne(r, overrides)
		if err != nil {
			return nil, fmt.Errorf("ticker #%d: %w", i, err)
		}
		tickers = append(tickers, t)
	}
	return tickers, nil
}

// NormalizeOne converts a single raw entry.
func NormalizeOne(r RawTicker, overrides Overrides) (Ticker, error) {
	code := strings.TrimSpace(r.Code)
	if code == "" {
		return Ticker{}, ErrEmptyCode
	}

	strategy := ResolveStrategy(code, r.Strategy, overrides)

	symbol := strings.TrimSpace(r.YahooSymbol)
	if symbol == "" {
		symbol = code
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "-"
	}

	return Ticker{
		Code:     code,
		Name:     name,
		Strategy: strategy,
		Provider: strings.TrimSpace(r.Provider),
		Symbol:   symbol,
	}, nil
}

// ResolveStrategy picks the strategy for a code.
// An explicit strategy wins, even when unrecognized (then it maps to mid).
// Overrides only apply when no strategy was given at all.
func ResolveStrategy(code, explicit string, overrides Overrides) Strategy {
	if strings.TrimSpace(explicit) != "" {
		s, _ := ParseStrategy(explicit)
		return s
	}
	if s, ok := overrides[code]; ok && s.Valid() {
		return s
	}
	return DefaultStrategy
}
