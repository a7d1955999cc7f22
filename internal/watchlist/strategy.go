package watchlist

import "strings"

// Strategy selects the moving-average plan used for a ticker.
type Strategy string

const (
	StrategyLong  Strategy = "long"
	StrategyMid   Strategy = "mid"
	StrategyShort Strategy = "short"
)

// DefaultStrategy applies when a ticker names no strategy or an unknown one.
const DefaultStrategy = StrategyMid

// ParseStrategy maps any input onto the closed set of strategies.
// ok reports whether s named a known strategy; unknown or empty input yields mid.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLong:
		return StrategyLong, true
	case StrategyMid:
		return StrategyMid, true
	case StrategyShort:
		return StrategyShort, true
	default:
		return DefaultStrategy, false
	}
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyLong, StrategyMid, StrategyShort:
		return true
	}
	return false
}

func (s Strategy) String() string {
	return string(s)
}
