package dashboard

import (
	"time"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/watchlist"
)

// Visual classes a renderer attaches to a card.
const (
	ClassGreen        = "signal-green"
	ClassYellow       = "signal-yellow"
	ClassRed          = "signal-red"
	ClassAccumulating = "status-accumulating"
	ClassError        = "status-error"
	ClassNoData       = "status-no-data"
)

// Card is one watch-list entry with its evaluation.
type Card struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Strategy watchlist.Strategy `json:"strategy"`
	Symbol   string             `json:"symbol"`
	Class    string             `json:"class"`
	evaluation.Result
}

// Snapshot is the outcome of one watch-list refresh.
type Snapshot struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Cards       []Card         `json:"cards"`
	Counts      map[string]int `json:"counts"`
	Error       string         `json:"error,omitempty"`
}

// NewCard pairs a ticker with its result.
func NewCard(t watchlist.Ticker, r evaluation.Result) Card {
	return Card{
		Code:     t.Code,
		Name:     t.Name,
		Strategy: t.Strategy,
		Symbol:   t.Symbol,
		Class:    VisualClass(r),
		Result:   r,
	}
}

// VisualClass maps a result to its display class.
func VisualClass(r evaluation.Result) string {
	switch r.Status {
	case evaluation.StatusOK:
		switch r.Signal {
		case evaluation.SignalGreen:
			return ClassGreen
		case evaluation.SignalYellow:
			return ClassYellow
		case evaluation.SignalRed:
			return ClassRed
		}
		return ClassError
	case evaluation.StatusAccumulating:
		return ClassAccumulating
	case evaluation.StatusNoData:
		return ClassNoData
	default:
		return ClassError
	}
}

func countByStatus(cards []Card) map[string]int {
	counts := make(map[string]int)
	for _, c := range cards {
		counts[string(c.Status)]++
	}
	return counts
}
