package evaluation

import "github.com/wonny/trendwatch/internal/watchlist"

// Plan is the moving-average plan for one evaluation.
// A nil window means that average is not part of the plan (or not yet computable).
type Plan struct {
	PrimaryWindow   *int   `json:"primaryWindow"`
	SecondaryWindow *int   `json:"secondaryWindow"`
	RequiredLength  int    `json:"requiredLength"`
	PrimaryLabel    string `json:"primaryLabel"`
	SecondaryLabel  string `json:"secondaryLabel,omitempty"`
}

// HasSecondary reports whether the plan shows a secondary average.
func (p Plan) HasSecondary() bool {
	return p.SecondaryLabel != ""
}

const (
	longFullLength = 121 // MA120 + one sample for the trend
	longMA60Length = 60  // MA60 becomes computable
)

// ResolvePlan maps a strategy and the number of usable samples to a plan.
//
// The long strategy degrades to MA60 while history accumulates toward MA120.
func ResolvePlan(strategy watchlist.Strategy, available int) Plan {
	switch strategy {
	case watchlist.StrategyShort:
		return Plan{
			PrimaryWindow:   intPtr(10),
			SecondaryWindow: intPtr(5),
			RequiredLength:  11,
			PrimaryLabel:    "MA10",
			SecondaryLabel:  "MA5",
		}
	case watchlist.StrategyLong:
		switch {
		case available >= longFullLength:
			return Plan{
				PrimaryWindow:   intPtr(120),
				SecondaryWindow: intPtr(60),
				RequiredLength:  121,
				PrimaryLabel:    "MA120",
				SecondaryLabel:  "MA60",
			}
		case available >= longMA60Length:
			return Plan{
				PrimaryWindow:  intPtr(60),
				RequiredLength: 61,
				PrimaryLabel:   "MA60",
			}
		default:
			return Plan{
				RequiredLength: 61,
				PrimaryLabel:   "MA60",
			}
		}
	default:
		return Plan{
			PrimaryWindow:  intPtr(20),
			RequiredLength: 21,
			PrimaryLabel:   "MA20",
		}
	}
}

func intPtr(v int) *int {
	return &v
}
