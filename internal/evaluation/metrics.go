package evaluation

import (
	"fmt"
)

// buildMetrics lists the display values in render order:
// primary MA, secondary MA when planned, deviation, last trading date, source.
func buildMetrics(r Result) []Metric {
	metrics := make([]Metric, 0, 5)
	metrics = append(metrics, Metric{Label: r.Plan.PrimaryLabel, Value: FormatNumber(r.PrimaryMA)})
	if r.Plan.HasSecondary() {
		metrics = append(metrics, Metric{Label: r.Plan.SecondaryLabel, Value: FormatNumber(r.SecondaryMA)})
	}
	metrics = append(metrics,
		Metric{Label: LabelDeviation, Value: FormatDeviation(r.DeviationPercent)},
		Metric{Label: LabelLastUpdate, Value: orPlaceholder(r.LastTradingDate)},
		Metric{Label: LabelSource, Value: orPlaceholder(r.Source)},
	)
	return metrics
}

// FormatNumber renders v with two decimals, or the placeholder when absent.
func FormatNumber(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatDeviation renders a signed percentage; zero is shown as +0.00%.
func FormatDeviation(v *float64) string {
	if v == nil {
		return Placeholder
	}
	sign := "+"
	if *v < 0 {
		sign = ""
	}
	return fmt.Sprintf("%s%.2f%%", sign, *v)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
