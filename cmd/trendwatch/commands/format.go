package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/watchlist"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

var cardColumns = []string{"CODE", "NAME", "STRATEGY", "STATUS", "PRICE", "MA", "DEV", "DATE", "SOURCE"}
var cardWidths = []int{8, 14, 8, 22, 10, 18, 8, 10, 8}

// PrintSnapshot prints a snapshot header, its cards and a status summary
func PrintSnapshot(w io.Writer, snap *dashboard.Snapshot) {
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  Snapshot  : %s\n", snap.ID)
	fmt.Fprintf(w, "  Generated : %s\n", snap.GeneratedAt.Format("2006-01-02 15:04:05"))
	PrintSeparator(w)

	if snap.Error != "" {
		PrintError(w, snap.Error)
		return
	}

	PrintCards(w, snap.Cards)
	PrintSeparator(w)
	fmt.Fprintf(w, "  %s\n", summary(snap.Counts))
}

// PrintCards prints one table row per card
func PrintCards(w io.Writer, cards []dashboard.Card) {
	PrintTableHeader(w, cardColumns, cardWidths)
	for _, c := range cards {
		PrintTableRow(w, cardRow(c), cardWidths)
	}
}

func cardRow(c dashboard.Card) []string {
	return []string{
		c.Code,
		c.Name,
		string(c.Strategy),
		c.StatusText,
		evaluation.FormatNumber(c.Price),
		maColumn(c.Result),
		evaluation.FormatDeviation(c.DeviationPercent),
		orDash(c.LastTradingDate),
		orDash(c.Source),
	}
}

// maColumn renders "MA20 101.50" or "MA10 10.00 / MA5 9.80".
func maColumn(r evaluation.Result) string {
	parts := []string{fmt.Sprintf("%s %s", r.Plan.PrimaryLabel, evaluation.FormatNumber(r.PrimaryMA))}
	if r.Plan.HasSecondary() {
		parts = append(parts, fmt.Sprintf("%s %s", r.Plan.SecondaryLabel, evaluation.FormatNumber(r.SecondaryMA)))
	}
	return strings.Join(parts, " / ")
}

func summary(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	if len(parts) == 0 {
		return "no cards"
	}
	return strings.Join(parts, "  ")
}

// PrintPlan prints a resolved plan
func PrintPlan(w io.Writer, strategy watchlist.Strategy, length int, p evaluation.Plan) {
	PrintKeyValue(w, "Strategy", string(strategy), 10)
	PrintKeyValue(w, "Length", strconv.Itoa(length), 10)
	PrintKeyValue(w, "Primary", windowText(p.PrimaryLabel, p.PrimaryWindow), 10)
	if p.HasSecondary() {
		PrintKeyValue(w, "Secondary", windowText(p.SecondaryLabel, p.SecondaryWindow), 10)
	}
	PrintKeyValue(w, "Required", strconv.Itoa(p.RequiredLength), 10)

	ready := "yes"
	if length < p.RequiredLength || p.PrimaryWindow == nil {
		ready = fmt.Sprintf("no (%d/%d)", length, p.RequiredLength)
	}
	PrintKeyValue(w, "Ready", ready, 10)
}

func windowText(label string, window *int) string {
	if window == nil {
		return label + " (unavailable)"
	}
	return fmt.Sprintf("%s (%d)", label, *window)
}

func orDash(s string) string {
	if s == "" {
		return evaluation.Placeholder
	}
	return s
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(w, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}
