package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/trendwatch/internal/dashboard"
	"github.com/wonny/trendwatch/pkg/logger"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [code]",
	Short: "watch-list 한 번 평가",
	Long: `Fetches the watch-list once, evaluates every ticker and prints the cards.
With a code argument only that ticker is evaluated.

Example:
  go run ./cmd/trendwatch evaluate
  go run ./cmd/trendwatch evaluate 0050 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

var evaluateJSON bool

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "print JSON instead of a table")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Keep stdout for the report.
	log := logger.NewWithWriter(cfg, cmd.ErrOrStderr())

	a := newApp(cfg, log)
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		card, err := a.service.EvaluateOne(ctx, args[0])
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", args[0], err)
		}
		if evaluateJSON {
			return writeJSON(out, card)
		}
		PrintCards(out, []dashboard.Card{*card})
		return nil
	}

	snap, err := a.service.Refresh(ctx)
	if err != nil {
		return err
	}

	if evaluateJSON {
		if err := writeJSON(out, snap); err != nil {
			return err
		}
	} else {
		PrintSnapshot(out, snap)
	}

	if snap.Error != "" {
		return errors.New(snap.Error)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
