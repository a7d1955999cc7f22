package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/trendwatch/internal/evaluation"
	"github.com/wonny/trendwatch/internal/watchlist"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan <strategy> <length>",
	Short: "전략별 이동평균 계획 조회",
	Long: `Prints the moving-average plan chosen for a strategy and a number of
usable closes. Unknown strategies fall back to mid.

Example:
  go run ./cmd/trendwatch plan long 90
  go run ./cmd/trendwatch plan short 8`,
	Args: cobra.ExactArgs(2),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	length, err := strconv.Atoi(args[1])
	if err != nil || length < 0 {
		return fmt.Errorf("length must be a non-negative integer, got %q", args[1])
	}

	strategy, ok := watchlist.ParseStrategy(args[0])
	out := cmd.OutOrStdout()
	if !ok {
		PrintWarning(out, fmt.Sprintf("unknown strategy %q, using %s", args[0], strategy))
	}

	PrintPlan(out, strategy, length, evaluation.ResolvePlan(strategy, length))
	return nil
}
