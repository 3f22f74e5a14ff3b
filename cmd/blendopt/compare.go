package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terraplan/blendopt/internal/service/report"
	"github.com/terraplan/blendopt/pkg/logger"
)

var (
	compareFlagsA  *scenarioFlags
	compareFlagsB  *scenarioFlags
	compareReqPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run scenarios A and B independently and print a cost comparison",
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := report.NewWriter(cfg.Data.OutDir, logger.Named(baseLog, "report"))

		paramsA := compareFlagsA.params("A")
		resultA, err := runScenario(cmd.Context(), paramsA, compareReqPath)
		if err != nil {
			writer.Cleanup(paramsA.Tag)
			return fmt.Errorf("scenario A: %w", err)
		}
		if err := writer.Write(resultA); err != nil {
			writer.Cleanup(paramsA.Tag)
			return err
		}

		paramsB := compareFlagsB.params("B")
		resultB, err := runScenario(cmd.Context(), paramsB, compareReqPath)
		if err != nil {
			writer.Cleanup(paramsB.Tag)
			return fmt.Errorf("scenario B: %w", err)
		}
		if err := writer.Write(resultB); err != nil {
			writer.Cleanup(paramsB.Tag)
			return err
		}

		fmt.Println(report.Comparison{A: resultA, B: resultB}.Text())
		return nil
	},
}

func init() {
	compareFlagsA = registerScenarioFlags(compareCmd, "a")
	compareFlagsB = registerScenarioFlags(compareCmd, "b")
	compareCmd.Flags().StringVar(&compareReqPath, "req-path", "", "alternate requirements table used by both scenarios")
}
