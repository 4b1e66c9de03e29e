package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/engine"
	"github.com/workshopos/cutengine/internal/invalidate"
	"github.com/workshopos/cutengine/internal/project"
)

func newEstimateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Run the fast sheet estimate for quoting",
		Long: `Run the shelf-packing estimator over the project's parts.

The estimate reports sheets needed per material, an overall waste
percentage and a rough material cost, including the edge banding takeoff
when parts carry banding flags. The result is stored in the project file
and marked current.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}
			if len(p.Parts) == 0 {
				return fmt.Errorf("project has no parts to estimate")
			}

			result, err := engine.NewEstimator(p.Config).Estimate(p.Parts)
			if err != nil {
				return err
			}

			// Edits since the last run must mark the sibling result stale
			// before this run's snapshot replaces the stored epoch.
			snap := invalidate.ComputeSnapshot(p.Parts, p.MaterialMappings, p.Config, p.DesignItems, time.Now().UTC())
			if res := invalidate.Detect(p.State.LastSnapshot, snap, p.State); len(res.Triggers) > 0 {
				invalidate.Apply(&p.State, res, snap)
			}

			if p.State.Estimation != nil {
				result.Version = p.State.Estimation.Version + 1
			}
			p.State.Estimation = &result
			p.State.LastSnapshot = &snap

			if err := project.Save(projectPath, p); err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(result)
			}

			log.Info().
				Int("version", result.Version).
				Int("total_sheets", result.TotalSheets).
				Float64("waste_percent", result.WastePercent).
				Float64("rough_cost", result.RoughCost).
				Msg("Estimate complete")

			for _, s := range result.Summaries {
				fmt.Printf("%-20s %.1fmm  %d sheet(s)  %.1f%% waste  %.2f\n",
					s.MaterialID, s.Thickness, s.SheetsUsed, s.WastePercent, s.SheetCost)
			}
			if result.EdgeBanding != nil {
				fmt.Printf("Edge banding: %.2fm (%d parts)  %.2f\n",
					result.EdgeBanding.TotalWithWasteM, result.EdgeBanding.PartCount, result.EdgeBanding.Cost)
			}
			fmt.Printf("Total: %d sheet(s), %.1f%% waste, rough cost %.2f\n",
				result.TotalSheets, result.WastePercent, result.RoughCost)
			return nil
		},
	}

	return cmd
}
