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

func newNestCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "nest",
		Short: "Run the production nesting",
		Long: `Run the exact guillotine nesting over the project's parts.

Every part instance is placed on a concrete sheet with kerf-aware
coordinates. The nesting either succeeds completely or fails with a
structured error listing every problem; partial nestings are never
stored. The result is saved in the project file and marked current.`,
		Example: `  # Nest and store the result
  cutengine nest

  # Nest and cross-check the placements afterwards
  cutengine nest --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}
			if len(p.Parts) == 0 {
				return fmt.Errorf("project has no parts to nest")
			}

			result, err := engine.NewNester(p.Config).Nest(p.Parts)
			if err != nil {
				return err
			}

			if check {
				if violations := engine.Validate(result, p.Parts, p.Config.Kerf); len(violations) > 0 {
					for _, v := range violations {
						log.Error().Str("sheet", v.SheetID).Str("kind", v.Kind).Msg(v.Detail)
					}
					return fmt.Errorf("nesting failed validation with %d violation(s)", len(violations))
				}
				log.Info().Msg("Nesting passed placement validation")
			}

			// Edits since the last run must mark the sibling result stale
			// before this run's snapshot replaces the stored epoch.
			snap := invalidate.ComputeSnapshot(p.Parts, p.MaterialMappings, p.Config, p.DesignItems, time.Now().UTC())
			if res := invalidate.Detect(p.State.LastSnapshot, snap, p.State); len(res.Triggers) > 0 {
				invalidate.Apply(&p.State, res, snap)
			}

			if p.State.Production != nil {
				result.Version = p.State.Production.Version + 1
			}
			p.State.Production = &result
			p.State.LastSnapshot = &snap

			if err := project.Save(projectPath, p); err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(result)
			}

			log.Info().
				Int("version", result.Version).
				Int("sheets", len(result.Sheets)).
				Int("placements", result.TotalPlacements()).
				Float64("utilization_percent", result.UtilizationPercent).
				Float64("total_cost", result.TotalCost).
				Msg("Nesting complete")

			for _, s := range result.Sheets {
				reusable := 0
				for _, w := range s.WasteRegions {
					if w.Reusable {
						reusable++
					}
				}
				fmt.Printf("%s  %0.fx%.0fmm  %d part(s)  %.1f%% used  %d reusable offcut(s)\n",
					s.ID, s.Length, s.Width, len(s.Placements), s.UtilizationPercent, reusable)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "validate placements after nesting")

	return cmd
}
