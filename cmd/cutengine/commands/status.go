package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/invalidate"
	"github.com/workshopos/cutengine/internal/project"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report result staleness and the project traffic lights",
		Long: `Diff the project's current inputs against the snapshot taken at the
last optimization run, mark invalidated results stale, and print the
red/amber/green/grey status per surface. Detected invalidations are
persisted back into the project file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}

			snap := invalidate.ComputeSnapshot(p.Parts, p.MaterialMappings, p.Config, p.DesignItems, time.Now().UTC())
			res := invalidate.Detect(p.State.LastSnapshot, snap, p.State)
			if len(res.Triggers) > 0 {
				invalidate.Apply(&p.State, res, snap)
				if err := project.Save(projectPath, p); err != nil {
					return err
				}
			}

			statuses := invalidate.Project(p.State)

			if jsonOutput {
				return printJSON(struct {
					Statuses invalidate.StatusSet `json:"statuses"`
					Reasons  []string             `json:"reasons,omitempty"`
				}{statuses, invalidate.Explain(res)})
			}

			fmt.Printf("Estimation: %s\n", statuses.Estimation)
			fmt.Printf("Production: %s\n", statuses.Production)
			fmt.Printf("Katana BOM: %s\n", statuses.Katana)
			fmt.Printf("Overall:    %s\n", statuses.Overall)

			if len(res.Triggers) > 0 {
				fmt.Printf("\nResults marked stale: %s\n", strings.Join(invalidate.Explain(res), "; "))
			}
			if p.State.Estimation != nil && len(p.State.Estimation.InvalidationReasons) > 0 {
				fmt.Printf("Estimation stale since %s\n", p.State.Estimation.InvalidatedAt.Format(time.RFC3339))
			}
			if p.State.Production != nil && len(p.State.Production.InvalidationReasons) > 0 {
				fmt.Printf("Production stale since %s\n", p.State.Production.InvalidatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	return cmd
}
