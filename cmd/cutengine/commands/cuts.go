package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/cutseq"
	"github.com/workshopos/cutengine/internal/project"
)

func newCutsCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "cuts",
		Short: "Print the cut sequence for the stored nesting",
		Long: `Derive the executable cut sequence from the stored production
nesting. Cuts are listed per sheet in execution order: rips along the
sheet length, crosscuts across it, and trims that only separate waste.`,
		Example: `  # Print the cut list
  cutengine cuts

  # Print and verify the sequence reproduces every placement
  cutengine cuts --verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}
			if p.State.Production == nil {
				return fmt.Errorf("no production nesting stored; run 'cutengine nest' first")
			}

			result := p.State.Production
			ops := cutseq.SequenceAll(*result, p.Config.Kerf)

			if verify {
				for _, sheet := range result.Sheets {
					sheetOps := cutseq.Sequence(sheet, p.Config.Kerf)
					pieces, err := cutseq.Replay(sheet.Length, sheet.Width, p.Config.Kerf, sheetOps)
					if err != nil {
						return fmt.Errorf("sheet %s: %w", sheet.ID, err)
					}
					if !cutseq.ReproducesPlacements(pieces, sheet) {
						return fmt.Errorf("sheet %s: cut sequence does not reproduce the nesting", sheet.ID)
					}
				}
			}

			if jsonOutput {
				return printJSON(ops)
			}

			currentSheet := ""
			for _, op := range ops {
				if op.SheetID != currentSheet {
					currentSheet = op.SheetID
					fmt.Printf("\n%s:\n", currentSheet)
				}
				fmt.Printf("  %2d  %-8s (%.1f,%.1f) -> (%.1f,%.1f)  %s\n",
					op.Sequence, op.Type, op.StartX, op.StartY, op.EndX, op.EndY,
					strings.Join(op.ResultingPartIDs, ", "))
			}
			if verify {
				fmt.Println("\nSequence verified: replay reproduces every placement.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "replay the sequence and check it reproduces the nesting")

	return cmd
}
