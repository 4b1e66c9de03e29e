package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/offcut"
	"github.com/workshopos/cutengine/internal/project"
)

func newOffcutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offcuts",
		Short: "Manage the shared offcut pool",
		Long: `Manage the offcut pool shared across projects.

Reusable waste regions are harvested from the stored production nesting
into the pool, where any later project can claim them as stock.`,
	}

	cmd.AddCommand(newOffcutsHarvestCommand())
	cmd.AddCommand(newOffcutsListCommand())
	cmd.AddCommand(newOffcutsClaimCommand())
	cmd.AddCommand(newOffcutsReleaseCommand())
	cmd.AddCommand(newOffcutsTagsCommand())

	return cmd
}

// loadTracker loads the pool file into a tracker. Returns the tracker and
// the resolved pool path.
func loadTracker() (*offcut.Tracker, string, error) {
	path := poolPath
	if path == "" {
		path = project.DefaultPoolPath()
	}
	offcuts, err := project.LoadPool(path)
	if err != nil {
		return nil, "", err
	}
	tracker := offcut.NewTracker()
	tracker.Load(offcuts)
	return tracker, path, nil
}

func newOffcutsHarvestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Harvest reusable waste from the stored nesting into the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}
			if p.State.Production == nil {
				return fmt.Errorf("no production nesting stored; run 'cutengine nest' first")
			}

			tracker, path, err := loadTracker()
			if err != nil {
				return err
			}

			harvested := tracker.Harvest(p.State.Production, p.Config, p.ID)
			if err := project.SavePool(path, tracker.All()); err != nil {
				return err
			}

			log.Info().
				Int("harvested", len(harvested)).
				Str("pool", path).
				Msg("Harvested offcuts")
			for _, o := range harvested {
				fmt.Printf("%s  %-20s %.0fx%.0fx%.1fmm\n", o.ID, o.Material, o.Length, o.Width, o.Thickness)
			}
			return nil
		},
	}
}

func newOffcutsListCommand() *cobra.Command {
	var material string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List offcuts in the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, _, err := loadTracker()
			if err != nil {
				return err
			}

			offcuts := tracker.All()
			if !all {
				if material == "" {
					filtered := offcuts[:0]
					for _, o := range offcuts {
						if o.Available {
							filtered = append(filtered, o)
						}
					}
					offcuts = filtered
				} else {
					offcuts = tracker.Query(material)
				}
			}

			if jsonOutput {
				return printJSON(offcuts)
			}

			for _, o := range offcuts {
				state := "available"
				if !o.Available {
					state = "consumed by " + o.ConsumedByProjectID
				}
				fmt.Printf("%s  %-20s %.0fx%.0fx%.1fmm  %s\n",
					o.ID, o.Material, o.Length, o.Width, o.Thickness, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&material, "material", "m", "", "filter available offcuts by material")
	cmd.Flags().BoolVar(&all, "all", false, "include consumed offcuts")

	return cmd
}

func newOffcutsClaimCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <offcut-id>",
		Short: "Claim an available offcut for the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}
			tracker, path, err := loadTracker()
			if err != nil {
				return err
			}
			if err := tracker.MarkUsed(args[0], p.ID); err != nil {
				return err
			}
			if err := project.SavePool(path, tracker.All()); err != nil {
				return err
			}
			log.Info().Str("offcut", args[0]).Str("project", p.ID).Msg("Claimed offcut")
			return nil
		},
	}
}

func newOffcutsReleaseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "release <offcut-id>",
		Short: "Return a consumed offcut to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, path, err := loadTracker()
			if err != nil {
				return err
			}
			if err := tracker.MarkAvailable(args[0]); err != nil {
				return err
			}
			if err := project.SavePool(path, tracker.All()); err != nil {
				return err
			}
			log.Info().Str("offcut", args[0]).Msg("Released offcut")
			return nil
		},
	}
}

func newOffcutsTagsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Write QR claim tags for available offcuts",
		Long: `Write one QR-coded PNG tag per available offcut. Sticking the tag
on the physical piece lets it be claimed later by scanning instead of
typing IDs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, _, err := loadTracker()
			if err != nil {
				return err
			}

			all := tracker.All()
			pool := all[:0]
			for _, o := range all {
				if o.Available {
					pool = append(pool, o)
				}
			}

			if err := offcut.WriteClaimTags(dir, pool); err != nil {
				return err
			}
			log.Info().Int("tags", len(pool)).Str("dir", dir).Msg("Wrote claim tags")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "offcut-tags", "output directory for tag images")

	return cmd
}
