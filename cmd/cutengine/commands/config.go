package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/model"
	"github.com/workshopos/cutengine/internal/project"
)

func newConfigCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the shared panel-saw config file",
		Long: `Manage the YAML config file shared across projects.

New projects created with 'cutengine init' start from this file, so saw
settings and the stock catalog only need maintaining in one place.`,
	}

	cmd.PersistentFlags().StringVarP(&file, "file", "f", "", "config file path (default ~/.cutengine/config.yaml)")

	resolve := func() string {
		if file != "" {
			return file
		}
		return project.DefaultConfigPath()
	}

	cmd.AddCommand(newConfigInitCommand(resolve))
	cmd.AddCommand(newConfigShowCommand(resolve))

	return cmd
}

func newConfigInitCommand(resolve func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default panel-saw config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolve()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file %s already exists", path)
			}
			if err := project.SaveConfig(path, model.DefaultConfig()); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("Wrote default config")
			return nil
		},
	}
}

func newConfigShowCommand(resolve func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective panel-saw config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadConfig(resolve())
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cfg)
			}

			fmt.Printf("Kerf:             %.1fmm\n", cfg.Kerf)
			fmt.Printf("Rotation allowed: %t\n", cfg.AllowRotation)
			fmt.Printf("Grain matching:   %t\n", cfg.GrainMatching)
			fmt.Printf("Usable cutoff:    %.0fx%.0fmm\n",
				cfg.MinimumUsableCutoff.Length, cfg.MinimumUsableCutoff.Width)
			for _, s := range cfg.StockSheets {
				fmt.Printf("%-28s %-10s %.0fx%.0fx%.1fmm  %.2f\n",
					s.Label, s.MaterialID, s.Length, s.Width, s.Thickness, s.CostPerSheet)
			}
			return nil
		},
	}
}
