package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/project"
)

func newInitCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a new project file",
		Long: `Create a new project file seeded from the shared panel-saw config,
falling back to the default stock catalog and settings when no config
file exists. Fails if the project file already exists.`,
		Example: `  # Create project.json in the current directory
  cutengine init "Kitchen cabinets"

  # Create at an explicit path
  cutengine init "Wardrobe" -p wardrobe.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "Untitled project"
			if len(args) > 0 {
				name = args[0]
			}

			if _, err := os.Stat(projectPath); err == nil {
				return fmt.Errorf("project file %s already exists", projectPath)
			}

			cfgPath := configFile
			if cfgPath == "" {
				cfgPath = project.DefaultConfigPath()
			}
			cfg, err := project.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			p := project.NewProject(name)
			p.Config = cfg
			if err := project.Save(projectPath, p); err != nil {
				return err
			}

			log.Info().
				Str("id", p.ID).
				Str("name", p.Name).
				Str("path", projectPath).
				Msg("Created project")
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "panel-saw config file to seed from (default ~/.cutengine/config.yaml)")

	return cmd
}
