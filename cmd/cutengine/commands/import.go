package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workshopos/cutengine/internal/importer"
	"github.com/workshopos/cutengine/internal/project"
)

func newImportCommand() *cobra.Command {
	var material string
	var thickness float64

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import parts from a CSV, Excel, or DXF file",
		Long: `Import parts into the project from a cutlist file.

CSV and Excel files are mapped by header names (label, length, width,
quantity, material, thickness, grain); delimiters are auto-detected.
DXF drawings yield one part per closed shape, sized to its bounding box.`,
		Example: `  # Import a cutlist spreadsheet
  cutengine import cutlist.xlsx

  # Import a DXF and assign a material to every imported part
  cutengine import panels.dxf --material "Birch Ply" --thickness 18`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectPath)
			if err != nil {
				return err
			}

			var result importer.ImportResult
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".csv", ".txt":
				result = importer.ImportCSV(args[0])
			case ".xlsx", ".xlsm":
				result = importer.ImportExcel(args[0])
			case ".dxf":
				result = importer.ImportDXF(args[0])
			default:
				return fmt.Errorf("unsupported file type %q", filepath.Ext(args[0]))
			}

			for _, w := range result.Warnings {
				log.Warn().Msg(w)
			}
			if len(result.Errors) > 0 {
				for _, e := range result.Errors {
					log.Error().Msg(e)
				}
				return fmt.Errorf("import failed with %d error(s)", len(result.Errors))
			}

			for i := range result.Parts {
				if material != "" && result.Parts[i].MaterialID == "" {
					result.Parts[i].MaterialID = material
				}
				if thickness > 0 && result.Parts[i].Thickness == 0 {
					result.Parts[i].Thickness = thickness
				}
			}

			p.Parts = append(p.Parts, result.Parts...)
			if err := project.Save(projectPath, p); err != nil {
				return err
			}

			log.Info().
				Int("imported", len(result.Parts)).
				Int("total", len(p.Parts)).
				Msg("Imported parts")
			return nil
		},
	}

	cmd.Flags().StringVarP(&material, "material", "m", "", "material for parts without one")
	cmd.Flags().Float64VarP(&thickness, "thickness", "t", 0, "thickness for parts without one")

	return cmd
}
