package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a site bundle from YAML or JSON",
		Long: "Import a site with its equipment, shift activity, reconciled totals,\n" +
			"group assignments and configs. The whole file is validated first and\n" +
			"written in one transaction.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportSite(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(
				result.Site,
				result.EquipmentCount,
				result.ActivityCount,
				result.TotalsCount,
				result.AssignmentCount,
				result.ConfigCount,
			))
			return nil
		},
	}
}
