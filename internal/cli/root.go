package cli

import (
	"github.com/alexanderramin/shiftlog/internal/app"
	"github.com/alexanderramin/shiftlog/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sites      service.SiteService
	Equipment  service.EquipmentService
	Activities service.ActivityService
	Totals     service.TotalsService
	History    service.HistoryService
	Solve      app.SolveUseCase
	Import     app.ImportSiteUseCase

	// IsInteractive reports whether prompts can be shown. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil falls back to a huh form.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "shiftlog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "shiftlog",
		Short:         "Shift activity log and monthly tonnage reconciliation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSiteCmd(app),
		newEquipmentCmd(app),
		newActivityCmd(app),
		newTotalsCmd(app),
		newSolveCmd(app),
		newReconcileCmd(app),
		newHistoryCmd(app),
		newImportCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
