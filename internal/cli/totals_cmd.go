package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/solver"
	"github.com/spf13/cobra"
)

func newTotalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Record reconciled monthly tonnage",
	}

	cmd.AddCommand(
		newTotalsSetCmd(app),
		newTotalsShowCmd(app),
		newTotalsLockCmd(app),
	)

	return cmd
}

func newTotalsSetCmd(app *App) *cobra.Command {
	var siteRef, monthStr string
	var prod, dev float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set reconciled production and development tonnes for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}
			month, err := domain.ParseMonth(monthStr)
			if err != nil {
				return err
			}

			t := &domain.ReconciledTotals{SiteID: site.ID, Month: month, ProdTonnes: prod, DevTonnes: dev}
			if err := app.Totals.Set(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s %s totals: production %s t, development %s t\n",
				site.Code, month, solver.FormatTonnes(prod), solver.FormatTonnes(dev))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&monthStr, "month", "", "Month (YYYY-MM)")
	cmd.Flags().Float64Var(&prod, "prod", 0, "Reconciled production tonnes")
	cmd.Flags().Float64Var(&dev, "dev", 0, "Reconciled development tonnes")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func newTotalsShowCmd(app *App) *cobra.Command {
	var siteRef, monthStr string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show reconciled totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}

			var totals []*domain.ReconciledTotals
			if monthStr != "" {
				month, err := domain.ParseMonth(monthStr)
				if err != nil {
					return err
				}
				t, err := app.Totals.Get(ctx, site.ID, month)
				if err != nil {
					return fmt.Errorf("totals for %s %s: %w", site.Code, month, err)
				}
				totals = append(totals, t)
			} else {
				totals, err = app.Totals.List(ctx, site.ID)
				if err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTotalsList(totals))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&monthStr, "month", "", "Only this month (YYYY-MM)")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func newTotalsLockCmd(app *App) *cobra.Command {
	var siteRef, monthStr string
	var unlock bool

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Lock a month's totals against edits and saved solves",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}
			month, err := domain.ParseMonth(monthStr)
			if err != nil {
				return err
			}
			if err := app.Totals.Lock(ctx, site.ID, month, !unlock); err != nil {
				return err
			}
			state := "Locked"
			if unlock {
				state = "Unlocked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s totals\n", state, site.Code, month)
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&monthStr, "month", "", "Month (YYYY-MM)")
	cmd.Flags().BoolVar(&unlock, "unlock", false, "Unlock instead")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}
