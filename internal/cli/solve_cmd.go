package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/contract"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/spf13/cobra"
)

// solveFlags are shared by solve and reconcile.
type solveFlags struct {
	site        string
	month       string
	assignments map[string]string
	configs     *groupFlag
	save        bool
	yes         bool
	json        bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	f.configs = newGroupFlag()
	cmd.Flags().StringVar(&f.site, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&f.month, "month", "", "Month (YYYY-MM)")
	cmd.Flags().StringToStringVar(&f.assignments, "assign", nil, "Group override EQUIPMENT=CODE (repeatable)")
	cmd.Flags().Var(f.configs, "group", "Group config CODE:estimate=N,min=N,max=N,lock (repeatable)")
	cmd.Flags().BoolVar(&f.save, "save", false, "Persist factors, configs, assignments and history")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Save without asking")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print JSON instead of tables")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("month")
}

func (f *solveFlags) request(class domain.EquipmentClass) contract.SolveRequest {
	req := contract.NewSolveRequest(f.site, f.month, class)
	for id, code := range f.assignments {
		req.Assignments[id] = code
	}
	for code, c := range f.configs.configs {
		req.Configs[code] = c
	}
	return req
}

// shouldPrompt reports whether --save needs an interactive confirmation.
func (f *solveFlags) shouldPrompt(app *App) bool {
	return f.save && !f.yes && !f.json && app.interactive()
}

func newSolveCmd(app *App) *cobra.Command {
	var flags solveFlags
	var classStr string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Fit unit factors for one equipment class and month",
		Long: "Fit tonnes-per-unit factors so predicted production and development tonnage\n" +
			"matches the reconciled totals. Without --save the solve is a read-only\n" +
			"recalculation.",
		Example: "  shiftlog solve --site KAL --month 2025-03 --class loader\n" +
			"  shiftlog solve --site KAL --month 2025-03 --class truck --assign TR-01=HAUL --group HAUL:min=8,max=12 --save",
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := parseClass(classStr)
			if err != nil {
				return err
			}
			ctx := context.Background()
			out := cmd.OutOrStdout()
			req := flags.request(class)

			if !flags.shouldPrompt(app) {
				req.Save = flags.save
				resp, err := app.Solve.Solve(ctx, req)
				if err != nil {
					return err
				}
				return writeSolve(out, flags.json, resp)
			}

			preview, err := app.Solve.Solve(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatSolve(preview))
			ok, err := app.confirm(fmt.Sprintf("Save %s %s factors for %s?", preview.Site.Code, class, preview.Month))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Not saved.")
				return nil
			}

			req.Save = true
			resp, err := app.Solve.Solve(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %d groups for %s %s %s\n", len(resp.Result.Groups), resp.Site.Code, class, resp.Month)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&classStr, "class", "", "Equipment class (loader, truck)")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func newReconcileCmd(app *App) *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Fit loader and truck factors for a month in one step",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			req := flags.request("")

			if flags.shouldPrompt(app) {
				preview, err := app.Solve.SolveAll(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatSolveAll(preview))
				ok, err := app.confirm(fmt.Sprintf("Save loader and truck factors for %s %s?", preview.Loader.Site.Code, preview.Loader.Month))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Not saved.")
					return nil
				}
			}

			req.Save = flags.save
			resp, err := app.Solve.SolveAll(ctx, req)
			if err != nil {
				return err
			}
			if flags.json {
				data, err := formatter.SolveJSON(resp.Loader, resp.Truck)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			if flags.shouldPrompt(app) {
				fmt.Fprintf(out, "Saved loader and truck factors for %s %s\n", resp.Loader.Site.Code, resp.Loader.Month)
				return nil
			}
			fmt.Fprint(out, formatter.FormatSolveAll(resp))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func writeSolve(out io.Writer, asJSON bool, resp *contract.SolveResponse) error {
	if asJSON {
		data, err := formatter.SolveJSON(resp)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprint(out, formatter.FormatSolve(resp))
	return err
}
