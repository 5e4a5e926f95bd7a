package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/spf13/cobra"
)

func newEquipmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Aliases: []string{"eq"},
		Short:   "Manage loaders and trucks",
	}

	cmd.AddCommand(
		newEquipmentAddCmd(app),
		newEquipmentListCmd(app),
		newEquipmentAssignCmd(app),
	)

	return cmd
}

func newEquipmentAddCmd(app *App) *cobra.Command {
	var siteRef, id, classStr, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a loader or truck at a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}
			class, err := parseClass(classStr)
			if err != nil {
				return err
			}

			e := &domain.Equipment{SiteID: site.ID, ID: id, Class: class, Name: name}
			if err := app.Equipment.Register(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s %s at %s\n", class, e.ID, site.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&id, "id", "", "Fleet number (e.g. LHD-07)")
	cmd.Flags().StringVar(&classStr, "class", "", "Equipment class (loader, truck)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the fleet number)")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func newEquipmentListCmd(app *App) *cobra.Command {
	var siteRef, classStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a site's equipment with group assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}
			class, err := parseOptionalClass(classStr)
			if err != nil {
				return err
			}

			equipment, err := app.Equipment.List(ctx, site.ID, class)
			if err != nil {
				return err
			}
			classes := domain.AllClasses
			if class != "" {
				classes = []domain.EquipmentClass{class}
			}
			var assignments []domain.Assignment
			for _, c := range classes {
				as, err := app.Equipment.Assignments(ctx, site.ID, c)
				if err != nil {
					return err
				}
				assignments = append(assignments, as...)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEquipmentList(equipment, assignments))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&classStr, "class", "", "Only this class (loader, truck)")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func newEquipmentAssignCmd(app *App) *cobra.Command {
	var siteRef, code string
	var unassign bool

	cmd := &cobra.Command{
		Use:   "assign EQUIPMENT_ID...",
		Short: "Place equipment into a config group",
		Long: "Place equipment into a config group. Machines in the same group share one factor.\n" +
			"Use --unassign to return machines to their own singleton group.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unassign == (code != "") {
				return fmt.Errorf("exactly one of --code or --unassign is required")
			}
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}

			for _, id := range args {
				if err := app.Equipment.Assign(ctx, site.ID, id, code); err != nil {
					return fmt.Errorf("assigning %s: %w", id, err)
				}
				if unassign {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared group for %s\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s → %s\n", id, code)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&code, "code", "", "Config group code")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "Remove the assignment")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}
