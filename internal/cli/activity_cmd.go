package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Log and review shift activity",
	}

	cmd.AddCommand(
		newActivityLogCmd(app),
		newActivityReviewCmd(app, "validate", "Validated", "Mark submitted activity as validated", app.validateActivity),
		newActivityReviewCmd(app, "reject", "Rejected", "Reject submitted activity so it no longer counts", app.rejectActivity),
		newActivityListCmd(app),
		newActivitySummaryCmd(app),
	)

	return cmd
}

func newActivityLogCmd(app *App) *cobra.Command {
	var siteRef, equipmentID, date, categoryStr, kindStr, operator string
	var units int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log units from a shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}
			shiftDate, err := parseShiftDate(date, time.Now())
			if err != nil {
				return err
			}
			category, err := parseCategory(categoryStr)
			if err != nil {
				return err
			}
			kind, err := parseKind(kindStr)
			if err != nil {
				return err
			}

			a := &domain.ShiftActivity{
				SiteID:      site.ID,
				EquipmentID: equipmentID,
				ShiftDate:   shiftDate,
				Category:    category,
				Kind:        kind,
				Units:       units,
				Operator:    operator,
			}
			if err := app.Activities.Log(ctx, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d %s units for %s on %s [%s]\n",
				a.Units, a.Kind, a.EquipmentID, formatter.ShiftDate(a.ShiftDate), a.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Fleet number")
	cmd.Flags().StringVar(&date, "date", "today", "Shift date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&categoryStr, "category", "production", "Tonnage category (production, development)")
	cmd.Flags().StringVar(&kindStr, "kind", "", "Activity kind (defaults to loading for loaders, hauling for trucks)")
	cmd.Flags().IntVar(&units, "units", 0, "Buckets or loads moved")
	cmd.Flags().StringVar(&operator, "operator", "", "Operator name")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("equipment")
	_ = cmd.MarkFlagRequired("units")

	return cmd
}

func newActivityReviewCmd(app *App, use, done, short string, apply func(ctx context.Context, id string) error) *cobra.Command {
	var siteRef string

	cmd := &cobra.Command{
		Use:   use + " ID...",
		Short: short,
		Long:  short + ". With --site, IDs may be abbreviated to a unique prefix.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			for _, input := range args {
				id, err := resolveActivityID(ctx, app, siteRef, input)
				if err != nil {
					return err
				}
				if err := apply(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, id[:min(8, len(id))])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID (enables ID prefixes)")

	return cmd
}

func (a *App) validateActivity(ctx context.Context, id string) error {
	return a.Activities.Validate(ctx, id)
}

func (a *App) rejectActivity(ctx context.Context, id string) error {
	return a.Activities.Reject(ctx, id)
}

// resolveActivityID expands a unique ID prefix within a site. Without a
// site the input is used as-is.
func resolveActivityID(ctx context.Context, app *App, siteRef, input string) (string, error) {
	if siteRef == "" {
		return input, nil
	}
	site, err := resolveSite(ctx, app, siteRef)
	if err != nil {
		return "", err
	}
	activities, err := app.Activities.List(ctx, site.ID, repository.ActivityFilter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, a := range activities {
		if a.ID == input {
			return a.ID, nil
		}
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("activity not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("activity ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newActivityListCmd(app *App) *cobra.Command {
	var siteRef, monthStr, equipmentID, statusStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, siteRef)
			if err != nil {
				return err
			}
			month, err := parseOptionalMonth(monthStr)
			if err != nil {
				return err
			}
			status := domain.ShiftStatus(strings.ToLower(statusStr))
			switch status {
			case "", domain.ShiftSubmitted, domain.ShiftValidated, domain.ShiftRejected:
			default:
				return fmt.Errorf("invalid status %q (expected submitted, validated or rejected)", statusStr)
			}

			activities, err := app.Activities.List(ctx, site.ID, repository.ActivityFilter{
				Month:       month,
				EquipmentID: equipmentID,
				Status:      status,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityList(activities))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&monthStr, "month", "", "Only this month (YYYY-MM)")
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Only this fleet number")
	cmd.Flags().StringVar(&statusStr, "status", "", "Only this status (submitted, validated, rejected)")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func newActivitySummaryCmd(app *App) *cobra.Command {
	var siteRef, monthStr, classStr string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the per-machine unit counts a solve would use",
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
			class, err := parseOptionalClass(classStr)
			if err != nil {
				return err
			}
			classes := domain.AllClasses
			if class != "" {
				classes = []domain.EquipmentClass{class}
			}

			out := cmd.OutOrStdout()
			for i, c := range classes {
				items, err := app.Activities.Summary(ctx, site.ID, c, month)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatUnitSummary(c, month, items))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&monthStr, "month", "", "Month (YYYY-MM)")
	cmd.Flags().StringVar(&classStr, "class", "", "Only this class (loader, truck)")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}
