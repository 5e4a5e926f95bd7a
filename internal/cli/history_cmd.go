package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/repository"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var siteRef, classStr, monthStr, code string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved factor history",
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
			month, err := parseOptionalMonth(monthStr)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative")
			}

			entries, err := app.History.List(ctx, site.ID, repository.HistoryFilter{
				Class: class,
				Month: month,
				Code:  strings.TrimSpace(code),
				Limit: limit,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(entries, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site code or ID")
	cmd.Flags().StringVar(&classStr, "class", "", "Only this class (loader, truck)")
	cmd.Flags().StringVar(&monthStr, "month", "", "Only this month (YYYY-MM)")
	cmd.Flags().StringVar(&code, "code", "", "Only this config group")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}
