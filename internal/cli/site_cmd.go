package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/spf13/cobra"
)

func newSiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage mine sites",
	}

	cmd.AddCommand(
		newSiteAddCmd(app),
		newSiteListCmd(app),
	)

	return cmd
}

func newSiteAddCmd(app *App) *cobra.Command {
	var code, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new site",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Site{Code: code, Name: name}
			if err := app.Sites.Create(context.Background(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created site %s [%s]\n", s.Name, s.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Site code (2-8 uppercase letters or digits, e.g. KAL)")
	cmd.Flags().StringVar(&name, "name", "", "Site name")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSiteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := app.Sites.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSiteList(sites))
			return nil
		},
	}
}
