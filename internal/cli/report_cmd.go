package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var wf windowFlags
	var top int

	cmd := &cobra.Command{
		Use:         "dashboard",
		Short:       "Show usage summary, CO2 chart and leaderboard",
		Annotations: guarded,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wf.window()
			if err != nil {
				return err
			}

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.interactive(), "Loading dashboard...")
			d := app.Dashboard.Load(cmd.Context(), w, top)
			stop()

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(d))
			for _, err := range d.Errors {
				if errors.Is(err, apiclient.ErrSessionExpired) {
					return err
				}
			}
			return nil
		},
	}

	wf.register(cmd.Flags())
	cmd.Flags().IntVar(&top, "top", service.DefaultLeaderboardLimit, "Leaderboard size")

	return cmd
}

func newActivityCmd(app *App) *cobra.Command {
	var wf windowFlags
	var pf pageFlags
	var userID, activityType string

	cmd := &cobra.Command{
		Use:         "activity",
		Short:       "List logged carbon-reducing activities",
		Annotations: guarded,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wf.window()
			if err != nil {
				return err
			}
			pg, err := pf.pagination()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			page, listErr := app.Activities.List(cmd.Context(), service.ActivityFilter{
				Window:     w,
				UserID:     userID,
				Type:       domain.ActivityType(activityType),
				Pagination: pg,
			})
			if err := reportFailure(out, listErr); err != nil {
				return err
			}

			fmt.Fprintln(out, formatter.Dim("Window: ")+formatter.Bold(w.Label()))
			fmt.Fprint(out, formatter.FormatActivities(page.Items, app.now()))
			if listErr == nil {
				fmt.Fprintln(out, formatter.FormatPageFooter(len(page.Items), page.Total(), pg.Offset))
			}
			return nil
		},
	}

	wf.register(cmd.Flags())
	pf.register(cmd.Flags(), 50)
	cmd.Flags().StringVar(&userID, "user", "", "Only this user's activities")
	cmd.Flags().StringVar(&activityType, "type", "", "Only this activity type (walking, cycling, ...)")

	return cmd
}
