package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/spf13/cobra"
)

func newRewardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "rewards",
		Aliases:     []string{"reward"},
		Short:       "Manage the points redemption catalog",
		Annotations: guarded,
	}

	cmd.AddCommand(
		newRewardsListCmd(app),
		newRewardsCreateCmd(app),
		newRewardsUpdateCmd(app),
		newRewardsDeleteCmd(app),
	)

	return cmd
}

func newRewardsListCmd(app *App) *cobra.Command {
	var pf pageFlags
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := pf.pagination()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			page, listErr := app.Rewards.List(cmd.Context(), service.RewardFilter{Search: search, Pagination: pg})
			if err := reportFailure(out, listErr); err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatRewards(page.Items))
			if listErr == nil {
				fmt.Fprintln(out, formatter.FormatPageFooter(len(page.Items), page.Total(), pg.Offset))
			}
			return nil
		},
	}

	pf.register(cmd.Flags(), 25)
	cmd.Flags().StringVar(&search, "search", "", "Match name")

	return cmd
}

// registerRewardFlags binds the editable reward fields. Cost and stock are
// strings so the same validators serve flags and forms.
func registerRewardFlags(cmd *cobra.Command, in *rewardInput) {
	cmd.Flags().StringVar(&in.Name, "name", in.Name, "Reward name")
	cmd.Flags().StringVar(&in.Description, "description", in.Description, "Reward description")
	cmd.Flags().StringVar(&in.Cost, "cost", in.Cost, "Points cost")
	cmd.Flags().StringVar(&in.Stock, "stock", in.Stock, "Units available")
	cmd.Flags().BoolVar(&in.Active, "active", in.Active, "Available for redemption")
}

func newRewardsCreateCmd(app *App) *cobra.Command {
	in := rewardInput{Stock: "0", Active: true}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a reward to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Name == "" || in.Cost == "" {
				if !app.interactive() {
					return errors.New("--name and --cost are required when not running in a terminal")
				}
				if err := wizardReward(&in).Run(); err != nil {
					return err
				}
			}
			if err := validateRewardInput(in); err != nil {
				return err
			}

			r := &domain.Reward{}
			in.apply(r)
			created, err := app.Rewards.Create(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created reward %s for %s (%s)\n",
				formatter.Bold(created.Name), formatter.FormatPoints(created.PointsCost), created.ID)
			return nil
		},
	}

	registerRewardFlags(cmd, &in)

	return cmd
}

func newRewardsUpdateCmd(app *App) *cobra.Command {
	var in rewardInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a reward; only the given flags are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Rewards.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			merged := rewardInputFrom(r)
			fs := cmd.Flags()
			if fs.Changed("name") {
				merged.Name = in.Name
			}
			if fs.Changed("description") {
				merged.Description = in.Description
			}
			if fs.Changed("cost") {
				merged.Cost = in.Cost
			}
			if fs.Changed("stock") {
				merged.Stock = in.Stock
			}
			if fs.Changed("active") {
				merged.Active = in.Active
			}
			if err := validateRewardInput(merged); err != nil {
				return err
			}

			merged.apply(r)
			updated, err := app.Rewards.Update(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRewards([]domain.Reward{*updated}))
			return nil
		},
	}

	registerRewardFlags(cmd, &in)

	return cmd
}

func newRewardsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a reward from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("Delete reward %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Rewards.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted reward %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func validateRewardInput(in rewardInput) error {
	if err := validatePositiveInt(in.Cost); err != nil {
		return fmt.Errorf("cost: %w", err)
	}
	if err := validateNonNegativeInt(in.Stock); err != nil {
		return fmt.Errorf("stock: %w", err)
	}
	return nil
}

func newRedemptionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "redemptions",
		Aliases:     []string{"redemption"},
		Short:       "Review reward redemptions",
		Annotations: guarded,
	}

	cmd.AddCommand(
		newRedemptionsListCmd(app),
		newRedemptionStatusCmd(app, "approve", domain.RedemptionApproved),
		newRedemptionStatusCmd(app, "reject", domain.RedemptionRejected),
		newRedemptionStatusCmd(app, "fulfil", domain.RedemptionFulfilled),
	)

	return cmd
}

func newRedemptionsListCmd(app *App) *cobra.Command {
	var wf windowFlags
	var pf pageFlags
	var status, userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List redemptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wf.window()
			if err != nil {
				return err
			}
			pg, err := pf.pagination()
			if err != nil {
				return err
			}
			if status != "" && !domain.ValidRedemptionStatuses[status] {
				return fmt.Errorf("unknown status %q", status)
			}

			out := cmd.OutOrStdout()
			page, listErr := app.Rewards.ListRedemptions(cmd.Context(), service.RedemptionFilter{
				Window:     w,
				Status:     domain.RedemptionStatus(status),
				UserID:     userID,
				Pagination: pg,
			})
			if err := reportFailure(out, listErr); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Dim("Window: ")+formatter.Bold(w.Label()))
			fmt.Fprint(out, formatter.FormatRedemptions(page.Items, app.now()))
			if listErr == nil {
				fmt.Fprintln(out, formatter.FormatPageFooter(len(page.Items), page.Total(), pg.Offset))
			}
			return nil
		},
	}

	wf.register(cmd.Flags())
	pf.register(cmd.Flags(), 25)
	cmd.Flags().StringVar(&status, "status", "", "Only this status (pending, approved, rejected, fulfilled)")
	cmd.Flags().StringVar(&userID, "user", "", "Only this user's redemptions")

	return cmd
}

func newRedemptionStatusCmd(app *App, use string, status domain.RedemptionStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a redemption %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Rewards.SetRedemptionStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %s\n",
				formatter.RedemptionStatusPill(r.Status), r.RewardName, r.UserName)
			return nil
		},
	}
}
