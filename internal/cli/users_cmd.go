package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "users",
		Aliases:     []string{"user"},
		Short:       "Manage platform user accounts",
		Annotations: guarded,
	}

	cmd.AddCommand(
		newUsersListCmd(app),
		newUsersShowCmd(app),
		newUsersSetRoleCmd(app),
		newUsersSetActiveCmd(app, "activate", true),
		newUsersSetActiveCmd(app, "deactivate", false),
		newUsersDeleteCmd(app),
	)

	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var pf pageFlags
	var search, role string
	var active bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := pf.pagination()
			if err != nil {
				return err
			}
			if role != "" && !domain.ValidRoles[role] {
				return fmt.Errorf("unknown role %q (use admin, staff or user)", role)
			}

			f := service.UserFilter{Search: search, Role: domain.Role(role), Pagination: pg}
			if cmd.Flags().Changed("active") {
				f.Active = &active
			}

			out := cmd.OutOrStdout()
			page, listErr := app.Users.List(cmd.Context(), f)
			if err := reportFailure(out, listErr); err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatUsers(page.Items))
			if listErr == nil {
				fmt.Fprintln(out, formatter.FormatPageFooter(len(page.Items), page.Total(), pg.Offset))
			}
			return nil
		},
	}

	pf.register(cmd.Flags(), 25)
	cmd.Flags().StringVar(&search, "search", "", "Match name or email")
	cmd.Flags().StringVar(&role, "role", "", "Only this role (admin, staff, user)")
	cmd.Flags().BoolVar(&active, "active", true, "Only active (--active) or inactive (--active=false) accounts")

	return cmd
}

func newUsersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUser(u))
			return nil
		},
	}
}

func newUsersSetRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <id> <admin|staff|user>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := strings.ToLower(args[1])
			if !domain.ValidRoles[role] {
				return fmt.Errorf("unknown role %q (use admin, staff or user)", args[1])
			}
			u, err := app.Users.UpdateRole(cmd.Context(), args[0], domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", formatter.Bold(u.Name), formatter.RoleBadge(u.Role))
			return nil
		},
	}
}

func newUsersSetActiveCmd(app *App, use string, active bool) *cobra.Command {
	short := "Re-enable a user account"
	if !active {
		short = "Disable a user account"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Users.SetActive(cmd.Context(), args[0], active)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(u.Name), formatter.ActivePill(u.IsActive))
			return nil
		},
	}
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(app, yes, fmt.Sprintf("Delete user %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// confirmDestructive asks before an irreversible change. Without a terminal
// the --yes flag is required.
func confirmDestructive(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, fmt.Errorf("refusing to continue without confirmation, pass --yes")
	}
	var ok bool
	if err := wizardConfirm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}
