package cli

import (
	"time"

	"github.com/alexanderramin/carbonadmin/internal/guard"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/alexanderramin/carbonadmin/internal/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the session, guard and service references used by CLI commands
// and TUI views.
type App struct {
	Sessions *session.Store
	Guard    *guard.Guard

	Dashboard  service.DashboardService
	Activities service.ActivityService
	Users      service.UserService
	Blogs      service.BlogService
	Rewards    service.RewardService

	// Watcher handles 401/403 signals. The console points its navigator at
	// the running program; commands leave it printing to stderr.
	Watcher *session.ExpiryWatcher

	// IsInteractive reports whether stdin is a terminal. When nil, the bare
	// command prints help instead of opening the console.
	IsInteractive func() bool

	// Now overrides time.Now for relative timestamps.
	Now func() time.Time

	Log zerolog.Logger
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// annotationGuarded marks commands whose subtree requires an admin session.
const annotationGuarded = "carbonadmin/guarded"

var guarded = map[string]string{annotationGuarded: "true"}

// NewRootCmd creates the top-level "carbonadmin" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "carbonadmin",
		Short:         "Administrative console for the carbon-reduction platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isGuarded(cmd) {
				return nil
			}
			return app.Guard.Require(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runConsole(cmd, app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newActivityCmd(app),
		newUsersCmd(app),
		newBlogCmd(app),
		newRewardsCmd(app),
		newRedemptionsCmd(app),
		newConsoleCmd(app),
	)

	return root
}

// isGuarded walks from cmd up to the root looking for the guarded annotation.
func isGuarded(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationGuarded] == "true" {
			return true
		}
	}
	return false
}
