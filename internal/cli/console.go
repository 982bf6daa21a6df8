package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/carbonadmin/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newConsoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, app)
		},
	}
}

// runConsole runs the TUI. While it runs, a rejected session is reported to
// the program so the stack is replaced by the login view.
func runConsole(cmd *cobra.Command, app *App) error {
	p := tea.NewProgram(newAppModel(app),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	if app.Watcher != nil {
		app.Watcher.SetNavigator(programNavigator{p: p})
		defer app.Watcher.SetNavigator(StderrNavigator(cmd.ErrOrStderr()))
	}

	_, err := p.Run()
	return err
}

// programNavigator delivers expiry redirects to a running program. Send is
// safe to call from the request goroutine that saw the 401/403.
type programNavigator struct {
	p *tea.Program
}

func (n programNavigator) ToLogin(reason string) {
	n.p.Send(sessionExpiredMsg{reason: reason})
}

// StderrNavigator reports a forced sign-out for one-shot commands, which
// then exit with the request error.
func StderrNavigator(w io.Writer) session.Navigator {
	return session.NavigatorFunc(func(reason string) {
		fmt.Fprintf(w, "%s (run `carbonadmin login`)\n", reason)
	})
}
