package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/session"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				p, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}

			if email == "" || password == "" {
				if !app.interactive() {
					return errors.New("--email and --password (or --password-stdin) are required when not running in a terminal")
				}
				if err := newLoginForm(&email, &password).Run(); err != nil {
					return err
				}
			}

			sess, err := app.Sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.New(authMessage(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s %s\n",
				formatter.Bold(sess.Principal.Name), formatter.RoleBadge(sess.Principal.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := app.Sessions.Current()
			if sess.IsZero() {
				return session.ErrNoSession
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPrincipal(sess, app))
			return nil
		},
	}
}

func formatPrincipal(sess domain.Session, app *App) string {
	p := sess.Principal
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", formatter.Bold(p.Name), formatter.RoleBadge(p.Role))
	fmt.Fprintf(&b, "%s\n", formatter.Dim(p.Email))
	if exp, ok := sess.ExpiresAt(); ok {
		fmt.Fprintf(&b, "%s %s\n", formatter.Dim("token expires"), formatter.HumanTimestamp(exp, app.now()))
	}
	return b.String()
}

// newLoginForm builds the email/password form used by both the login
// command and the console's login view.
func newLoginForm(email, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email).
				Validate(requiredField("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(requiredField("password")),
		),
	).WithTheme(carbonHuhTheme()).WithShowHelp(false)
}

// authMessage extracts the user-facing message from a login error.
func authMessage(err error) string {
	var ae *session.AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
