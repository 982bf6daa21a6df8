package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// commandBar is the persistent text input at the bottom of the TUI.
// It handles command entry, autocomplete suggestions, and history navigation.
type commandBar struct {
	input   textinput.Model
	state   *SharedState
	focused bool

	// history for this console session only
	history    []string
	historyIdx int
}

// barCommand is one command understood by the bar.
type barCommand struct {
	name    string
	args    string
	help    string
	windows bool // first argument is a time window
}

var barCommands = []barCommand{
	{name: "dashboard", args: "[window]", help: "usage summary, chart and leaderboard", windows: true},
	{name: "activity", args: "[window]", help: "activity log", windows: true},
	{name: "users", args: "[search]", help: "user accounts"},
	{name: "blog", help: "blog posts"},
	{name: "rewards", help: "reward catalog"},
	{name: "redemptions", args: "[window]", help: "redemption requests", windows: true},
	{name: "whoami", help: "signed-in account"},
	{name: "logout", help: "sign out"},
	{name: "help", help: "this list"},
	{name: "quit", help: "leave the console"},
}

func newCommandBar(state *SharedState) commandBar {
	ti := textinput.New()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	ti.CharLimit = 200
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	return commandBar{
		input: ti,
		state: state,
	}
}

// Focus gives focus to the command bar.
func (c *commandBar) Focus() {
	c.focused = true
	c.input.Focus()
}

// Blur removes focus from the command bar.
func (c *commandBar) Blur() {
	c.focused = false
	c.input.Blur()
}

// Focused returns whether the command bar has focus.
func (c *commandBar) Focused() bool {
	return c.focused
}

// SetWidth updates the input width for terminal resizing.
func (c *commandBar) SetWidth(w int) {
	c.input.Width = max(w-len(c.promptPrefixPlain())-1, 10)
}

// Update handles key messages when the command bar is focused.
func (c *commandBar) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(c.input.Value())
		c.input.Reset()
		c.input.SetSuggestions(nil)
		if input == "" {
			return nil
		}
		c.addHistory(input)
		c.Blur()
		return c.executeCommand(input)

	case tea.KeyUp:
		c.historyUp()
		return nil

	case tea.KeyDown:
		c.historyDown()
		return nil

	case tea.KeyEsc:
		c.Blur()
		return nil

	default:
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		c.updateSuggestions()
		return cmd
	}
}

// UpdateNonKey handles non-key messages (e.g., cursor blink).
func (c *commandBar) UpdateNonKey(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the command bar.
func (c *commandBar) View() string {
	if !c.focused {
		return c.promptPrefix() + formatter.Dim("press : to type a command")
	}
	return c.promptPrefix() + c.input.View()
}

func (c *commandBar) promptPrefix() string {
	return formatter.StyleGreen.Render("carbonadmin") + " " + formatter.Dim("❯") + " "
}

func (c *commandBar) promptPrefixPlain() string {
	return "carbonadmin > "
}

// executeCommand turns a command line into navigation or output.
func (c *commandBar) executeCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	state := c.state

	windowArg := func() (query.Window, error) {
		if len(args) == 0 {
			return query.Window{}, nil
		}
		return query.ParseWindow(args[0], "", "")
	}

	switch name {
	case "dashboard", "home":
		w, err := windowArg()
		if err != nil {
			return outputCmd(formatter.ErrorLine(err))
		}
		v := newDashboardView(state)
		v.window = w
		return resetStack(v)

	case "activity":
		w, err := windowArg()
		if err != nil {
			return outputCmd(formatter.ErrorLine(err))
		}
		v := newActivityView(state)
		v.window = w
		return pushView(v)

	case "users":
		v := newUserListView(state)
		v.search = strings.Join(args, " ")
		return pushView(v)

	case "blog":
		return pushView(newBlogListView(state))

	case "rewards":
		return pushView(newRewardListView(state))

	case "redemptions":
		w, err := windowArg()
		if err != nil {
			return outputCmd(formatter.ErrorLine(err))
		}
		v := newRedemptionListView(state)
		v.window = w
		return pushView(v)

	case "whoami":
		sess := state.App.Sessions.Current()
		if sess.IsZero() {
			return outputCmd(formatter.Dim("Not logged in."))
		}
		return outputCmd(formatPrincipal(sess, state.App))

	case "logout":
		sessions := state.App.Sessions
		return func() tea.Msg {
			return loggedOutMsg{err: sessions.Logout(context.Background())}
		}

	case "help", "?":
		return outputCmd(barHelp())

	case "quit", "exit":
		return func() tea.Msg { return quitMsg{} }
	}

	return outputCmd(formatter.ErrorLine(fmt.Errorf("unknown command %q, type help for a list", name)))
}

func barHelp() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Commands") + "\n")
	for _, c := range barCommands {
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", padRight(usage, 24), formatter.Dim(c.help)))
	}
	b.WriteString("\n" + formatter.Dim("Windows: "+strings.Join(windowNames(), ", ")) + "\n")
	return b.String()
}

func windowNames() []string {
	names := make([]string, 0, len(query.WindowKinds))
	for _, k := range query.WindowKinds {
		if k != query.WindowCustom {
			names = append(names, string(k))
		}
	}
	return names
}

// ── history ──────────────────────────────────────────────────────────────────

func (c *commandBar) addHistory(line string) {
	c.history = append(c.history, line)
	c.historyIdx = len(c.history)
}

func (c *commandBar) historyUp() {
	if c.historyIdx > 0 {
		c.historyIdx--
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	}
}

func (c *commandBar) historyDown() {
	if c.historyIdx < len(c.history)-1 {
		c.historyIdx++
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	} else {
		c.historyIdx = len(c.history)
		c.input.SetValue("")
	}
}

// ── suggestions ──────────────────────────────────────────────────────────────

func (c *commandBar) updateSuggestions() {
	c.input.SetSuggestions(suggestionsFor(c.input.Value()))
}

// suggestionsFor completes a command name, or a window name after a
// command that takes one. Suggestions are full lines.
func suggestionsFor(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Fields(text)
	trailingSpace := strings.HasSuffix(text, " ")

	if len(parts) == 1 && !trailingSpace {
		var out []string
		for _, bc := range barCommands {
			if strings.HasPrefix(bc.name, strings.ToLower(parts[0])) {
				out = append(out, bc.name)
			}
		}
		return out
	}

	if len(parts) > 2 || (len(parts) == 2 && trailingSpace) {
		return nil
	}
	for _, bc := range barCommands {
		if bc.name != strings.ToLower(parts[0]) || !bc.windows {
			continue
		}
		prefix := ""
		if len(parts) == 2 {
			prefix = parts[1]
		}
		var out []string
		for _, w := range windowNames() {
			if strings.HasPrefix(w, prefix) {
				out = append(out, bc.name+" "+w)
			}
		}
		return out
	}
	return nil
}
