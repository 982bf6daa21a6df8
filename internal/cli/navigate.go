package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// resetStackMsg replaces the whole stack with a single view.
type resetStackMsg struct {
	view View
}

// sessionExpiredMsg is posted by the expiry navigator when the server
// rejects the session. The stack is replaced by the login view.
type sessionExpiredMsg struct {
	reason string
}

// loggedOutMsg follows an explicit logout from the command bar.
type loggedOutMsg struct {
	err error
}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// quitMsg ends the program.
type quitMsg struct{}

// cmdOutputMsg carries text output from a command execution
// to be displayed transiently in the current view.
type cmdOutputMsg struct {
	output string
}

// actionDoneMsg reports the outcome of a mutation started from a view.
// On success every view reloads.
type actionDoneMsg struct {
	output string
	err    error
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// loadResult marks messages carrying fetched data. They are delivered to
// every view on the stack so a result is not lost when a form is open on
// top of the view that asked for it.
type loadResult interface {
	loadResult()
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// resetStack returns a tea.Cmd that makes v the only view.
func resetStack(v View) tea.Cmd {
	return func() tea.Msg { return resetStackMsg{view: v} }
}

// actionDone wraps a mutation outcome as a tea.Msg.
func actionDone(output string, err error) tea.Msg {
	return actionDoneMsg{output: output, err: err}
}
