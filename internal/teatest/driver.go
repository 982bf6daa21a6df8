// Package teatest runs bubbletea models synchronously in tests.
//
// A Driver stands in for tea.Program: every message goes through Update on
// the test goroutine, and the commands it returns are executed and their
// messages queued until nothing is left. Commands that block (cursor blink
// timers, for example) are abandoned after a short timeout.
package teatest

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxSteps bounds one Send so a model that keeps producing messages fails
// the test instead of hanging it.
const maxSteps = 500

// DefaultCmdTimeout is how long a command may run before it is dropped.
// Fake-backed loads return at once; blink timers take about half a second.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver owns the model under test.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once the model returns tea.Quit.
	Quitting bool

	cmdTimeout time.Duration

	mu    sync.Mutex
	queue []tea.Msg
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.cmdTimeout = timeout }
}

// New wraps model. Call DrainInit to run its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.exec(d.Model.Init())
	d.run()
}

// Post queues msg the way Program.Send would. It may be called from any
// goroutine; the message is delivered by the next Send or DrainInit.
func (d *Driver) Post(msg tea.Msg) {
	d.mu.Lock()
	d.queue = append(d.queue, msg)
	d.mu.Unlock()
}

// Send delivers msg and everything that follows from it.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	d.Post(msg)
	d.run()
}

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) next() (tea.Msg, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil, false
	}
	msg := d.queue[0]
	d.queue = d.queue[1:]
	return msg, true
}

func (d *Driver) run() {
	d.T.Helper()
	for step := 0; ; step++ {
		if step == maxSteps {
			d.T.Fatalf("teatest: model still busy after %d messages", maxSteps)
		}
		msg, ok := d.next()
		if !ok || d.Quitting {
			return
		}
		if _, quit := msg.(tea.QuitMsg); quit {
			d.Quitting = true
		}
		var cmd tea.Cmd
		d.Model, cmd = d.Model.Update(msg)
		d.exec(cmd)
	}
}

// exec runs cmd and queues its message. Batches are flattened so each
// member's message is queued on its own.
func (d *Driver) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := d.call(cmd)
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			d.exec(c)
		}
	default:
		if !isBlink(msg) {
			d.Post(msg)
		}
	}
}

func (d *Driver) call(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.cmdTimeout):
		return nil
	}
}

// isBlink matches the cursor packages' blink messages, which re-arm
// themselves forever.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
