package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultPageSize = 20

// pageLoadedMsg carries one fetched page back to the list view that asked
// for it. owner and gen identify the request; anything else is stale.
type pageLoadedMsg[T any] struct {
	owner *pagedList[T]
	gen   int
	page  envelope.Page[T]
	err   error
}

func (pageLoadedMsg[T]) loadResult() {}

// pagedList is the fetch state shared by the report list views. Each load
// starts a new generation and cancels the one in flight, so only the most
// recent request can update the list.
type pagedList[T any] struct {
	items   []T
	total   int
	cursor  int
	offset  int
	limit   int
	loading bool
	err     error

	gen    int
	cancel context.CancelFunc
}

func newPagedList[T any]() *pagedList[T] {
	return &pagedList[T]{limit: defaultPageSize, loading: true}
}

// load starts a request for the current page. fetch runs off the UI
// goroutine with a context cancelled when a newer load starts.
func (l *pagedList[T]) load(fetch func(ctx context.Context, offset, limit int) (envelope.Page[T], error)) tea.Cmd {
	l.cancelPending()
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.gen++
	l.loading = true

	gen, offset, limit := l.gen, l.offset, l.limit
	return func() tea.Msg {
		page, err := fetch(ctx, offset, limit)
		return pageLoadedMsg[T]{owner: l, gen: gen, page: page, err: err}
	}
}

// settle applies msg if it answers the latest request of this list and
// reports whether it did.
func (l *pagedList[T]) settle(msg pageLoadedMsg[T]) bool {
	if msg.owner != l || msg.gen != l.gen {
		return false
	}
	l.cancelPending()
	l.loading = false
	if msg.err != nil {
		l.err = msg.err
		l.items = nil
		l.total = 0
		l.cursor = 0
		return true
	}
	l.err = nil
	l.items = msg.page.Items
	l.total = msg.page.Total()
	if l.cursor >= len(l.items) {
		l.cursor = max(len(l.items)-1, 0)
	}
	return true
}

func (l *pagedList[T]) cancelPending() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// selected returns the item under the cursor.
func (l *pagedList[T]) selected() (T, bool) {
	var zero T
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return zero, false
	}
	return l.items[l.cursor], true
}

// move handles cursor keys and reports whether the key was consumed.
func (l *pagedList[T]) move(key string) bool {
	switch key {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	default:
		return false
	}
	return true
}

// nextPage advances the offset when more rows exist.
func (l *pagedList[T]) nextPage() bool {
	if l.offset+len(l.items) >= l.total {
		return false
	}
	l.offset += l.limit
	l.cursor = 0
	return true
}

// prevPage moves the offset back one page.
func (l *pagedList[T]) prevPage() bool {
	if l.offset == 0 {
		return false
	}
	l.offset = max(l.offset-l.limit, 0)
	l.cursor = 0
	return true
}

// resetPage returns to the first page, used when filters change.
func (l *pagedList[T]) resetPage() {
	l.offset = 0
	l.cursor = 0
}

// render draws the status line and the table produced by table. A failed
// load shows the error above an empty table.
func (l *pagedList[T]) render(table func([]T) string) string {
	var b strings.Builder
	if l.loading && l.items == nil && l.err == nil {
		b.WriteString("  " + formatter.Dim("Loading...") + "\n")
		return b.String()
	}
	if l.err != nil {
		b.WriteString("  " + formatter.ErrorLine(l.err) + "\n\n")
	}
	b.WriteString(withCursor(table(l.items), l.cursor, len(l.items)))
	if l.err == nil {
		b.WriteString("\n  " + formatter.FormatPageFooter(len(l.items), l.total, l.offset))
		if l.loading {
			b.WriteString("  " + formatter.Dim("refreshing..."))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// withCursor indents a rendered table and marks the selected data row.
// The first two lines are the header and its separator.
func withCursor(table string, cursor, rows int) string {
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		prefix := "  "
		if rows > 0 && i-2 == cursor {
			prefix = formatter.StyleGreen.Render("▸ ")
		}
		b.WriteString(prefix + line + "\n")
	}
	return b.String()
}

// padRight pads a string to a minimum width, truncating if needed.
func padRight(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return s + strings.Repeat(" ", width-len(s))
}
