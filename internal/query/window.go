// Package query builds the query parameters sent with report requests.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownWindow indicates a window name outside the closed enumeration.
	ErrUnknownWindow = errors.New("unknown time window")

	// ErrInvalidDate indicates a custom bound that is not a YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrConflictingWindow indicates a named window combined with custom bounds.
	ErrConflictingWindow = errors.New("custom bounds given with a named window")
)

// DateLayout is the calendar-date format for custom bounds.
const DateLayout = "2006-01-02"

type WindowKind string

const (
	WindowAll        WindowKind = "all"
	WindowLast7Days  WindowKind = "last_7_days"
	WindowLast30Days WindowKind = "last_30_days"
	WindowLast90Days WindowKind = "last_90_days"
	WindowThisWeek   WindowKind = "this_week"
	WindowThisMonth  WindowKind = "this_month"
	WindowCustom     WindowKind = "custom"
)

// WindowKinds lists every window in display order.
var WindowKinds = []WindowKind{
	WindowAll,
	WindowLast7Days,
	WindowLast30Days,
	WindowLast90Days,
	WindowThisWeek,
	WindowThisMonth,
	WindowCustom,
}

// Label returns a short human label for the window kind.
func (k WindowKind) Label() string {
	switch k {
	case WindowAll:
		return "All time"
	case WindowLast7Days:
		return "Last 7 days"
	case WindowLast30Days:
		return "Last 30 days"
	case WindowLast90Days:
		return "Last 90 days"
	case WindowThisWeek:
		return "This week"
	case WindowThisMonth:
		return "This month"
	case WindowCustom:
		return "Custom range"
	default:
		return string(k)
	}
}

func (k WindowKind) valid() bool {
	for _, w := range WindowKinds {
		if w == k {
			return true
		}
	}
	return false
}

// Window is either a named relative range or a custom range. From and To
// are inclusive calendar dates and only meaningful when Kind is custom.
// The zero value means all time.
type Window struct {
	Kind WindowKind
	From string
	To   string
}

// Named returns a relative window. Passing WindowCustom yields an unbounded
// custom range.
func Named(kind WindowKind) Window {
	return Window{Kind: kind}
}

// Custom returns a custom range. Either bound may be empty.
func Custom(from, to string) Window {
	return Window{Kind: WindowCustom, From: from, To: to}
}

// Label describes the window for headers and breadcrumbs.
func (w Window) Label() string {
	if w.Kind != WindowCustom {
		return w.kind().Label()
	}
	switch {
	case w.From != "" && w.To != "":
		return w.From + " → " + w.To
	case w.From != "":
		return "since " + w.From
	case w.To != "":
		return "until " + w.To
	default:
		return "All time"
	}
}

func (w Window) kind() WindowKind {
	if w.Kind == "" {
		return WindowAll
	}
	return w.Kind
}

// Next cycles to the following named window, skipping custom. Used by
// interactive views to step through windows with a single key.
func (w Window) Next() Window {
	named := WindowKinds[:len(WindowKinds)-1]
	for i, k := range named {
		if k == w.kind() {
			return Named(named[(i+1)%len(named)])
		}
	}
	return Named(WindowAll)
}

// ParseWindow validates user input from flags or forms. A name of "" with
// any bound set selects custom; a name of "" with no bounds selects all.
func ParseWindow(name, from, to string) (Window, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	kind := WindowKind(name)
	if name == "" {
		kind = WindowAll
		if from != "" || to != "" {
			kind = WindowCustom
		}
	}
	if !kind.valid() {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
	}
	if kind != WindowCustom {
		if from != "" || to != "" {
			return Window{}, fmt.Errorf("%w: %s", ErrConflictingWindow, kind)
		}
		return Named(kind), nil
	}

	if err := ValidateDate(from); err != nil {
		return Window{}, err
	}
	if err := ValidateDate(to); err != nil {
		return Window{}, err
	}
	if from != "" && to != "" && from > to {
		return Window{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidDate, from, to)
	}
	return Custom(from, to), nil
}

// ValidateDate accepts an empty string or a YYYY-MM-DD date.
func ValidateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q (use YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return nil
}
