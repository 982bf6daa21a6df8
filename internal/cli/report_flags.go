package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/spf13/pflag"
)

// windowFlags are the time-window filters shared by report commands.
type windowFlags struct {
	name string
	from string
	to   string
}

func (f *windowFlags) register(fs *pflag.FlagSet) {
	names := make([]string, 0, len(query.WindowKinds))
	for _, k := range query.WindowKinds {
		names = append(names, string(k))
	}
	fs.StringVar(&f.name, "window", "", "Time window: "+strings.Join(names, ", "))
	fs.StringVar(&f.from, "from", "", "Custom range start (YYYY-MM-DD, inclusive)")
	fs.StringVar(&f.to, "to", "", "Custom range end (YYYY-MM-DD, inclusive)")
}

// window validates the flags into a query.Window.
func (f *windowFlags) window() (query.Window, error) {
	return query.ParseWindow(f.name, f.from, f.to)
}

// pageFlags are the pagination flags shared by list commands.
type pageFlags struct {
	limit  int
	offset int
}

func (f *pageFlags) register(fs *pflag.FlagSet, defaultLimit int) {
	fs.IntVar(&f.limit, "limit", defaultLimit, "Maximum rows to fetch")
	fs.IntVar(&f.offset, "offset", 0, "Rows to skip")
}

func (f *pageFlags) pagination() (query.Pagination, error) {
	if f.limit < 0 {
		return query.Pagination{}, fmt.Errorf("--limit must not be negative, got %d", f.limit)
	}
	if f.offset < 0 {
		return query.Pagination{}, fmt.Errorf("--offset must not be negative, got %d", f.offset)
	}
	return query.Pagination{Limit: f.limit, Offset: f.offset}, nil
}

// reportFailure prints a fetch error inline above the (empty) table that
// follows it. A rejected session is returned instead so the command exits
// non-zero after the expiry notice.
func reportFailure(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return err
	}
	fmt.Fprintln(w, formatter.ErrorLine(err))
	return nil
}
