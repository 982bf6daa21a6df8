package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StartSpinner animates message on w until the returned stop function is
// called. The stop function clears the line and may be called more than
// once. With enabled false nothing is drawn, so callers need not check
// whether w is a terminal.
func StartSpinner(w io.Writer, enabled bool, message string) func() {
	if !enabled {
		return func() {}
	}

	style := spinner.Dot
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		tick := time.NewTicker(style.FPS)
		defer tick.Stop()
		for frame := 0; ; frame++ {
			fmt.Fprintf(w, "\r  %s %s",
				StylePurple.Render(style.Frames[frame%len(style.Frames)]), Dim(message))
			select {
			case <-quit:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-tick.C:
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
		})
	}
}
