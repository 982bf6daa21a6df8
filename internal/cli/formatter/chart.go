package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clamp01(pct)
	if width < 2 {
		width = 2
	}

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderBarChart renders one horizontal bar per chart bucket, scaled to
// the largest CO2 value. width is the bar length of the largest bucket.
func RenderBarChart(points []domain.ChartPoint, width int) string {
	if len(points) == 0 {
		return Dim("No activity in this window.") + "\n"
	}
	if width < 4 {
		width = 4
	}

	labelW := 0
	peak := 0.0
	for _, p := range points {
		labelW = max(labelW, lipgloss.Width(p.Label))
		peak = max(peak, p.CO2SavedKg)
	}

	var b strings.Builder
	for _, p := range points {
		n := 0
		if peak > 0 {
			n = int(p.CO2SavedKg / peak * float64(width))
		}
		if n == 0 && p.CO2SavedKg > 0 {
			n = 1
		}
		// Negative buckets (net emissions) draw an empty bar.
		n = min(max(n, 0), width)
		fmt.Fprintf(&b, "%s  %s%s  %s\n",
			StyleFg.Render(padRight(p.Label, labelW)),
			StyleGreen.Render(strings.Repeat(filledBlock, n)),
			strings.Repeat(" ", width-n),
			Dim(fmt.Sprintf("%s · %d", FormatKg(p.CO2SavedKg), p.Activities)),
		)
	}
	return b.String()
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
}
