package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RoleBadge returns a colored role label.
func RoleBadge(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return StylePurple.Render("admin")
	case domain.RoleStaff:
		return StyleBlue.Render("staff")
	case domain.RoleUser:
		return StyleFg.Render("user")
	default:
		return StyleDim.Render(string(role))
	}
}

// ActivePill renders an account's active flag.
func ActivePill(active bool) string {
	if active {
		return StyleGreen.Render("● active")
	}
	return StyleDim.Render("○ disabled")
}

// BlogStatusPill returns a colored indicator for a blog post status.
func BlogStatusPill(status domain.BlogStatus) string {
	switch status {
	case domain.BlogPublished:
		return StyleGreen.Render("● published")
	case domain.BlogDraft:
		return StyleYellow.Render("○ draft")
	default:
		return StyleDim.Render(string(status))
	}
}

// RedemptionStatusPill returns a colored indicator for a redemption status.
func RedemptionStatusPill(status domain.RedemptionStatus) string {
	switch status {
	case domain.RedemptionPending:
		return StyleYellow.Render("○ pending")
	case domain.RedemptionApproved:
		return StyleBlue.Render("● approved")
	case domain.RedemptionFulfilled:
		return StyleGreen.Render("✔ fulfilled")
	case domain.RedemptionRejected:
		return StyleRed.Render("✖ rejected")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// ErrorLine renders an inline, recoverable error.
func ErrorLine(err error) string {
	return StyleRed.Render("Error: " + err.Error())
}
