package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// carbonHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func carbonHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// requiredField returns a validator rejecting blank input.
func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if query.ValidateDate(strings.TrimSpace(s)) != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// atoiOr parses s, returning def for empty or malformed input. Forms
// validate before this runs.
func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(carbonHuhTheme()).WithShowHelp(false)
}

// wizardSelectRole creates a huh form to pick a role.
func wizardSelectRole(current domain.Role, result *string) *huh.Form {
	*result = string(current)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("admin", string(domain.RoleAdmin)),
					huh.NewOption("staff", string(domain.RoleStaff)),
					huh.NewOption("user", string(domain.RoleUser)),
				).
				Value(result),
		),
	).WithTheme(carbonHuhTheme()).WithShowHelp(false)
}

// customRangeInput holds the raw form values for a custom window.
type customRangeInput struct {
	From string
	To   string
}

// wizardCustomRange creates a huh form for a custom date range.
func wizardCustomRange(in *customRangeInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From (YYYY-MM-DD)").
				Placeholder("blank for no lower bound").
				Value(&in.From).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("To (YYYY-MM-DD)").
				Placeholder("blank for no upper bound").
				Value(&in.To).
				Validate(validateOptionalDate),
		),
	).WithTheme(carbonHuhTheme()).WithShowHelp(false)
}

// rewardInput holds the raw form values for a reward.
type rewardInput struct {
	Name        string
	Description string
	Cost        string
	Stock       string
	Active      bool
}

func rewardInputFrom(r *domain.Reward) rewardInput {
	return rewardInput{
		Name:        r.Name,
		Description: r.Description,
		Cost:        strconv.Itoa(r.PointsCost),
		Stock:       strconv.Itoa(r.Stock),
		Active:      r.IsActive,
	}
}

// apply copies the form values onto r.
func (in rewardInput) apply(r *domain.Reward) {
	r.Name = strings.TrimSpace(in.Name)
	r.Description = strings.TrimSpace(in.Description)
	r.PointsCost = atoiOr(in.Cost, 0)
	r.Stock = atoiOr(in.Stock, 0)
	r.IsActive = in.Active
}

// wizardReward creates the create/edit form for a reward.
func wizardReward(in *rewardInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name).Validate(requiredField("name")),
			huh.NewInput().Title("Description").Value(&in.Description),
			huh.NewInput().Title("Points cost").Value(&in.Cost).
				Validate(func(s string) error {
					if err := requiredField("points cost")(s); err != nil {
						return err
					}
					return validatePositiveInt(s)
				}),
			huh.NewInput().Title("Stock").Value(&in.Stock).Validate(validateNonNegativeInt),
			huh.NewConfirm().Title("Available for redemption?").Value(&in.Active),
		),
	).WithTheme(carbonHuhTheme()).WithShowHelp(false)
}

// blogInput holds the raw form values for a blog post.
type blogInput struct {
	Title   string
	Summary string
	Content string
	Publish bool
}

func (in blogInput) post() *domain.BlogPost {
	status := domain.BlogDraft
	if in.Publish {
		status = domain.BlogPublished
	}
	return &domain.BlogPost{
		Title:   strings.TrimSpace(in.Title),
		Summary: strings.TrimSpace(in.Summary),
		Content: in.Content,
		Status:  status,
	}
}

// wizardBlogPost creates the form for a new blog post.
func wizardBlogPost(in *blogInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&in.Title).Validate(requiredField("title")),
			huh.NewInput().Title("Summary").Value(&in.Summary),
			huh.NewText().Title("Content").Lines(8).Value(&in.Content).Validate(requiredField("content")),
			huh.NewConfirm().Title("Publish now?").Value(&in.Publish),
		),
	).WithTheme(carbonHuhTheme()).WithShowHelp(false)
}
