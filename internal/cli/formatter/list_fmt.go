package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/carbonadmin/internal/domain"
)

// FormatUsers renders the user list.
func FormatUsers(users []domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			TruncID(u.ID),
			Truncate(u.Name, 24),
			u.Email,
			RoleBadge(u.Role),
			FormatPoints(u.Points),
			FormatKg(u.CO2SavedKg),
			ActivePill(u.IsActive),
		})
	}
	return RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "POINTS", "CO2", "STATUS"}, rows, "No users match.")
}

// FormatUser renders one user's details.
func FormatUser(u *domain.User) string {
	return RenderBox(u.Name, detailLines(
		"ID", u.ID,
		"Email", u.Email,
		"Role", RoleBadge(u.Role),
		"Status", ActivePill(u.IsActive),
		"Points", FormatPoints(u.Points),
		"CO2 saved", FormatKg(u.CO2SavedKg),
		"Joined", HumanDate(u.CreatedAt),
	))
}

// FormatActivities renders the activity log.
func FormatActivities(items []domain.Activity, now time.Time) string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			HumanTimestamp(a.OccurredAt, now),
			Truncate(a.UserName, 20),
			string(a.Type),
			StyleGreen.Render(FormatKg(a.CO2SavedKg)),
			FormatPoints(a.Points),
		})
	}
	return RenderTable([]string{"WHEN", "USER", "TYPE", "CO2", "POINTS"}, rows, "No activity in this window.")
}

// FormatBlogPosts renders the blog list.
func FormatBlogPosts(posts []domain.BlogPost) string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		published := "--"
		if p.PublishedAt != nil {
			published = HumanDate(*p.PublishedAt)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Truncate(p.Title, 40),
			BlogStatusPill(p.Status),
			published,
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "PUBLISHED"}, rows, "No posts yet.")
}

// FormatBlogPost renders one post with its body.
func FormatBlogPost(p *domain.BlogPost) string {
	meta := detailLines(
		"ID", p.ID,
		"Slug", p.Slug,
		"Status", BlogStatusPill(p.Status),
		"Cover", orDash(p.CoverURL),
	)
	body := p.Content
	if p.Summary != "" {
		body = StyleFg.Italic(true).Render(p.Summary) + "\n\n" + body
	}
	return RenderBox(p.Title, meta+"\n"+body)
}

// FormatRewards renders the reward catalog.
func FormatRewards(rewards []domain.Reward) string {
	rows := make([][]string, 0, len(rewards))
	for _, r := range rewards {
		stock := fmt.Sprintf("%d", r.Stock)
		if !r.InStock() {
			stock = StyleRed.Render("out")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			Truncate(r.Name, 30),
			FormatPoints(r.PointsCost),
			stock,
			ActivePill(r.IsActive),
		})
	}
	return RenderTable([]string{"ID", "NAME", "COST", "STOCK", "STATUS"}, rows, "No rewards in the catalog.")
}

// FormatRedemptions renders redemption requests.
func FormatRedemptions(items []domain.Redemption, now time.Time) string {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{
			TruncID(r.ID),
			Truncate(r.UserName, 20),
			Truncate(r.RewardName, 24),
			FormatPoints(r.PointsSpent),
			RedemptionStatusPill(r.Status),
			HumanTimestamp(r.CreatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "USER", "REWARD", "POINTS", "STATUS", "REQUESTED"}, rows, "No redemptions in this window.")
}

// FormatPageFooter renders "showing x of y" under a paginated table.
func FormatPageFooter(shown, total, offset int) string {
	if total <= shown && offset == 0 {
		return Dim(fmt.Sprintf("%d total", total))
	}
	return Dim(fmt.Sprintf("showing %d-%d of %d", min(offset+1, total), offset+shown, total))
}

func detailLines(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(Dim(padRight(pairs[i], 11)) + pairs[i+1] + "\n")
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
