package domain

import "time"

type BlogPost struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Status      BlogStatus `json:"status"`
	AuthorID    string     `json:"author_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
}

// IsPublished reports whether the post is visible to platform users.
func (p *BlogPost) IsPublished() bool {
	return p.Status == BlogPublished
}
