package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
)

const (
	blogsPath   = "/admin/blogs"
	uploadsPath = "/admin/uploads"
	uploadField = "file"

	// MaxCoverBytes bounds cover image uploads.
	MaxCoverBytes = 5 << 20
)

var coverExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type blogService struct {
	api      API
	observer UseCaseObserver
}

func NewBlogService(api API, observers ...UseCaseObserver) BlogService {
	return &blogService{api: api, observer: useCaseObserverOrNoop(observers)}
}

func (s *blogService) List(ctx context.Context, f BlogFilter) (envelope.Page[domain.BlogPost], error) {
	return fetchPage[domain.BlogPost](ctx, s.api, blogsPath, f.Params())
}

func (s *blogService) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	if err := requireID("blog", id); err != nil {
		return nil, err
	}
	body, err := s.api.Get(ctx, itemPath(blogsPath, id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.BlogPost](body)
}

func (s *blogService) Create(ctx context.Context, p *domain.BlogPost) (out *domain.BlogPost, err error) {
	done := observe(ctx, s.observer, "create-blog", map[string]any{"title": p.Title})
	defer done(&err)

	if err := validatePost(p); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = domain.BlogDraft
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	body, err := s.api.Post(ctx, blogsPath, p)
	if err != nil {
		return nil, fmt.Errorf("creating blog post: %w", err)
	}
	return decodeOne[domain.BlogPost](body)
}

func (s *blogService) Update(ctx context.Context, p *domain.BlogPost) (out *domain.BlogPost, err error) {
	done := observe(ctx, s.observer, "update-blog", map[string]any{"blog_id": p.ID})
	defer done(&err)

	if err := requireID("blog", p.ID); err != nil {
		return nil, err
	}
	if err := validatePost(p); err != nil {
		return nil, err
	}
	body, err := s.api.Put(ctx, itemPath(blogsPath, p.ID), p)
	if err != nil {
		return nil, fmt.Errorf("updating blog post %s: %w", p.ID, err)
	}
	return decodeOne[domain.BlogPost](body)
}

func (s *blogService) Publish(ctx context.Context, id string) (out *domain.BlogPost, err error) {
	done := observe(ctx, s.observer, "publish-blog", map[string]any{"blog_id": id})
	defer done(&err)

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.IsPublished() {
		return post, nil
	}
	post.Status = domain.BlogPublished
	body, err := s.api.Put(ctx, itemPath(blogsPath, id), post)
	if err != nil {
		return nil, fmt.Errorf("publishing blog post %s: %w", id, err)
	}
	return decodeOne[domain.BlogPost](body)
}

func (s *blogService) Delete(ctx context.Context, id string) (err error) {
	done := observe(ctx, s.observer, "delete-blog", map[string]any{"blog_id": id})
	defer done(&err)

	if err := requireID("blog", id); err != nil {
		return err
	}
	if _, err := s.api.Delete(ctx, itemPath(blogsPath, id)); err != nil {
		return fmt.Errorf("deleting blog post %s: %w", id, err)
	}
	return nil
}

// UploadCover sends the image at path as multipart form data and returns
// the stored asset URL.
func (s *blogService) UploadCover(ctx context.Context, path string) (url string, err error) {
	done := observe(ctx, s.observer, "upload-cover", map[string]any{"file": filepath.Base(path)})
	defer done(&err)

	ext := strings.ToLower(filepath.Ext(path))
	if !coverExtensions[ext] {
		return "", invalid("unsupported image type %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening cover image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("reading cover image: %w", err)
	}
	if info.Size() > MaxCoverBytes {
		return "", invalid("cover image is %d bytes, limit is %d", info.Size(), MaxCoverBytes)
	}

	body, err := s.api.Upload(ctx, uploadsPath, uploadField, filepath.Base(path), f)
	if err != nil {
		return "", fmt.Errorf("uploading cover image: %w", err)
	}
	return parseUploadURL(body)
}

func parseUploadURL(body []byte) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	v, _, err := envelope.Decode[json.RawMessage](body)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(v, &resp); err != nil {
		return "", apiclient.DecodeError(err)
	}
	if resp.URL == "" {
		return "", apiclient.DecodeError(errors.New("upload response has no url"))
	}
	return resp.URL, nil
}

func validatePost(p *domain.BlogPost) error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("blog title is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return invalid("blog content is required")
	}
	if p.Status != "" && p.Status != domain.BlogDraft && p.Status != domain.BlogPublished {
		return invalid("unknown blog status %q", p.Status)
	}
	return nil
}

// Slugify lowercases title and joins its alphanumeric runs with hyphens.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
