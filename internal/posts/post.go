package posts

import (
	"errors"
	"regexp"
	"time"

	"github.com/anagolic/anagoliccom/internal/content"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrTitleOrSlugEmpty = errors.New("post title or slug empty")
	ErrSlugInvalid      = errors.New("post slug is not url safe")
	ErrSlugTaken        = errors.New("post slug already taken")
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Post is the persisted aggregate owning one content document. Saving is
// always a whole-document replace; there is no partial patching.
type Post struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Excerpt       string           `json:"excerpt"`
	Category      string           `json:"category"`
	CoverImageURL string           `json:"cover_image_url"`
	ReadTime      string           `json:"read_time"`
	Featured      bool             `json:"featured"`
	Status        Status           `json:"status"`
	Personas      []string         `json:"personas"`
	Claps         int              `json:"claps"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	PublishedAt   *time.Time       `json:"published_at,omitempty"`
	Content       content.Document `json:"content"`
}

// Validate checks the fields required before any save is attempted.
func (p *Post) Validate() error {
	if p.Title == "" || p.Slug == "" {
		return ErrTitleOrSlugEmpty
	}
	if !slugRegex.MatchString(p.Slug) {
		return ErrSlugInvalid
	}
	if p.Status != StatusDraft && p.Status != StatusPublished {
		return errors.New("post status invalid")
	}
	return nil
}
