package search

import (
	"fmt"
	"time"

	"github.com/anagolic/anagoliccom/internal/podcast"
	"github.com/anagolic/anagoliccom/internal/posts"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
)

const (
	RecordTypePost    = "post"
	RecordTypeEpisode = "episode"
)

// Record is the flattened shape every indexed entity is normalized to
// before upload, regardless of whether it came from a blog post or a
// podcast episode.
type Record struct {
	ObjectID    string `json:"objectID"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Thumbnail   string `json:"thumbnail"`
	Duration    string `json:"duration"`
}

func FromPost(post *posts.Post) Record {
	date := post.CreatedAt
	if post.PublishedAt != nil {
		date = *post.PublishedAt
	}
	return Record{
		ObjectID:    fmt.Sprintf("post-%d", post.ID),
		Type:        RecordTypePost,
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         fmt.Sprintf("/blog/%s", post.Slug),
		Category:    post.Category,
		Date:        date.Format(time.RFC3339),
		Thumbnail:   post.CoverImageURL,
		Duration:    post.ReadTime,
	}
}

func FromEpisode(episode podcast.Episode) Record {
	return Record{
		ObjectID:    fmt.Sprintf("episode-%s", episode.ID),
		Type:        RecordTypeEpisode,
		Title:       episode.Title,
		Description: episode.Description,
		URL:         episode.ExternalURL,
		Category:    "podcast",
		Date:        episode.PublishDate.Format(time.RFC3339),
		Thumbnail:   episode.Thumbnail,
		Duration:    episode.Duration,
	}
}

// IndexSettings is the search configuration uploaded next to the records.
func IndexSettings() search.Settings {
	return search.Settings{
		SearchableAttributes: opt.SearchableAttributes(
			"title",
			"description",
			"category",
		),
		AttributesForFaceting: opt.AttributesForFaceting(
			"type",
			"category",
		),
		CustomRanking: opt.CustomRanking(
			"desc(date)",
		),
	}
}
