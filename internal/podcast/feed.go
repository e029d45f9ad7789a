package podcast

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// FeedSource reads the channel's public XML feed. No key needed, but the
// feed only carries the ~15 most recent entries and no durations.
type FeedSource struct {
	feedURL string
	parser  *gofeed.Parser
}

func NewFeedSource(feedURL string) *FeedSource {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Second * 20,
	}
	return &FeedSource{
		feedURL: feedURL,
		parser:  parser,
	}
}

// FeedURLForChannel builds the public videos feed URL of a channel.
func FeedURLForChannel(channelID string) string {
	return fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", channelID)
}

func (s *FeedSource) Episodes(ctx context.Context) ([]Episode, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "podcast.feedSource.episodes")
	defer span.End()

	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	episodes := make([]Episode, 0, len(feed.Items))
	for _, item := range feed.Items {
		var publishDate time.Time
		if item.PublishedParsed != nil {
			publishDate = *item.PublishedParsed
		}

		thumbnail := ""
		if item.Image != nil {
			thumbnail = item.Image.URL
		}

		episodes = append(episodes, Episode{
			ID:          item.GUID,
			Title:       item.Title,
			Link:        item.Link,
			PublishDate: publishDate,
			Description: item.Description,
			Thumbnail:   thumbnail,
			Platform:    PlatformYouTube,
			ExternalURL: item.Link,
		})
	}

	return filterSentinels(episodes), nil
}
