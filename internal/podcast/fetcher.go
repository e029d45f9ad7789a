package podcast

import (
	"context"
	"errors"
	"sort"

	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

// EpisodeSource is a single platform's episode listing.
type EpisodeSource interface {
	Episodes(ctx context.Context) ([]Episode, error)
}

// Fetcher combines the configured sources into one most-recent-first
// episode list. The data API is preferred, the public feed is the fallback,
// spotify entries come best effort on top. With no sources configured at
// all the page degrades to "no episodes" instead of erroring.
type Fetcher struct {
	api     EpisodeSource
	feed    EpisodeSource
	spotify EpisodeSource
}

func NewFetcher(api, feed, spotify EpisodeSource) *Fetcher {
	return &Fetcher{
		api:     api,
		feed:    feed,
		spotify: spotify,
	}
}

func (f *Fetcher) Episodes(ctx context.Context) ([]Episode, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "podcast.fetcher.episodes")
	defer span.End()

	episodes, err := f.videoEpisodes(ctx)
	if err != nil {
		return nil, err
	}

	if f.spotify != nil {
		spotifyEpisodes, err := f.spotify.Episodes(ctx)
		if err != nil {
			log.Errorf("get spotify episodes: %s", err)
		} else {
			episodes = append(episodes, spotifyEpisodes...)
		}
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].PublishDate.After(episodes[j].PublishDate)
	})

	return episodes, nil
}

func (f *Fetcher) videoEpisodes(ctx context.Context) ([]Episode, error) {
	if f.api == nil && f.feed == nil {
		return []Episode{}, nil
	}

	if f.api != nil {
		episodes, err := f.api.Episodes(ctx)
		if err == nil {
			return episodes, nil
		}
		switch {
		case errors.Is(err, ErrQuotaExceeded):
			log.Errorf("video api quota exceeded, falling back to feed: %s", err)
		case errors.Is(err, ErrRateLimited):
			log.Errorf("video api rate limited, falling back to feed: %s", err)
		default:
			log.Errorf("video api failed, falling back to feed: %s", err)
		}
		if f.feed == nil {
			return nil, err
		}
	}

	return f.feed.Episodes(ctx)
}
