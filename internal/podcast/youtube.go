package podcast

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	playlistPageSize   = 50
	durationsBatchSize = 50
)

// YouTubeSource reads the full episode list of a channel via the YouTube
// Data API: uploads playlist resolution, playlist pagination, then duration
// lookups in batches. All calls are sequential, a failed call is final.
type YouTubeSource struct {
	channelID  string
	service    *youtube.Service
	clientOpts []option.ClientOption
}

func NewYouTubeSource(apiKey, channelID string, opts ...option.ClientOption) *YouTubeSource {
	return &YouTubeSource{
		channelID:  channelID,
		clientOpts: append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...),
	}
}

// ChannelIDFromURL extracts the channel id from a youtube channel URL, e.g.
// https://www.youtube.com/channel/UCabc123. Empty string when not found.
func ChannelIDFromURL(channelURL string) string {
	u, err := url.Parse(channelURL)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("channel_id"); id != "" {
		return id
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "channel" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func (s *YouTubeSource) getService(ctx context.Context) (*youtube.Service, error) {
	if s.service != nil {
		return s.service, nil
	}
	service, err := youtube.NewService(ctx, s.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	s.service = service
	return s.service, nil
}

func (s *YouTubeSource) Episodes(ctx context.Context) ([]Episode, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "podcast.youtubeSource.episodes")
	defer span.End()

	service, err := s.getService(ctx)
	if err != nil {
		return nil, err
	}

	uploadsPlaylistID, err := s.uploadsPlaylistID(ctx, service)
	if err != nil {
		return nil, asTypedAPIError(err)
	}

	episodes, err := s.playlistEpisodes(ctx, service, uploadsPlaylistID)
	if err != nil {
		return nil, asTypedAPIError(err)
	}

	if err := s.resolveDurations(ctx, service, episodes); err != nil {
		return nil, asTypedAPIError(err)
	}

	return filterSentinels(episodes), nil
}

func (s *YouTubeSource) uploadsPlaylistID(ctx context.Context, service *youtube.Service) (string, error) {
	channelsResp, err := service.Channels.
		List([]string{"contentDetails"}).
		Id(s.channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}
	if len(channelsResp.Items) == 0 {
		return "", fmt.Errorf("channel %s not found", s.channelID)
	}
	return channelsResp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func (s *YouTubeSource) playlistEpisodes(
	ctx context.Context,
	service *youtube.Service,
	playlistID string,
) ([]Episode, error) {
	var episodes []Episode
	pageToken := ""
	for {
		playlistResp, err := service.PlaylistItems.
			List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(playlistPageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("list playlist items: %w", err)
		}

		for _, item := range playlistResp.Items {
			videoID := item.Snippet.ResourceId.VideoId
			publishDate, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				log.Errorf("parse publish date of video %s: %s", videoID, err)
			}
			episodes = append(episodes, Episode{
				ID:          videoID,
				Title:       item.Snippet.Title,
				Link:        fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
				PublishDate: publishDate,
				Description: item.Snippet.Description,
				Thumbnail:   thumbnailURL(item.Snippet.Thumbnails),
				Platform:    PlatformYouTube,
				ExternalURL: fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
			})
		}

		pageToken = playlistResp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return episodes, nil
}

// resolveDurations fills in Episode.Duration in place, batch by batch.
func (s *YouTubeSource) resolveDurations(
	ctx context.Context,
	service *youtube.Service,
	episodes []Episode,
) error {
	durations := make(map[string]string, len(episodes))
	for start := 0; start < len(episodes); start += durationsBatchSize {
		end := start + durationsBatchSize
		if end > len(episodes) {
			end = len(episodes)
		}

		ids := make([]string, 0, end-start)
		for _, e := range episodes[start:end] {
			ids = append(ids, e.ID)
		}

		videosResp, err := service.Videos.
			List([]string{"contentDetails"}).
			Id(ids...).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("list videos: %w", err)
		}

		for _, video := range videosResp.Items {
			durations[video.Id] = formatISO8601Duration(video.ContentDetails.Duration)
		}
	}

	for i := range episodes {
		episodes[i].Duration = durations[episodes[i].ID]
	}
	return nil
}

func thumbnailURL(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	if thumbnails.High != nil {
		return thumbnails.High.Url
	}
	if thumbnails.Medium != nil {
		return thumbnails.Medium.Url
	}
	if thumbnails.Default != nil {
		return thumbnails.Default.Url
	}
	return ""
}

// asTypedAPIError maps quota and rate limit responses to their sentinel
// errors so callers can log them differently. Everything else is returned
// unchanged.
func asTypedAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "quotaExceeded", "dailyLimitExceeded":
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, err)
		case "rateLimitExceeded", "userRateLimitExceeded":
			return fmt.Errorf("%w: %s", ErrRateLimited, err)
		}
	}
	return err
}
