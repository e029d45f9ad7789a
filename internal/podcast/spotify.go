package podcast

import (
	"context"
	"fmt"

	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// SpotifySource reads the episodes of a show via the client credentials
// flow. Best effort only, results are merged after the YouTube entries.
type SpotifySource struct {
	showID string
	client *spotify.Client
	conf   *clientcredentials.Config
}

func NewSpotifySource(clientID, clientSecret, showID string) *SpotifySource {
	return &SpotifySource{
		showID: showID,
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
	}
}

func (s *SpotifySource) getClient(ctx context.Context) (*spotify.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	token, err := s.conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get spotify token: %w", err)
	}
	s.client = spotify.New(spotifyauth.New().Client(ctx, token))
	return s.client, nil
}

func (s *SpotifySource) Episodes(ctx context.Context) ([]Episode, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "podcast.spotifySource.episodes")
	defer span.End()

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	episodesPage, err := client.GetShowEpisodes(ctx, s.showID)
	if err != nil {
		return nil, fmt.Errorf("get show episodes: %w", err)
	}

	episodes := make([]Episode, 0, len(episodesPage.Episodes))
	for _, e := range episodesPage.Episodes {
		episodes = append(episodes, episodeFromSpotify(e))
	}

	return episodes, nil
}

func episodeFromSpotify(e spotify.EpisodePage) Episode {
	externalURL := e.ExternalURLs["spotify"]
	thumbnail := ""
	if len(e.Images) > 0 {
		thumbnail = e.Images[0].URL
	}
	return Episode{
		ID:          string(e.ID),
		Title:       e.Name,
		Link:        externalURL,
		PublishDate: e.ReleaseDateTime(),
		Description: e.Description,
		Thumbnail:   thumbnail,
		Duration:    formatMillisDuration(int(e.Duration_ms)),
		Platform:    PlatformSpotify,
		ExternalURL: externalURL,
	}
}
