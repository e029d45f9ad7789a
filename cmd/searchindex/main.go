// One-shot tool that flattens published blog posts and podcast episodes
// into search records and uploads them, plus the index settings, to Algolia.
// No flags, everything comes from the environment.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/anagolic/anagoliccom/internal/db"
	"github.com/anagolic/anagoliccom/internal/podcast"
	"github.com/anagolic/anagoliccom/internal/posts"
	"github.com/anagolic/anagoliccom/internal/search"

	algoliasearch "github.com/algolia/algoliasearch-client-go/v3/algolia/search"
)

func init() {
	log.SetOutput(os.Stdout)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appID := os.Getenv("ALGOLIA_APP_ID")
	if appID == "" {
		appID = os.Getenv("NEXT_PUBLIC_ALGOLIA_APP_ID")
	}
	adminAPIKey := os.Getenv("ALGOLIA_ADMIN_API_KEY")
	if appID == "" || adminAPIKey == "" {
		fmt.Println("Error: ALGOLIA_APP_ID (or NEXT_PUBLIC_ALGOLIA_APP_ID) and ALGOLIA_ADMIN_API_KEY must be set")
		os.Exit(1)
	}

	indexName := os.Getenv("ALGOLIA_INDEX_NAME")
	if indexName == "" {
		indexName = "website"
	}

	postRecords, err := getPostRecords(ctx)
	if err != nil {
		log.Fatalf("Failed to get post records: %v\n", err)
	}
	log.Printf("collected %d post records", len(postRecords))

	// a failed podcast fetch must not abort indexing the posts
	episodeRecords := getEpisodeRecords(ctx)
	log.Printf("collected %d episode records", len(episodeRecords))

	records := append(postRecords, episodeRecords...)
	if len(records) == 0 {
		log.Println("nothing to index, done")
		return
	}

	index := algoliasearch.NewClient(appID, adminAPIKey).InitIndex(indexName)
	if _, err := index.SaveObjects(records); err != nil {
		log.Fatalf("Failed to upload records: %v\n", err)
	}
	if _, err := index.SetSettings(search.IndexSettings()); err != nil {
		log.Fatalf("Failed to upload index settings: %v\n", err)
	}

	log.Printf("uploaded %d records to index %q", len(records), indexName)
}

func getPostRecords(ctx context.Context) ([]search.Record, error) {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	dbName := os.Getenv("POSTGRES_DB_NAME")
	if dbName == "" {
		dbName = "anagolic"
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         port,
		DBName:         dbName,
		TracingEnabled: false,
	})
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	defer dbPool.Close()

	publishedPosts, err := posts.NewRepo(dbPool).ListPublished(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	records := make([]search.Record, 0, len(publishedPosts))
	for _, post := range publishedPosts {
		records = append(records, search.FromPost(post))
	}
	return records, nil
}

// getEpisodeRecords is best effort: on any failure it logs and returns an
// empty contribution so the post records still get indexed.
func getEpisodeRecords(ctx context.Context) []search.Record {
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	channelID := podcast.ChannelIDFromURL(os.Getenv("NEXT_PUBLIC_YOUTUBE_URL"))
	if channelID == "" {
		log.Println("no youtube channel configured, skipping episode records")
		return nil
	}

	var api podcast.EpisodeSource
	if apiKey != "" {
		api = podcast.NewYouTubeSource(apiKey, channelID)
	}
	feed := podcast.NewFeedSource(podcast.FeedURLForChannel(channelID))

	episodes, err := podcast.NewFetcher(api, feed, nil).Episodes(ctx)
	if err != nil {
		log.Printf("Failed to fetch podcast episodes, continuing without them: %v\n", err)
		return nil
	}

	records := make([]search.Record, 0, len(episodes))
	for _, episode := range episodes {
		records = append(records, search.FromEpisode(episode))
	}
	return records
}
