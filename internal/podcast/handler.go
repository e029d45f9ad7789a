package podcast

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anagolic/anagoliccom/internal/telemetry/metrics"
	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"
	"github.com/anagolic/anagoliccom/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	oneMinute           = 60
	episodesCacheExpire = oneMinute * 30
	episodesCacheKey    = "podcast::episodes"
)

type episodesFetcher interface {
	Episodes(ctx context.Context) ([]Episode, error)
}

type Handler struct {
	fetcher episodesFetcher
	cache   *freecache.Cache
	metrics *metrics.Manager
}

func NewHandler(fetcher episodesFetcher, metricsManager *metrics.Manager) *Handler {
	// freecache rejects entries above 1/1024 of the cache size, so the
	// cache has to be big enough for a full episode list in one entry
	megabyte := 1024 * 1024
	cacheSize := 50 * megabyte
	return &Handler{
		fetcher: fetcher,
		cache:   freecache.NewCache(cacheSize),
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/episodes", handler.handleEpisodes).Methods("GET", "OPTIONS").Name("podcast-episodes")
}

func (handler *Handler) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "podcastHandler.episodes")
	defer span.End()

	if cachedBytes, err := handler.cache.Get([]byte(episodesCacheKey)); err == nil {
		log.Tracef("found podcast episodes in cache")
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cachedBytes)
		return
	}

	handler.metrics.CounterEpisodeFetches.Inc()
	episodes, err := handler.fetcher.Episodes(ctx)
	if err != nil {
		log.Errorf("get podcast episodes: %s", err)
		http.Error(w, "failed to get episodes", http.StatusInternalServerError)
		return
	}

	episodesBytes, err := json.Marshal(episodes)
	if err != nil {
		log.Errorf("marshal podcast episodes: %s", err)
		http.Error(w, "failed to get episodes", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(episodesCacheKey), episodesBytes, episodesCacheExpire); err != nil {
		log.Errorf("failed to set podcast episodes cache: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, episodesBytes)
}
