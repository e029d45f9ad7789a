package podcast

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrQuotaExceeded = errors.New("video api quota exceeded")
	ErrRateLimited   = errors.New("video api rate limited")
)

const (
	PlatformYouTube = "youtube"
	PlatformSpotify = "spotify"
)

// titles YouTube reports for videos that are gone or hidden
var sentinelTitles = map[string]struct{}{
	"Deleted video": {},
	"Private video": {},
}

type Episode struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishDate time.Time `json:"publishDate"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    string    `json:"duration"`
	Platform    string    `json:"platform"`
	ExternalURL string    `json:"externalUrl"`
}

func isSentinelTitle(title string) bool {
	_, ok := sentinelTitles[title]
	return ok
}

// filterSentinels drops deleted/private entries, keeping the input order.
func filterSentinels(episodes []Episode) []Episode {
	filtered := make([]Episode, 0, len(episodes))
	for _, e := range episodes {
		if isSentinelTitle(e.Title) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// formatISO8601Duration turns a youtube duration like PT1H2M3S into 1:02:03.
// Returns an empty string for input it cannot understand.
func formatISO8601Duration(isoDuration string) string {
	raw := strings.TrimPrefix(isoDuration, "PT")
	if raw == isoDuration || raw == "" {
		return ""
	}

	var hours, minutes, seconds int
	num := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'H':
			hours = num
			num = 0
		case r == 'M':
			minutes = num
			num = 0
		case r == 'S':
			seconds = num
			num = 0
		default:
			return ""
		}
	}

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func formatMillisDuration(millis int) string {
	totalSeconds := millis / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
