package trip

import (
	"fmt"
	"time"

	"github.com/baechuer/trip-service/internal/application/calendar"
)

func cacheKeyTripDetails(id string) string {
	return fmt.Sprintf("trip:%s", id)
}

// invalidationKeys lists every cached view a change to ownerID's trip can
// affect: the graph itself and the owner's year overviews touched by the
// trip's dates.
func invalidationKeys(tripID, ownerID string, start, end time.Time) []string {
	keys := []string{cacheKeyTripDetails(tripID)}
	for y := start.Year(); y <= end.Year(); y++ {
		keys = append(keys, calendar.YearCacheKey(ownerID, y))
	}
	return keys
}
