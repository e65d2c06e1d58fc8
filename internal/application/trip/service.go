package trip

import (
	"strings"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
)

type Service struct {
	repo  TripRepo
	users UserRepo
	cache Cache
	clock Clock

	ttlDetails time.Duration
}

func New(repo TripRepo, users UserRepo, clock Clock, cache Cache, ttlDetails time.Duration) *Service {
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	return &Service{
		repo:       repo,
		users:      users,
		cache:      cache,
		clock:      clock,
		ttlDetails: ttlDetails,
	}
}

func requireRequester(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.ErrUnauthenticated("missing requester")
	}
	return id, nil
}

// canMutate hides private trips of others behind not found and rejects
// visible trips the actor does not own.
func canMutate(t *domain.Trip, actorID string) error {
	if !t.VisibleTo(actorID) {
		return domain.ErrTripNotFound()
	}
	if !t.OwnedBy(actorID) {
		return domain.ErrForbidden("only the trip owner can change it")
	}
	return nil
}
