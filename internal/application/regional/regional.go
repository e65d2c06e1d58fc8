// Package regional picks other travelers' public, same-country trips that
// have not ended yet.
package regional

import (
	"sort"
	"strings"
	"time"

	"github.com/baechuer/trip-service/internal/domain"
)

type Criteria struct {
	RequesterID string
	Country     string
	// Today is the date of "now"; trips ending before it are excluded.
	Today  time.Time
	Limit  int
	Offset int
}

func NewCriteria(requesterID, country string, now time.Time, limit, offset int) (Criteria, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return Criteria{}, domain.ErrUnauthenticated("requester is required")
	}
	if domain.NormalizeCountry(country) == "" {
		return Criteria{}, domain.ErrValidationMeta("region unknown", map[string]string{
			"country": "requester profile has no country",
		})
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return Criteria{
		RequesterID: requesterID,
		Country:     strings.TrimSpace(country),
		Today:       domain.DateOf(now),
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// Eligible applies the filter rules: public, same country as the requester,
// not owned by the requester, end_date >= today.
func (c Criteria) Eligible(t *domain.Trip, ownerCountry string) bool {
	if !t.IsPublic {
		return false
	}
	if t.OwnerID == c.RequesterID {
		return false
	}
	if domain.NormalizeCountry(ownerCountry) != domain.NormalizeCountry(c.Country) {
		return false
	}
	return !t.EndDate.Before(c.Today)
}

// Less orders by created_at desc, end_date asc, id asc.
func Less(a, b *domain.Trip) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if !a.EndDate.Equal(b.EndDate) {
		return a.EndDate.Before(b.EndDate)
	}
	return a.ID < b.ID
}

// Select filters, orders and pages trips. ownerCountry maps owner id to the
// owner's country. It returns the page and the total number of eligible trips.
func Select(trips []*domain.Trip, ownerCountry map[string]string, c Criteria) ([]*domain.Trip, int) {
	var eligible []*domain.Trip
	for _, t := range trips {
		if c.Eligible(t, ownerCountry[t.OwnerID]) {
			eligible = append(eligible, t)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool { return Less(eligible[i], eligible[j]) })

	total := len(eligible)
	if c.Offset >= total {
		return []*domain.Trip{}, total
	}
	end := c.Offset + c.Limit
	if end > total {
		end = total
	}
	return eligible[c.Offset:end], total
}
