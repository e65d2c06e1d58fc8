package domain

import (
	"strings"
	"time"
)

type User struct {
	ID        string
	FirstName string
	LastName  string
	Country   string
	City      string
	CreatedAt time.Time
}

// NormalizeCountry is the comparison form used for regional matching.
func NormalizeCountry(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
