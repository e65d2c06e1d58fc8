package domain

import "strings"

// TripSortField is the closed set of columns trip listings may be ordered by.
type TripSortField string

const (
	SortCreatedAt TripSortField = "created_at"
	SortStartDate TripSortField = "start_date"
	SortEndDate   TripSortField = "end_date"
	SortName      TripSortField = "name"
)

func (f TripSortField) Valid() bool {
	switch f {
	case SortCreatedAt, SortStartDate, SortEndDate, SortName:
		return true
	}
	return false
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseTripSort validates sort/order query input. Empty values default to
// created_at desc.
func ParseTripSort(field, order string) (TripSortField, SortOrder, error) {
	f := TripSortField(strings.ToLower(strings.TrimSpace(field)))
	if f == "" {
		f = SortCreatedAt
	}
	if !f.Valid() {
		return "", "", ErrValidationMeta("invalid query param", map[string]string{
			"sort": "must be one of: created_at, start_date, end_date, name",
		})
	}

	o := SortOrder(strings.ToLower(strings.TrimSpace(order)))
	switch o {
	case "":
		o = OrderDesc
	case OrderAsc, OrderDesc:
	default:
		return "", "", ErrValidationMeta("invalid query param", map[string]string{
			"order": "must be one of: asc, desc",
		})
	}
	return f, o, nil
}
