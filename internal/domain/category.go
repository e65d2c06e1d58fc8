package domain

import "strings"

type ActivityCategory string

const (
	CategorySightseeing   ActivityCategory = "sightseeing"
	CategoryFood          ActivityCategory = "food"
	CategoryAdventure     ActivityCategory = "adventure"
	CategoryShopping      ActivityCategory = "shopping"
	CategoryEntertainment ActivityCategory = "entertainment"
	CategoryCulture       ActivityCategory = "culture"
	CategoryNature        ActivityCategory = "nature"
	CategorySports        ActivityCategory = "sports"
	CategoryNightlife     ActivityCategory = "nightlife"
	CategoryRelaxation    ActivityCategory = "relaxation"
)

var activityCategories = []ActivityCategory{
	CategorySightseeing, CategoryFood, CategoryAdventure, CategoryShopping, CategoryEntertainment,
	CategoryCulture, CategoryNature, CategorySports, CategoryNightlife, CategoryRelaxation,
}

func ActivityCategories() []ActivityCategory {
	out := make([]ActivityCategory, len(activityCategories))
	copy(out, activityCategories)
	return out
}

func (c ActivityCategory) Valid() bool {
	for _, v := range activityCategories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseActivityCategory is the single place raw category input is checked.
func ParseActivityCategory(raw string) (ActivityCategory, error) {
	c := ActivityCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", ErrValidationMeta("invalid category", map[string]string{
			"category": "must be one of: " + joinCategories(),
		})
	}
	return c, nil
}

func joinCategories() string {
	parts := make([]string, 0, len(activityCategories))
	for _, c := range activityCategories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}
