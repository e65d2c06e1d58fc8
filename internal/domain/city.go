package domain

type City struct {
	ID          string
	Name        string
	Country     string
	CostIndex   float64
	Popularity  int
	Description string
	ImageURL    string
}

type Activity struct {
	ID              string
	CityID          string
	Name            string
	Category        ActivityCategory
	MinCost         *float64
	MaxCost         *float64
	DurationMinutes *int
}
