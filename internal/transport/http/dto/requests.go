package dto

type CreateActivityReq struct {
	ActivityID      string   `json:"activity_id" validate:"required,max=64"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time            *string  `json:"time,omitempty"`
	MinCostOverride *float64 `json:"min_cost_override,omitempty" validate:"omitempty,gte=0"`
	MaxCostOverride *float64 `json:"max_cost_override,omitempty" validate:"omitempty,gte=0"`
}

type CreateStopReq struct {
	CityID     string              `json:"city_id" validate:"required,max=64"`
	StartDate  string              `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string              `json:"end_date" validate:"required,datetime=2006-01-02"`
	Activities []CreateActivityReq `json:"activities" validate:"dive"`
}

type CreateTripReq struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=4000"`
	StartDate   string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string          `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsPublic    bool            `json:"is_public"`
	CoverImage  string          `json:"cover_image" validate:"max=2048"`
	Stops       []CreateStopReq `json:"stops" validate:"dive"`
}

type AddStopReq struct {
	CityID    string `json:"city_id" validate:"required,max=64"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type AddActivityReq = CreateActivityReq
