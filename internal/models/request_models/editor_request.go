package request_models

import "vamo/internal/models/plan_models"

type AddActivityRequest struct {
	Day      int                  `json:"day" binding:"required"`
	Activity plan_models.Activity `json:"activity" binding:"required"`
}

// ActivityPatch carries a partial activity edit. Nil pointers are fields
// the caller left alone.
type ActivityPatch struct {
	Time            *string                `json:"time,omitempty"`
	VenueName       *string                `json:"venue_name,omitempty"`
	VenueType       *plan_models.VenueType `json:"venue_type,omitempty"`
	DurationMinutes *int                   `json:"duration_minutes,omitempty"`
	Cost            *int                   `json:"cost,omitempty"`
	Description     *string                `json:"description,omitempty"`
	Tips            *string                `json:"tips,omitempty"`
}

type UpdateActivityRequest struct {
	Day   int           `json:"day" binding:"required"`
	Index int           `json:"index"`
	Patch ActivityPatch `json:"patch"`
}

type DeleteActivityRequest struct {
	Day   int `json:"day" binding:"required"`
	Index int `json:"index"`
}

type SetActivityLockRequest struct {
	Day    int  `json:"day" binding:"required"`
	Index  int  `json:"index"`
	Locked bool `json:"locked"`
}

type ToggleDayRequest struct {
	Day      int  `json:"day" binding:"required"`
	Expanded bool `json:"expanded"`
}
