package plan_models

// VenueAlternative is an AI-suggested substitution for an activity's venue.
type VenueAlternative struct {
	VenueName   string    `json:"venue_name"`
	VenueType   VenueType `json:"venue_type"`
	Cost        int       `json:"cost"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating,omitempty"`
}

// EditableActivity is an Activity carrying editing metadata. The ID is
// synthetic, unique within one edit session only, and must never be
// persisted or compared across sessions.
type EditableActivity struct {
	Activity
	ID           string             `json:"id"`
	IsCustom     bool               `json:"is_custom"`
	IsLocked     bool               `json:"is_locked"`
	Alternatives []VenueAlternative `json:"alternatives"`
}

type EditableDayItinerary struct {
	Day        int                `json:"day"`
	Date       string             `json:"date"`
	Theme      string             `json:"theme"`
	Activities []EditableActivity `json:"activities"`
	DailyCost  int                `json:"daily_cost"`
	IsExpanded bool               `json:"is_expanded"`
}
