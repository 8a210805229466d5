package plan_models

// VenueType classifies a scheduled activity's venue. Only the five values
// below are valid; anything else coming off the wire is substituted during
// normalization.
type VenueType string

const (
	VenueAttraction    VenueType = "attraction"
	VenueRestaurant    VenueType = "restaurant"
	VenueAccommodation VenueType = "accommodation"
	VenueCafe          VenueType = "cafe"
	VenueShopping      VenueType = "shopping"
)

func (v VenueType) Valid() bool {
	switch v {
	case VenueAttraction, VenueRestaurant, VenueAccommodation, VenueCafe, VenueShopping:
		return true
	}
	return false
}

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Activity is one scheduled item within a day. Cost is in integer currency
// units (KRW in practice).
type Activity struct {
	Time            string    `json:"time"`
	VenueName       string    `json:"venue_name"`
	VenueType       VenueType `json:"venue_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Cost            int       `json:"cost"`
	Description     string    `json:"description"`
	Tips            string    `json:"tips,omitempty"`
	Location        *Location `json:"location,omitempty"`
}

// DayItinerary is one calendar day of a plan. Activities keep schedule
// order as delivered; they are not guaranteed sorted by the Time field.
type DayItinerary struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
	DailyCost  int        `json:"daily_cost"`
}

type Accommodation struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Location     string `json:"location,omitempty"`
	CostPerNight int    `json:"cost_per_night"`
	TotalNights  int    `json:"total_nights"`
	TotalCost    int    `json:"total_cost,omitempty"`
	Description  string `json:"description,omitempty"`
}

// TravelPlan is the canonical in-memory itinerary every service and
// controller consumes. ID is empty for a plan not yet persisted by the
// remote service.
type TravelPlan struct {
	ID            string         `json:"id,omitempty"`
	Title         string         `json:"title"`
	TotalDays     int            `json:"total_days"`
	TotalCost     int            `json:"total_cost"`
	Days          []DayItinerary `json:"days"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	Tips          []string       `json:"tips,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
}

// Clone returns a deep copy. The plan store hands copies out so callers can
// never mutate the cached state behind its lock.
func (p *TravelPlan) Clone() *TravelPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.Days = make([]DayItinerary, len(p.Days))
	for i, d := range p.Days {
		nd := d
		nd.Activities = make([]Activity, len(d.Activities))
		for j, a := range d.Activities {
			na := a
			if a.Location != nil {
				loc := *a.Location
				na.Location = &loc
			}
			nd.Activities[j] = na
		}
		out.Days[i] = nd
	}
	if p.Accommodation != nil {
		acc := *p.Accommodation
		out.Accommodation = &acc
	}
	if p.Tips != nil {
		out.Tips = append([]string(nil), p.Tips...)
	}
	return &out
}

// RecomputeTotalCost resums total_cost from the per-day costs. Structural
// edit operations only maintain daily costs; callers must invoke this
// before persisting a plan.
func (p *TravelPlan) RecomputeTotalCost() {
	total := 0
	for _, d := range p.Days {
		total += d.DailyCost
	}
	p.TotalCost = total
}
