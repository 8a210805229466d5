package planner

import (
	"encoding/json"
	"log"

	"github.com/samber/lo"

	"vamo/internal/models/plan_models"
	"vamo/pkg/utils"
)

// The planning service answers in more than one shape. The planner agent
// wraps its plan in a {type, plan} envelope and names fields differently
// (itinerary/estimated_cost/notes); persisted plan records nest the day
// list under an itinerary object; a flat payload is already canonical.
// Normalize reconciles all of them into one TravelPlan, or fails with a
// MalformedPlanError. It never best-efforts a shape it does not recognize.

// plannerActivity is an activity as the planner agent emits it.
type plannerActivity struct {
	Time            string `json:"time"`
	VenueName       string `json:"venue_name"`
	VenueType       string `json:"venue_type"`
	DurationMinutes int    `json:"duration_minutes"`
	EstimatedCost   int    `json:"estimated_cost"`
	Notes           string `json:"notes"`
	Tips            string `json:"tips"`
}

type plannerDay struct {
	Day        int               `json:"day"`
	Date       string            `json:"date"`
	Theme      string            `json:"theme"`
	Activities []plannerActivity `json:"activities"`
	DailyCost  int               `json:"daily_cost"`
}

type plannerAccommodation struct {
	Name         string `json:"name"`
	CostPerNight int    `json:"cost_per_night"`
	TotalNights  int    `json:"total_nights"`
}

type plannerPlan struct {
	Title         string                `json:"title"`
	TotalDays     int                   `json:"total_days"`
	TotalCost     int                   `json:"total_cost"`
	Itinerary     []plannerDay          `json:"itinerary"`
	Accommodation *plannerAccommodation `json:"accommodation"`
	Summary       string                `json:"summary"`
}

// flatPlan is the canonical wire shape plus the record-shape fields the
// plan CRUD endpoints wrap around it.
type flatPlan struct {
	ID            flexID                     `json:"id"`
	Title         string                     `json:"title"`
	TotalDays     int                        `json:"total_days"`
	TotalCost     int                        `json:"total_cost"`
	Days          []plan_models.DayItinerary `json:"days"`
	Itinerary     json.RawMessage            `json:"itinerary"`
	Accommodation *plan_models.Accommodation `json:"accommodation"`
	Recommendations *struct {
		Accommodation *plan_models.Accommodation `json:"accommodation"`
	} `json:"recommendations"`
	Tips      []string `json:"tips"`
	CreatedAt string   `json:"created_at"`
}

// flexID absorbs the id field, which the CRUD endpoints emit as a number
// and canonical plans carry as a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	*f = ""
	return nil
}

// recordItinerary is the nested itinerary object of a persisted record.
type recordItinerary struct {
	TotalDays int                        `json:"total_days"`
	TotalCost int                        `json:"total_cost"`
	Days      []plan_models.DayItinerary `json:"days"`
}

type envelope struct {
	Type    string          `json:"type"`
	Plan    json.RawMessage `json:"plan"`
	Message string          `json:"message"`
}

// Normalize maps a raw planning-service payload into the canonical
// TravelPlan. It is pure and idempotent: feeding it an already-canonical
// plan yields an equivalent plan.
func Normalize(raw json.RawMessage) (*plan_models.TravelPlan, error) {
	if len(raw) == 0 {
		return nil, &utils.MalformedPlanError{Detail: "empty payload"}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &utils.MalformedPlanError{Detail: "payload is not a JSON object"}
	}

	if env.Type != "" && len(env.Plan) > 0 {
		if env.Type == "error" {
			return nil, &utils.MalformedPlanError{Detail: errDetail(env.Message)}
		}
		return normalizePlanBody(env.Plan)
	}
	if env.Type == "error" {
		return nil, &utils.MalformedPlanError{Detail: errDetail(env.Message)}
	}

	return normalizePlanBody(raw)
}

func errDetail(message string) string {
	if message == "" {
		return "planner reported an error"
	}
	return message
}

// normalizePlanBody handles a plan object in any of the three non-envelope
// shapes: flat (days), planner (itinerary array), record (itinerary object).
func normalizePlanBody(raw json.RawMessage) (*plan_models.TravelPlan, error) {
	var flat flatPlan
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, &utils.MalformedPlanError{Detail: "unparseable plan object"}
	}
	if len(flat.Days) > 0 {
		return finishFlat(&flat, flat.Days)
	}

	if len(flat.Itinerary) > 0 {
		if flat.Itinerary[0] == '[' {
			var p plannerPlan
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, &utils.MalformedPlanError{Detail: "unparseable planner itinerary"}
			}
			return fromPlannerPlan(&p)
		}
		var it recordItinerary
		if err := json.Unmarshal(flat.Itinerary, &it); err != nil || len(it.Days) == 0 {
			return nil, &utils.MalformedPlanError{Detail: "plan record has no day list"}
		}
		if flat.TotalCost == 0 {
			flat.TotalCost = it.TotalCost
		}
		return finishFlat(&flat, it.Days)
	}

	return nil, &utils.MalformedPlanError{Detail: "payload has neither days nor itinerary"}
}

func finishFlat(flat *flatPlan, days []plan_models.DayItinerary) (*plan_models.TravelPlan, error) {
	if len(days) == 0 {
		return nil, &utils.MalformedPlanError{Detail: "empty day list"}
	}

	out := &plan_models.TravelPlan{
		ID:            string(flat.ID),
		Title:         flat.Title,
		Days:          make([]plan_models.DayItinerary, len(days)),
		TotalCost:     flat.TotalCost,
		Tips:          flat.Tips,
		CreatedAt:     flat.CreatedAt,
		Accommodation: flat.Accommodation,
	}
	if out.ID == "" || out.ID == "0" {
		out.ID = ""
	}
	if out.Accommodation == nil && flat.Recommendations != nil {
		out.Accommodation = flat.Recommendations.Accommodation
	}

	for i, d := range days {
		nd := d
		nd.Activities = make([]plan_models.Activity, len(d.Activities))
		for j, a := range d.Activities {
			na := a
			na.VenueType = coerceVenueType(string(a.VenueType), a.VenueName)
			nd.Activities[j] = na
		}
		if nd.DailyCost == 0 {
			nd.DailyCost = lo.SumBy(nd.Activities, func(a plan_models.Activity) int { return a.Cost })
		}
		out.Days[i] = nd
	}

	reconcileTotals(out, flat.TotalDays)
	return out, nil
}

func fromPlannerPlan(p *plannerPlan) (*plan_models.TravelPlan, error) {
	if len(p.Itinerary) == 0 {
		return nil, &utils.MalformedPlanError{Detail: "empty day list"}
	}

	out := &plan_models.TravelPlan{
		Title:     p.Title,
		TotalCost: p.TotalCost,
		Days:      make([]plan_models.DayItinerary, len(p.Itinerary)),
	}

	for i, d := range p.Itinerary {
		nd := plan_models.DayItinerary{
			Day:        d.Day,
			Date:       d.Date,
			Theme:      d.Theme,
			DailyCost:  d.DailyCost,
			Activities: make([]plan_models.Activity, len(d.Activities)),
		}
		for j, a := range d.Activities {
			nd.Activities[j] = plan_models.Activity{
				Time:            a.Time,
				VenueName:       a.VenueName,
				VenueType:       coerceVenueType(a.VenueType, a.VenueName),
				DurationMinutes: a.DurationMinutes,
				Cost:            a.EstimatedCost,
				Description:     a.Notes,
				Tips:            a.Tips,
			}
		}
		if nd.DailyCost == 0 {
			nd.DailyCost = lo.SumBy(nd.Activities, func(a plan_models.Activity) int { return a.Cost })
		}
		out.Days[i] = nd
	}

	if p.Accommodation != nil {
		out.Accommodation = &plan_models.Accommodation{
			Name:         p.Accommodation.Name,
			CostPerNight: p.Accommodation.CostPerNight,
			TotalNights:  p.Accommodation.TotalNights,
		}
	}

	reconcileTotals(out, p.TotalDays)
	return out, nil
}

// reconcileTotals enforces total_days == len(days); the actual day list
// wins over whatever count the service declared. A missing total_cost is
// filled from the per-day sums.
func reconcileTotals(p *plan_models.TravelPlan, declaredDays int) {
	actual := len(p.Days)
	if declaredDays != actual && declaredDays != 0 {
		log.Printf("Plan %q declares %d days but carries %d; keeping %d", p.Title, declaredDays, actual, actual)
	}
	p.TotalDays = actual

	if p.TotalCost == 0 {
		p.TotalCost = lo.SumBy(p.Days, func(d plan_models.DayItinerary) int { return d.DailyCost })
	}
}

// coerceVenueType applies the unknown-venue policy: anything outside the
// five known values defaults to attraction instead of failing the whole
// plan. The planner occasionally invents labels and one bad label should
// not discard an otherwise usable itinerary.
func coerceVenueType(raw string, venueName string) plan_models.VenueType {
	v := plan_models.VenueType(raw)
	if v.Valid() {
		return v
	}
	log.Printf("Unknown venue_type %q for %q, defaulting to attraction", raw, venueName)
	return plan_models.VenueAttraction
}
