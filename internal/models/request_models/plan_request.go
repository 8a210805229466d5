package request_models

import (
	"fmt"
	"strings"

	"vamo/pkg/utils"
)

// The planner generates day-by-day itineraries; past a month the payloads
// get unusably large and the LLM drifts.
const maxTripDays = 30

type GeneratePlanRequest struct {
	UserRequest string   `json:"user_request" binding:"required"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Budget      int      `json:"budget,omitempty"`
	Interests   []string `json:"interests"`
}

// Validate runs the client-side checks that must fail before any network
// call is issued. All broken fields are reported at once.
func (r *GeneratePlanRequest) Validate() error {
	var fields []utils.FieldError

	if strings.TrimSpace(r.UserRequest) == "" {
		fields = append(fields, utils.FieldError{Field: "user_request", Reason: "must not be empty"})
	}

	start, startOK := utils.ParseISODate(r.StartDate)
	if !startOK {
		fields = append(fields, utils.FieldError{Field: "start_date", Reason: "must be a YYYY-MM-DD date"})
	}
	end, endOK := utils.ParseISODate(r.EndDate)
	if !endOK {
		fields = append(fields, utils.FieldError{Field: "end_date", Reason: "must be a YYYY-MM-DD date"})
	}
	if startOK && endOK {
		if end.Before(start) {
			fields = append(fields, utils.FieldError{Field: "end_date", Reason: "must not be before start_date"})
		} else if utils.TripDays(start, end) > maxTripDays {
			fields = append(fields, utils.FieldError{Field: "end_date", Reason: fmt.Sprintf("trip may not exceed %d days", maxTripDays)})
		}
	}

	if r.Budget < 0 {
		fields = append(fields, utils.FieldError{Field: "budget", Reason: "must not be negative"})
	}

	if len(fields) > 0 {
		return &utils.ValidationError{Fields: fields}
	}
	return nil
}

type ReviewPlanRequest struct {
	UserFeedback string `json:"user_feedback" binding:"required"`
	Iteration    int    `json:"iteration"`
	PlanID       string `json:"plan_id,omitempty"`
}

func (r *ReviewPlanRequest) Validate() error {
	var fields []utils.FieldError

	if strings.TrimSpace(r.UserFeedback) == "" {
		fields = append(fields, utils.FieldError{Field: "user_feedback", Reason: "must not be empty"})
	}
	if r.Iteration < 0 {
		fields = append(fields, utils.FieldError{Field: "iteration", Reason: "must not be negative"})
	}

	if len(fields) > 0 {
		return &utils.ValidationError{Fields: fields}
	}
	return nil
}

// UpdatePlanRequest is the partial PATCH body for a persisted plan. Nil
// pointers are fields the caller did not touch.
type UpdatePlanRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
