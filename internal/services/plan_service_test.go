package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"vamo/internal/models/request_models"
	"vamo/pkg/utils"
)

func TestFetchPlansReplacesCacheWholesale(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "First", 1000)}, nil
		},
	}
	s := NewPlanService(client)

	plans, err := s.FetchPlans(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 1 || plans[0].Title != "First" {
		t.Fatalf("wrong plans: %+v", plans)
	}

	client.listPlans = func(ctx context.Context) ([]json.RawMessage, error) {
		return []json.RawMessage{
			flatPlanJSON("2", "Second", 2000),
			flatPlanJSON("3", "Third", 3000),
		}, nil
	}
	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached := s.Plans()
	if len(cached) != 2 || cached[0].ID != "2" {
		t.Errorf("cache not replaced wholesale: %+v", cached)
	}
}

func TestFetchPlansFailureLeavesCacheUntouched(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "First", 1000)}, nil
		},
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Plans()

	client.listPlans = func(ctx context.Context) ([]json.RawMessage, error) {
		return nil, &utils.NetworkError{Status: 500, Body: "boom"}
	}
	if _, err := s.FetchPlans(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if !reflect.DeepEqual(before, s.Plans()) {
		t.Error("failed fetch mutated the cache")
	}
}

func TestFetchPlanSetsCurrent(t *testing.T) {
	client := &fakePlannerClient{
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return flatPlanJSON(id, "Solo", 500), nil
		},
	}
	s := NewPlanService(client)

	if _, err := s.FetchPlan(context.Background(), "9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	current := s.CurrentPlan()
	if current == nil || current.ID != "9" {
		t.Errorf("current not set: %+v", current)
	}
}

func TestFetchPlanFailureLeavesCurrentUntouched(t *testing.T) {
	client := &fakePlannerClient{
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return flatPlanJSON(id, "Kept", 500), nil
		},
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlan(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client.getPlan = func(ctx context.Context, id string) (json.RawMessage, error) {
		return nil, &utils.NetworkError{Status: 404, Body: "gone"}
	}
	if _, err := s.FetchPlan(context.Background(), "2"); err == nil {
		t.Fatal("expected error")
	}

	current := s.CurrentPlan()
	if current == nil || current.ID != "1" {
		t.Errorf("failed fetch should leave current as it was: %+v", current)
	}
}

func TestUpdatePlanAdoptsServerRepresentation(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "Old title", 1000)}, nil
		},
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return flatPlanJSON(id, "Old title", 1000), nil
		},
		updatePlan: func(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (json.RawMessage, error) {
			// server recomputed a derived field alongside the patch
			return flatPlanJSON(id, "New title", 7777), nil
		},
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FetchPlan(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}

	title := "New title"
	if _, err := s.UpdatePlan(context.Background(), "1", request_models.UpdatePlanRequest{Title: &title}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.CurrentPlan(); got.Title != "New title" || got.TotalCost != 7777 {
		t.Errorf("current not replaced with server representation: %+v", got)
	}
	if got := s.Plans(); got[0].TotalCost != 7777 {
		t.Errorf("list entry not replaced with server representation: %+v", got[0])
	}
}

func TestUpdatePlanFailureLeavesStateIdentical(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "Stable", 1000)}, nil
		},
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return flatPlanJSON(id, "Stable", 1000), nil
		},
		updatePlan: func(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (json.RawMessage, error) {
			return nil, &utils.NetworkError{Status: 500, Body: "boom"}
		},
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FetchPlan(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}

	beforeList := s.Plans()
	beforeCurrent := s.CurrentPlan()

	title := "nope"
	if _, err := s.UpdatePlan(context.Background(), "1", request_models.UpdatePlanRequest{Title: &title}); err == nil {
		t.Fatal("expected error")
	}

	if !reflect.DeepEqual(beforeList, s.Plans()) {
		t.Error("failed update mutated the cached list")
	}
	if !reflect.DeepEqual(beforeCurrent, s.CurrentPlan()) {
		t.Error("failed update mutated the current plan")
	}
}

func TestDeletePlanClearsCurrentAndListEntry(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{
				flatPlanJSON("1", "Doomed", 1000),
				flatPlanJSON("2", "Survivor", 2000),
			}, nil
		},
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return flatPlanJSON(id, "Doomed", 1000), nil
		},
		deletePlan: func(ctx context.Context, id string) error { return nil },
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FetchPlan(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}

	if err := s.DeletePlan(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.Plans(); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("list should drop deleted entry: %+v", got)
	}
	if got := s.CurrentPlan(); got != nil {
		t.Errorf("current should be cleared after deleting it: %+v", got)
	}
}

func TestDeletePlanFailureLeavesCache(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "Stays", 1000)}, nil
		},
		deletePlan: func(ctx context.Context, id string) error {
			return &utils.NetworkError{Status: 500, Body: "boom"}
		},
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.DeletePlan(context.Background(), "1"); err == nil {
		t.Fatal("expected error")
	}
	if got := s.Plans(); len(got) != 1 {
		t.Errorf("failed delete mutated the cache: %+v", got)
	}
}

// A fetch that was already in flight when a delete landed must not
// resurrect the deleted plan as current.
func TestStaleFetchDoesNotResurrectDeletedPlan(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := &fakePlannerClient{
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			close(started)
			<-release
			return flatPlanJSON(id, "Zombie", 1000), nil
		},
		deletePlan: func(ctx context.Context, id string) error { return nil },
	}
	s := NewPlanService(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.FetchPlan(context.Background(), "1"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	<-started
	if err := s.DeletePlan(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	<-done

	if got := s.CurrentPlan(); got != nil {
		t.Errorf("stale fetch resurrected deleted plan: %+v", got)
	}
}

func TestGeneratePlanValidatesBeforeNetwork(t *testing.T) {
	called := false
	client := &fakePlannerClient{
		generatePlan: func(ctx context.Context, req request_models.GeneratePlanRequest) (json.RawMessage, error) {
			called = true
			return nil, nil
		},
	}
	s := NewPlanService(client)

	_, err := s.GeneratePlan(context.Background(), request_models.GeneratePlanRequest{
		UserRequest: "",
		StartDate:   "not-a-date",
		EndDate:     "2025-03-02",
	})

	var validation *utils.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if called {
		t.Error("validation failure must not issue a network call")
	}
}

func TestGeneratePlanNormalizesAndSetsCurrent(t *testing.T) {
	client := &fakePlannerClient{
		generatePlan: func(ctx context.Context, req request_models.GeneratePlanRequest) (json.RawMessage, error) {
			return json.RawMessage(`{"type": "complete", "plan": {"title": "Generated", "total_days": 2, "total_cost": 50000, "itinerary": [
				{"day": 1, "date": "2025-03-01", "daily_cost": 25000, "activities": []},
				{"day": 2, "date": "2025-03-02", "daily_cost": 25000, "activities": []}
			]}}`), nil
		},
	}
	s := NewPlanService(client)

	plan, err := s.GeneratePlan(context.Background(), request_models.GeneratePlanRequest{
		UserRequest: "2-day Seoul trip",
		StartDate:   "2025-03-01",
		EndDate:     "2025-03-02",
		Interests:   []string{"food"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Days) != 2 || plan.TotalDays != 2 {
		t.Errorf("nested payload not normalized: %+v", plan)
	}
	if got := s.CurrentPlan(); got == nil || got.Title != "Generated" {
		t.Errorf("generated plan should become current: %+v", got)
	}
}

func TestReviewErrorEnvelopeLeavesCurrentUnchanged(t *testing.T) {
	client := &fakePlannerClient{
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return flatPlanJSON(id, "Original", 1000), nil
		},
		reviewPlan: func(ctx context.Context, req request_models.ReviewPlanRequest) (json.RawMessage, error) {
			return json.RawMessage(`{"type": "error", "plan": {}}`), nil
		},
	}
	s := NewPlanService(client)
	if _, err := s.FetchPlan(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReviewPlan(context.Background(), request_models.ReviewPlanRequest{UserFeedback: "cheaper please", Iteration: 1})
	var malformed *utils.MalformedPlanError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPlanError, got %v", err)
	}

	if got := s.CurrentPlan(); got == nil || got.Title != "Original" {
		t.Errorf("error envelope must not replace current plan: %+v", got)
	}
}

func TestWatchDeliversEvents(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "First", 1000)}, nil
		},
	}
	s := NewPlanService(client)

	events, cancel := s.Watch()
	defer cancel()

	if _, err := s.FetchPlans(context.Background()); err != nil {
		t.Fatal(err)
	}

	ev := <-events
	if ev.Kind != PlanListReplaced {
		t.Errorf("expected list_replaced event, got %+v", ev)
	}
}

func TestFetchPlansResultDetachedFromCache(t *testing.T) {
	client := &fakePlannerClient{
		listPlans: func(ctx context.Context) ([]json.RawMessage, error) {
			return []json.RawMessage{flatPlanJSON("1", "First", 1000)}, nil
		},
	}
	s := NewPlanService(client)

	got, err := s.FetchPlans(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got[0].Title = "tampered"
	got[0].Days[0].Activities[0].Cost = 999999

	cached := s.Plans()
	if cached[0].Title != "First" {
		t.Errorf("caller mutation reached the cache: %q", cached[0].Title)
	}
	if cached[0].Days[0].Activities[0].Cost != 1000 {
		t.Errorf("caller mutation reached cached activities: %d", cached[0].Days[0].Activities[0].Cost)
	}
}

func TestFetchPlanMissingBecomesNotFound(t *testing.T) {
	client := &fakePlannerClient{
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return nil, &utils.NetworkError{Status: 404, Body: "no such plan"}
		},
	}
	s := NewPlanService(client)

	_, err := s.FetchPlan(context.Background(), "gone")
	if !errors.Is(err, utils.ErrPlanNotFound) {
		t.Fatalf("remote 404 should map to ErrPlanNotFound, got %v", err)
	}
}

func TestDeletePlanMissingBecomesNotFound(t *testing.T) {
	client := &fakePlannerClient{
		deletePlan: func(ctx context.Context, id string) error {
			return &utils.NetworkError{Status: 404, Body: "no such plan"}
		},
	}
	s := NewPlanService(client)

	if err := s.DeletePlan(context.Background(), "gone"); !errors.Is(err, utils.ErrPlanNotFound) {
		t.Fatalf("remote 404 should map to ErrPlanNotFound, got %v", err)
	}
}

func TestFetchPlanOtherErrorsPassThrough(t *testing.T) {
	client := &fakePlannerClient{
		getPlan: func(ctx context.Context, id string) (json.RawMessage, error) {
			return nil, &utils.NetworkError{Status: 503, Body: "overloaded"}
		},
	}
	s := NewPlanService(client)

	_, err := s.FetchPlan(context.Background(), "p1")
	var nerr *utils.NetworkError
	if !errors.As(err, &nerr) || nerr.Status != 503 {
		t.Fatalf("non-404 failures must stay NetworkError, got %v", err)
	}
}
