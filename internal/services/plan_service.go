package services

import (
	"context"
	"log"
	"sync"

	"vamo/internal/models/plan_models"
	"vamo/internal/models/request_models"
	"vamo/internal/planner"
	"vamo/pkg/utils"
)

// PlanEventKind labels a plan-store state change for watchers.
type PlanEventKind string

const (
	PlanListReplaced   PlanEventKind = "list_replaced"
	PlanCurrentChanged PlanEventKind = "current_changed"
	PlanUpdated        PlanEventKind = "updated"
	PlanDeleted        PlanEventKind = "deleted"
)

type PlanEvent struct {
	Kind   PlanEventKind
	PlanID string
}

type PlanServiceInterface interface {
	FetchPlans(ctx context.Context) ([]plan_models.TravelPlan, error)
	FetchPlan(ctx context.Context, id string) (*plan_models.TravelPlan, error)
	UpdatePlan(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (*plan_models.TravelPlan, error)
	DeletePlan(ctx context.Context, id string) error
	GeneratePlan(ctx context.Context, req request_models.GeneratePlanRequest) (*plan_models.TravelPlan, error)
	ReviewPlan(ctx context.Context, req request_models.ReviewPlanRequest) (*plan_models.TravelPlan, error)

	Plans() []plan_models.TravelPlan
	CurrentPlan() *plan_models.TravelPlan
	SetCurrentPlan(p *plan_models.TravelPlan)
	ClearCurrentPlan()
	Watch() (<-chan PlanEvent, func())
	Reset()
}

func NewPlanService(client planner.ClientInterface) PlanServiceInterface {
	return &PlanService{
		client: client,
	}
}

// PlanService owns the authoritative client-side plan collection and the
// single "current" plan. The cache mutates only wholesale: a successful
// call replaces state, a failed call leaves it byte-for-byte untouched.
//
// Operations are not serialized against each other; the last response to
// arrive wins. The generation counter only guards against one hazard:
// a response issued before a delete or reset must not resurrect state
// from that older world.
type PlanService struct {
	client planner.ClientInterface

	mu         sync.RWMutex
	plans      []plan_models.TravelPlan
	current    *plan_models.TravelPlan
	generation uint64

	watchMu  sync.Mutex
	watchers map[int]chan PlanEvent
	nextID   int
}

func (s *PlanService) FetchPlans(ctx context.Context) ([]plan_models.TravelPlan, error) {
	gen := s.currentGeneration()

	records, err := s.client.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	plans := make([]plan_models.TravelPlan, 0, len(records))
	for _, raw := range records {
		plan, err := planner.Normalize(raw)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	// The cache keeps its own copies; the returned slice must not alias
	// state the lock protects.
	cached := make([]plan_models.TravelPlan, len(plans))
	for i := range plans {
		cached[i] = *plans[i].Clone()
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Printf("Discarding stale plan list (generation moved)")
		return plans, nil
	}
	s.plans = cached
	s.mu.Unlock()

	s.notify(PlanEvent{Kind: PlanListReplaced})
	return plans, nil
}

func (s *PlanService) FetchPlan(ctx context.Context, id string) (*plan_models.TravelPlan, error) {
	gen := s.currentGeneration()

	raw, err := s.client.GetPlan(ctx, id)
	if err != nil {
		return nil, utils.MapNotFound(err, utils.ErrPlanNotFound)
	}
	plan, err := planner.Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Printf("Discarding stale fetch of plan %s (generation moved)", id)
		return plan, nil
	}
	s.current = plan.Clone()
	s.mu.Unlock()

	s.notify(PlanEvent{Kind: PlanCurrentChanged, PlanID: id})
	return plan, nil
}

// UpdatePlan sends the partial patch and adopts the server's returned
// representation wholesale. It never merges the patch into the cached
// copy; the server may have recomputed derived fields.
func (s *PlanService) UpdatePlan(ctx context.Context, id string, patch request_models.UpdatePlanRequest) (*plan_models.TravelPlan, error) {
	gen := s.currentGeneration()

	raw, err := s.client.UpdatePlan(ctx, id, patch)
	if err != nil {
		return nil, utils.MapNotFound(err, utils.ErrPlanNotFound)
	}
	plan, err := planner.Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Printf("Discarding stale update of plan %s (generation moved)", id)
		return plan, nil
	}
	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans[i] = *plan.Clone()
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = plan.Clone()
	}
	s.mu.Unlock()

	s.notify(PlanEvent{Kind: PlanUpdated, PlanID: id})
	return plan, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, id string) error {
	if err := s.client.DeletePlan(ctx, id); err != nil {
		return utils.MapNotFound(err, utils.ErrPlanNotFound)
	}

	s.mu.Lock()
	kept := s.plans[:0]
	for _, p := range s.plans {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.plans = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.generation++
	s.mu.Unlock()

	s.notify(PlanEvent{Kind: PlanDeleted, PlanID: id})
	return nil
}

// GeneratePlan validates, calls the planner, and installs the normalized
// result as the current plan. A freshly generated plan has no id yet, so
// it does not enter the cached list until the remote service persists it.
func (s *PlanService) GeneratePlan(ctx context.Context, req request_models.GeneratePlanRequest) (*plan_models.TravelPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gen := s.currentGeneration()

	raw, err := s.client.GeneratePlan(ctx, req)
	if err != nil {
		return nil, err
	}
	plan, err := planner.Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.installCurrent(plan, gen)
	return plan, nil
}

// ReviewPlan runs one feedback iteration. The revised plan replaces the
// current plan wholesale; plans are never deep-merged.
func (s *PlanService) ReviewPlan(ctx context.Context, req request_models.ReviewPlanRequest) (*plan_models.TravelPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gen := s.currentGeneration()

	raw, err := s.client.ReviewPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	plan, err := planner.Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.installCurrent(plan, gen)
	return plan, nil
}

func (s *PlanService) installCurrent(plan *plan_models.TravelPlan, gen uint64) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Printf("Discarding stale generated plan (generation moved)")
		return
	}
	s.current = plan.Clone()
	s.mu.Unlock()

	s.notify(PlanEvent{Kind: PlanCurrentChanged, PlanID: plan.ID})
}

func (s *PlanService) Plans() []plan_models.TravelPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]plan_models.TravelPlan, len(s.plans))
	for i := range s.plans {
		out[i] = *s.plans[i].Clone()
	}
	return out
}

func (s *PlanService) CurrentPlan() *plan_models.TravelPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *PlanService) SetCurrentPlan(p *plan_models.TravelPlan) {
	s.mu.Lock()
	s.current = p.Clone()
	s.mu.Unlock()
	id := ""
	if p != nil {
		id = p.ID
	}
	s.notify(PlanEvent{Kind: PlanCurrentChanged, PlanID: id})
}

func (s *PlanService) ClearCurrentPlan() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify(PlanEvent{Kind: PlanCurrentChanged})
}

// Watch subscribes to store changes. Events are delivered best-effort; a
// slow receiver drops events rather than blocking mutations. The returned
// func cancels the subscription.
func (s *PlanService) Watch() (<-chan PlanEvent, func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watchers == nil {
		s.watchers = make(map[int]chan PlanEvent)
	}
	id := s.nextID
	s.nextID++
	ch := make(chan PlanEvent, 16)
	s.watchers[id] = ch

	cancel := func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		if c, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *PlanService) Reset() {
	s.mu.Lock()
	s.plans = nil
	s.current = nil
	s.generation++
	s.mu.Unlock()
	s.notify(PlanEvent{Kind: PlanListReplaced})
}

func (s *PlanService) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *PlanService) notify(ev PlanEvent) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}
