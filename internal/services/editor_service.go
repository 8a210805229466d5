package services

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"vamo/internal/models/plan_models"
	"vamo/internal/models/request_models"
	"vamo/pkg/utils"
)

type EditorServiceInterface interface {
	StartSession(plan *plan_models.TravelPlan) (*EditSession, error)
	GetSession(id string) (*EditSession, error)
	AddActivity(sessionID string, day int, activity plan_models.Activity) (*plan_models.EditableActivity, error)
	UpdateActivity(sessionID string, day, index int, patch request_models.ActivityPatch) error
	DeleteActivity(sessionID string, day, index int) error
	SetActivityLock(sessionID string, day, index int, locked bool) error
	ToggleDay(sessionID string, day int, expanded bool) error
	Snapshot(sessionID string) (*plan_models.TravelPlan, error)
	CloseSession(sessionID string) (*plan_models.TravelPlan, error)
}

// EditSession is one plan rendered editable. Activity ids are synthetic,
// minted from day number, a session-wide sequence, and the session start
// epoch; they are unique for the session's lifetime and never reused,
// even after a delete.
type EditSession struct {
	ID        string                             `json:"id"`
	Plan      plan_models.TravelPlan             `json:"plan"`
	Days      []plan_models.EditableDayItinerary `json:"days"`
	StartedAt string                             `json:"started_at"`

	epoch int64
	seq   int
}

const sessionTTL = 2 * time.Hour

func NewEditorService() EditorServiceInterface {
	return &EditorService{
		sessions: gocache.New(sessionTTL, 10*time.Minute),
	}
}

// EditorService keeps edit sessions in a TTL cache: a session the UI
// abandons evaporates on its own instead of leaking. All read-modify-write
// on a session happens under one service mutex; go-cache only guards the
// map itself.
type EditorService struct {
	mu       sync.Mutex
	sessions *gocache.Cache
}

// StartSession derives the editable view: every activity gets a fresh
// synthetic id, is_custom and is_locked false, empty alternatives; every
// day starts expanded.
func (s *EditorService) StartSession(plan *plan_models.TravelPlan) (*EditSession, error) {
	if plan == nil || len(plan.Days) == 0 {
		return nil, utils.ErrInvalidInput
	}

	now := time.Now()
	sess := &EditSession{
		ID:        fmt.Sprintf("edit-%d", now.UnixNano()),
		Plan:      *plan.Clone(),
		StartedAt: now.Format(time.RFC3339),
		epoch:     now.UnixMilli(),
	}

	sess.Days = make([]plan_models.EditableDayItinerary, len(plan.Days))
	for i, d := range plan.Days {
		ed := plan_models.EditableDayItinerary{
			Day:        d.Day,
			Date:       d.Date,
			Theme:      d.Theme,
			DailyCost:  d.DailyCost,
			IsExpanded: true,
			Activities: make([]plan_models.EditableActivity, len(d.Activities)),
		}
		for j, a := range d.Activities {
			ed.Activities[j] = plan_models.EditableActivity{
				Activity:     a,
				ID:           sess.nextActivityID(d.Day),
				IsCustom:     false,
				IsLocked:     false,
				Alternatives: []plan_models.VenueAlternative{},
			}
		}
		sess.Days[i] = ed
	}

	s.mu.Lock()
	s.sessions.Set(sess.ID, sess, gocache.DefaultExpiration)
	s.mu.Unlock()
	return sess.clone(), nil
}

// GetSession returns a deep copy; the stored session keeps mutating under
// the service mutex, so the live pointer must never leave it.
func (s *EditorService) GetSession(id string) (*EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.clone(), nil
}

func (s *EditorService) AddActivity(sessionID string, day int, activity plan_models.Activity) (*plan_models.EditableActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	d, err := sess.dayByNumber(day)
	if err != nil {
		return nil, err
	}

	if !activity.VenueType.Valid() {
		activity.VenueType = plan_models.VenueAttraction
	}
	added := plan_models.EditableActivity{
		Activity:     activity,
		ID:           sess.nextActivityID(day),
		IsCustom:     true,
		IsLocked:     false,
		Alternatives: []plan_models.VenueAlternative{},
	}
	d.Activities = append(d.Activities, added)
	recomputeDailyCost(d)

	s.touch(sess)
	return &added, nil
}

func (s *EditorService) UpdateActivity(sessionID string, day, index int, patch request_models.ActivityPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, d, a, err := s.activityAt(sessionID, day, index)
	if err != nil {
		return err
	}
	if a.IsLocked {
		return &utils.BlockedEditError{ActivityID: a.ID}
	}

	costChanged := false
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.VenueName != nil {
		a.VenueName = *patch.VenueName
	}
	if patch.VenueType != nil && patch.VenueType.Valid() {
		a.VenueType = *patch.VenueType
	}
	if patch.DurationMinutes != nil {
		a.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Cost != nil {
		a.Cost = *patch.Cost
		costChanged = true
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Tips != nil {
		a.Tips = *patch.Tips
	}

	if costChanged {
		recomputeDailyCost(d)
	}
	s.touch(sess)
	return nil
}

func (s *EditorService) DeleteActivity(sessionID string, day, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, d, a, err := s.activityAt(sessionID, day, index)
	if err != nil {
		return err
	}
	if a.IsLocked {
		return &utils.BlockedEditError{ActivityID: a.ID}
	}

	d.Activities = append(d.Activities[:index], d.Activities[index+1:]...)
	recomputeDailyCost(d)
	s.touch(sess)
	return nil
}

func (s *EditorService) SetActivityLock(sessionID string, day, index int, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, a, err := s.activityAt(sessionID, day, index)
	if err != nil {
		return err
	}
	a.IsLocked = locked
	s.touch(sess)
	return nil
}

func (s *EditorService) ToggleDay(sessionID string, day int, expanded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	d, err := sess.dayByNumber(day)
	if err != nil {
		return err
	}
	d.IsExpanded = expanded
	s.touch(sess)
	return nil
}

// Snapshot converts the session back to a canonical plan, stripping the
// editing metadata. It alters nothing else: the plan-level total_cost is
// whatever the session started with, and can be stale relative to edited
// daily costs. Callers persisting the result must resum it explicitly
// (TravelPlan.RecomputeTotalCost).
func (s *EditorService) Snapshot(sessionID string) (*plan_models.TravelPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// CloseSession snapshots and discards the session; the synthetic ids die
// with it.
func (s *EditorService) CloseSession(sessionID string) (*plan_models.TravelPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	plan := sess.snapshot()
	s.sessions.Delete(sessionID)
	return plan, nil
}

func (s *EditorService) lookup(id string) (*EditSession, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return v.(*EditSession), nil
}

func (s *EditorService) activityAt(sessionID string, day, index int) (*EditSession, *plan_models.EditableDayItinerary, *plan_models.EditableActivity, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := sess.dayByNumber(day)
	if err != nil {
		return nil, nil, nil, err
	}
	if index < 0 || index >= len(d.Activities) {
		return nil, nil, nil, utils.ErrActivityNotFound
	}
	return sess, d, &d.Activities[index], nil
}

// touch refreshes the TTL so an actively edited session never expires
// under the user.
func (s *EditorService) touch(sess *EditSession) {
	s.sessions.Set(sess.ID, sess, gocache.DefaultExpiration)
}

func (sess *EditSession) clone() *EditSession {
	out := *sess
	out.Plan = *sess.Plan.Clone()
	out.Days = make([]plan_models.EditableDayItinerary, len(sess.Days))
	for i, d := range sess.Days {
		nd := d
		nd.Activities = make([]plan_models.EditableActivity, len(d.Activities))
		for j, a := range d.Activities {
			na := a
			if a.Location != nil {
				loc := *a.Location
				na.Location = &loc
			}
			na.Alternatives = make([]plan_models.VenueAlternative, len(a.Alternatives))
			copy(na.Alternatives, a.Alternatives)
			nd.Activities[j] = na
		}
		out.Days[i] = nd
	}
	return &out
}

func (sess *EditSession) dayByNumber(day int) (*plan_models.EditableDayItinerary, error) {
	for i := range sess.Days {
		if sess.Days[i].Day == day {
			return &sess.Days[i], nil
		}
	}
	return nil, utils.ErrDayNotFound
}

func (sess *EditSession) nextActivityID(day int) string {
	id := fmt.Sprintf("%d-%d-%d", day, sess.seq, sess.epoch)
	sess.seq++
	return id
}

func (sess *EditSession) snapshot() *plan_models.TravelPlan {
	out := *sess.Plan.Clone()
	out.Days = make([]plan_models.DayItinerary, len(sess.Days))
	for i, d := range sess.Days {
		nd := plan_models.DayItinerary{
			Day:        d.Day,
			Date:       d.Date,
			Theme:      d.Theme,
			DailyCost:  d.DailyCost,
			Activities: make([]plan_models.Activity, len(d.Activities)),
		}
		for j, a := range d.Activities {
			nd.Activities[j] = a.Activity
		}
		out.Days[i] = nd
	}
	return &out
}

func recomputeDailyCost(d *plan_models.EditableDayItinerary) {
	d.DailyCost = lo.SumBy(d.Activities, func(a plan_models.EditableActivity) int { return a.Cost })
}
