package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

// Repository defines the interface for event storage.
type Repository interface {
	Create(ctx context.Context, req *CreateEventRequest) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter ListFilter) ([]*Event, error)
	Update(ctx context.Context, id string, req *UpdateEventRequest) (*Event, error)
	Delete(ctx context.Context, id string) (*Event, error)
	ListForStaff(ctx context.Context, staffIDs []string, from, to time.Time) ([]schedule.Appointment, error)
}

// InMemoryRepository keeps events in a map. Used in development and tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	events map[string]*Event
	now    func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		events: make(map[string]*Event),
		now:    time.Now,
	}
}

// Create stores a new event.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateEventRequest) (*Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	e := NewEvent(req, r.now())

	r.mu.Lock()
	r.events[e.ID] = e
	r.mu.Unlock()

	return clone(e), nil
}

// Get retrieves an event by id.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(e), nil
}

// List returns matching events ordered by scheduled time.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Event, error) {
	r.mu.RLock()
	out := make([]*Event, 0, len(r.events))
	for _, e := range r.events {
		if filter.Matches(e) {
			out = append(out, clone(e))
		}
	}
	r.mu.RUnlock()

	sortEvents(out)
	return out, nil
}

// Update applies a partial update.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateEventRequest) (*Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := clone(e)
	if err := req.Apply(next, r.now()); err != nil {
		return nil, err
	}
	r.events[id] = next
	return clone(next), nil
}

// Delete removes an event and returns it.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) (*Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.events, id)
	return e, nil
}

// ListForStaff returns appointments of the given staff that overlap [from, to].
// Events without a scheduled time are returned too so the engine can report
// and skip them.
func (r *InMemoryRepository) ListForStaff(ctx context.Context, staffIDs []string, from, to time.Time) ([]schedule.Appointment, error) {
	wanted := make(map[string]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	matched := make([]*Event, 0)
	for _, e := range r.events {
		if e.Staff == nil {
			continue
		}
		if _, ok := wanted[*e.Staff]; !ok {
			continue
		}
		if e.ScheduledTime != nil && !e.Overlaps(from, to) {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	sortEvents(matched)
	out := make([]schedule.Appointment, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.Appointment())
	}
	return out, nil
}

func sortEvents(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].ScheduledTime, events[j].ScheduledTime
		switch {
		case a == nil && b == nil:
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

func clone(e *Event) *Event {
	c := *e
	if e.ScheduledTime != nil {
		t := *e.ScheduledTime
		c.ScheduledTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		c.EndTime = &t
	}
	if e.Staff != nil {
		s := *e.Staff
		c.Staff = &s
	}
	if e.Details != nil {
		c.Details = append([]byte(nil), e.Details...)
	}
	return &c
}
