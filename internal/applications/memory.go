package applications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and local development
// without a database. Same visibility rules as the Postgres store.
type MemStore struct {
	mu   sync.RWMutex
	apps map[string]Application
}

func NewMemStore() *MemStore {
	return &MemStore{apps: make(map[string]Application)}
}

func (s *MemStore) Insert(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app.ID = uuid.NewString()
	app.CreatedAt = time.Now().UTC()
	s.apps[app.ID] = cloneApp(*app)
	return nil
}

func (s *MemStore) ListByOwner(_ context.Context, userID string) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Application
	for _, app := range s.apps {
		if app.UserID == userID {
			out = append(out, cloneApp(app))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

func (s *MemStore) GetByID(_ context.Context, userID, id string) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[id]
	if !ok || app.UserID != userID {
		return nil, ErrNotFound
	}
	out := cloneApp(app)
	return &out, nil
}

func (s *MemStore) Save(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.apps[app.ID]
	if !ok || cur.UserID != app.UserID {
		return ErrNotFound
	}
	saved := cloneApp(*app)
	saved.CreatedAt = cur.CreatedAt
	s.apps[app.ID] = saved
	return nil
}

func (s *MemStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok || app.UserID != userID {
		return ErrNotFound
	}
	delete(s.apps, id)
	return nil
}

func (s *MemStore) DeleteByOwner(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, app := range s.apps {
		if app.UserID == userID {
			delete(s.apps, id)
			n++
		}
	}
	return n, nil
}

func (s *MemStore) DueFollowUps(_ context.Context, userID string, until time.Time) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Application
	for _, app := range s.apps {
		if app.UserID != userID || app.FollowUpDone || app.FollowUpReminder == nil {
			continue
		}
		if !app.FollowUpReminder.After(until) {
			out = append(out, cloneApp(app))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FollowUpReminder.Before(*out[j].FollowUpReminder)
	})
	return out, nil
}

func (s *MemStore) CountByOwner(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, app := range s.apps {
		if app.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) MonthlyCounts(_ context.Context, userID string) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, app := range s.apps {
		if app.UserID == userID && !app.AppliedAt.IsZero() {
			counts[int(app.AppliedAt.Month())]++
		}
	}
	return counts, nil
}

func (s *MemStore) DailyCounts(_ context.Context, userID string) ([]DayCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := make(map[string]int)
	for _, app := range s.apps {
		if app.UserID == userID {
			byDay[app.AppliedAt.Format("2006-01-02")]++
		}
	}

	days := make([]DayCount, 0, len(byDay))
	for day, n := range byDay {
		days = append(days, DayCount{Date: day, Count: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (s *MemStore) StatusCounts(_ context.Context, userID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, app := range s.apps {
		if app.UserID == userID {
			counts[app.Status]++
		}
	}
	return counts, nil
}

func cloneApp(app Application) Application {
	if app.Tags != nil {
		app.Tags = append(make([]string, 0, len(app.Tags)), app.Tags...)
	}
	if app.FollowUpReminder != nil {
		t := *app.FollowUpReminder
		app.FollowUpReminder = &t
	}
	return app
}
