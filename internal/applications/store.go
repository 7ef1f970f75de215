package applications

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user. Callers cannot tell the two apart, so an attacker cannot
// probe other users' ids.
var ErrNotFound = errors.New("application not found")

// DayCount is one day of application activity.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Store is the persistence contract for application records. Every method
// that touches a record is scoped by the owning user id; that predicate is
// the sole isolation mechanism between users.
type Store interface {
	Insert(ctx context.Context, app *Application) error
	ListByOwner(ctx context.Context, userID string) ([]Application, error)
	GetByID(ctx context.Context, userID, id string) (*Application, error)
	// Save writes every mutable column of an owned record; ErrNotFound if
	// the record is absent or foreign.
	Save(ctx context.Context, app *Application) error
	Delete(ctx context.Context, userID, id string) error
	// DeleteByOwner removes all records of a user (account cascade).
	DeleteByOwner(ctx context.Context, userID string) (int64, error)

	DueFollowUps(ctx context.Context, userID string, until time.Time) ([]Application, error)

	CountByOwner(ctx context.Context, userID string) (int, error)
	// MonthlyCounts groups by calendar month 1..12 of appliedAt,
	// independent of year.
	MonthlyCounts(ctx context.Context, userID string) (map[int]int, error)
	DailyCounts(ctx context.Context, userID string) ([]DayCount, error)
	StatusCounts(ctx context.Context, userID string) (map[string]int, error)
}
