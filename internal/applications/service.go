package applications

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ValidationError carries field-level messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Service implements the application operations. Every method takes the
// resolved user id as its first argument; there is no ambient caller
// identity.
type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Create validates the payload and persists a new record owned by userID.
// Any owner information in the payload is impossible by construction: the
// request type has no such field.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Application, error) {
	verr := newValidationError()

	app := Application{
		UserID:    userID,
		Company:   strings.TrimSpace(req.Company),
		JobTitle:  strings.TrimSpace(req.JobTitle),
		JobLink:   strings.TrimSpace(req.JobLink),
		Location:  strings.TrimSpace(req.Location),
		Status:    StatusApplied,
		AppliedAt: time.Now().UTC(),
		Tags:      normalizeTags(req.Tags),
	}

	if app.Company == "" {
		verr.Fields["company"] = "company is required"
	}
	if app.JobTitle == "" {
		verr.Fields["jobTitle"] = "jobTitle is required"
	}
	if req.Status != "" {
		if !ValidStatus(req.Status) {
			verr.Fields["status"] = "status must be one of Applied, Interview, Offer, Rejected, Other"
		} else {
			app.Status = req.Status
		}
	}
	if req.AppliedAt != "" {
		t, err := parseDate(req.AppliedAt)
		if err != nil {
			verr.Fields["appliedAt"] = "appliedAt must be a date"
		} else {
			app.AppliedAt = t
		}
	}
	if req.FollowUpReminder != "" {
		t, err := parseDate(req.FollowUpReminder)
		if err != nil {
			verr.Fields["followUpReminder"] = "followUpReminder must be a date"
		} else {
			app.FollowUpReminder = &t
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if err := s.Store.Insert(ctx, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Application, error) {
	return s.Store.ListByOwner(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, userID, id string) (*Application, error) {
	return s.Store.GetByID(ctx, userID, id)
}

// Update applies only the fields present in the patch. Date and status
// fields are re-validated before the merged record is written.
func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Application, error) {
	app, err := s.Store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	verr := newValidationError()

	if req.Company != nil {
		company := strings.TrimSpace(*req.Company)
		if company == "" {
			verr.Fields["company"] = "company cannot be empty"
		} else {
			app.Company = company
		}
	}
	if req.JobTitle != nil {
		title := strings.TrimSpace(*req.JobTitle)
		if title == "" {
			verr.Fields["jobTitle"] = "jobTitle cannot be empty"
		} else {
			app.JobTitle = title
		}
	}
	if req.JobLink != nil {
		app.JobLink = strings.TrimSpace(*req.JobLink)
	}
	if req.Location != nil {
		app.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			verr.Fields["status"] = "status must be one of Applied, Interview, Offer, Rejected, Other"
		} else {
			app.Status = *req.Status
		}
	}
	if req.AppliedAt != nil {
		t, err := parseDate(*req.AppliedAt)
		if err != nil {
			verr.Fields["appliedAt"] = "appliedAt must be a date"
		} else {
			app.AppliedAt = t
		}
	}
	if req.FollowUpReminder != nil {
		if strings.TrimSpace(*req.FollowUpReminder) == "" {
			app.FollowUpReminder = nil
		} else {
			t, err := parseDate(*req.FollowUpReminder)
			if err != nil {
				verr.Fields["followUpReminder"] = "followUpReminder must be a date"
			} else {
				app.FollowUpReminder = &t
			}
		}
	}
	if req.FollowUpDone != nil {
		app.FollowUpDone = *req.FollowUpDone
	}
	if req.Tags != nil {
		app.Tags = normalizeTags(*req.Tags)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if err := s.Store.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Store.Delete(ctx, userID, id)
}

// ToggleFollowUp flips followUpDone on an owned record. Calling it twice
// restores the original value; nothing else on the record changes.
func (s *Service) ToggleFollowUp(ctx context.Context, userID, id string) (*Application, error) {
	app, err := s.Store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	app.FollowUpDone = !app.FollowUpDone
	if err := s.Store.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// DueFollowUps returns owned records whose reminder is at or before asOf
// and which have not been marked done.
func (s *Service) DueFollowUps(ctx context.Context, userID string, asOf time.Time) ([]Application, error) {
	return s.Store.DueFollowUps(ctx, userID, asOf)
}

// EndOfDay is the conventional asOf for due-follow-up checks: a reminder
// dated today counts as due even when checked in the morning.
func EndOfDay(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}
