package applications

import (
	"encoding/json"
	"strings"
	"time"
)

// Application statuses. Anything outside this set is rejected before it
// reaches the store.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
	StatusOther     = "Other"
)

var validStatuses = map[string]bool{
	StatusApplied:   true,
	StatusInterview: true,
	StatusOffer:     true,
	StatusRejected:  true,
	StatusOther:     true,
}

// ValidStatus reports whether s is one of the five known statuses.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// Application is a single job application owned by exactly one user.
type Application struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Company          string     `json:"company"`
	JobTitle         string     `json:"jobTitle"`
	JobLink          string     `json:"jobLink,omitempty"`
	Location         string     `json:"location,omitempty"`
	Status           string     `json:"status"`
	AppliedAt        time.Time  `json:"appliedAt"`
	FollowUpReminder *time.Time `json:"followUpReminder,omitempty"`
	FollowUpDone     bool       `json:"followUpDone"`
	Tags             []string   `json:"tags"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// TagList accepts either a JSON array of strings or a single
// comma-separated string ("go, backend, remote").
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = strings.Split(s, ",")
	return nil
}

// CreateRequest is the create payload. There is deliberately no owner
// field; ownership always comes from the authenticated caller.
type CreateRequest struct {
	Company          string  `json:"company"`
	JobTitle         string  `json:"jobTitle"`
	JobLink          string  `json:"jobLink"`
	Location         string  `json:"location"`
	Status           string  `json:"status"`
	AppliedAt        string  `json:"appliedAt"`
	FollowUpReminder string  `json:"followUpReminder"`
	Tags             TagList `json:"tags"`
}

// UpdateRequest is a partial update. Nil means "leave unchanged".
type UpdateRequest struct {
	Company          *string  `json:"company"`
	JobTitle         *string  `json:"jobTitle"`
	JobLink          *string  `json:"jobLink"`
	Location         *string  `json:"location"`
	Status           *string  `json:"status"`
	AppliedAt        *string  `json:"appliedAt"`
	FollowUpReminder *string  `json:"followUpReminder"`
	FollowUpDone     *bool    `json:"followUpDone"`
	Tags             *TagList `json:"tags"`
}

// normalizeTags trims every tag and drops empty segments.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
