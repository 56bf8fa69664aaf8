package entity

import "time"

const (
	// MaxTitleLength is the job store's limit on the title column.
	MaxTitleLength = 80

	// JobStatusActive is the only status the wizard ever writes.
	JobStatusActive = "active"

	// NominalBaseRate is a placeholder rate attached to every created job;
	// real pricing happens after a provider accepts.
	NominalBaseRate = 25000
)

// Job is the record shape the job store expects on create.
// Enum answers are stored verbatim (value codes, not display labels).
type Job struct {
	RequesterID    string    `json:"requester_id" bson:"requester_id"`
	AssigneeID     *string   `json:"assignee_id" bson:"assignee_id"` // always nil at creation
	Title          string    `json:"title" bson:"title"`
	Description    string    `json:"description" bson:"description"`
	Category       string    `json:"category" bson:"category"`
	Subtype        string    `json:"subtype" bson:"subtype"`
	Problem        string    `json:"problem" bson:"problem"` // mirrors Description
	Location       string    `json:"location" bson:"location"`
	PhotoURLs      []string  `json:"photo_urls" bson:"photo_urls"`
	BaseRate       int       `json:"base_rate" bson:"base_rate"`
	Status         string    `json:"status" bson:"status"`
	ScheduledAt    time.Time `json:"scheduled_at" bson:"scheduled_at"`
	TimePreference string    `json:"time_preference" bson:"time_preference"`
	Urgent         bool      `json:"urgent" bson:"urgent"`
	PhotoCount     int       `json:"photo_count" bson:"photo_count"`
}

// TruncateTitle clamps a candidate title to the store's column limit.
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTitleLength {
		return s
	}
	return string(runes[:MaxTitleLength])
}
