package jobstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jeffail/gabs/v2"
	"github.com/go-resty/resty/v2"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

// Service publishes finished jobs to the marketplace job store over its
// REST interface.
type Service struct {
	client *resty.Client
	log    *slog.Logger
}

func NewJobStoreService(baseURL, apiKey string, logger *slog.Logger) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("apikey", apiKey).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json")

	return &Service{
		client: client,
		log:    logger.With(sl.Module("jobstore-service")),
	}
}

type jobPayload struct {
	RequesterID    string    `json:"requester_id"`
	AssigneeID     *string   `json:"assignee_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Subtype        string    `json:"subtype"`
	Problem        string    `json:"problem"`
	Location       string    `json:"location"`
	PhotoURLs      []string  `json:"photo_urls"`
	BaseRate       int       `json:"base_rate"`
	Status         string    `json:"status"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	TimePreference string    `json:"time_preference"`
	Urgent         bool      `json:"urgent"`
	PhotoCount     int       `json:"photo_count"`
}

// Create inserts a job record and returns the identifier assigned by the store.
func (s *Service) Create(ctx context.Context, job *entity.Job) (string, error) {
	payload := jobPayload{
		RequesterID:    job.RequesterID,
		AssigneeID:     job.AssigneeID,
		Title:          job.Title,
		Description:    job.Description,
		Category:       job.Category,
		Subtype:        job.Subtype,
		Problem:        job.Problem,
		Location:       job.Location,
		PhotoURLs:      job.PhotoURLs,
		BaseRate:       job.BaseRate,
		Status:         job.Status,
		ScheduledAt:    job.ScheduledAt,
		TimePreference: job.TimePreference,
		Urgent:         job.Urgent,
		PhotoCount:     job.PhotoCount,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(payload).
		Post("/rest/v1/jobs")
	if err != nil {
		return "", fmt.Errorf("posting job: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("job store returned %d: %s", resp.StatusCode(), s.errorMessage(resp.Body()))
	}

	id, err := s.parseCreatedID(resp.Body())
	if err != nil {
		return "", err
	}

	s.log.Info("job created",
		slog.String("job_id", id),
		slog.String("category", job.Category),
		slog.Bool("urgent", job.Urgent),
	)

	return id, nil
}

// parseCreatedID extracts the new job id from the representation the store
// returns, which is an array with a single inserted row.
func (s *Service) parseCreatedID(body []byte) (string, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return "", fmt.Errorf("parsing job store response: %w", err)
	}

	rows := parsed.Children()
	if len(rows) == 0 {
		return "", fmt.Errorf("job store returned no rows")
	}

	if id, ok := rows[0].Path("id").Data().(string); ok && id != "" {
		return id, nil
	}
	if id, ok := rows[0].Path("id").Data().(float64); ok {
		return fmt.Sprintf("%.0f", id), nil
	}

	return "", fmt.Errorf("job store response has no id field")
}

func (s *Service) errorMessage(body []byte) string {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return string(body)
	}
	if msg, ok := parsed.Path("message").Data().(string); ok && msg != "" {
		return msg
	}
	return parsed.String()
}
