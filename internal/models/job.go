package models

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	DefaultJobType  = "Full-time"
	DefaultCategory = "General"
)

// Job is a listing as returned by the backend, with defaults applied.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	SalaryMin    *float64  `json:"salary_min,omitempty"`
	SalaryMax    *float64  `json:"salary_max,omitempty"`
	Description  string    `json:"description,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	JobType      string    `json:"job_type"`
	Category     string    `json:"category"`
	IsRemote     bool      `json:"is_remote"`
	PostedDate   time.Time `json:"posted_date"`
}

// JobPayload mirrors the wire shape; every optional field is a pointer so
// absence can be told apart from a zero value.
type JobPayload struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	SalaryMin    *float64 `json:"salary_min"`
	SalaryMax    *float64 `json:"salary_max"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	JobType      *string  `json:"job_type"`
	Category     *string  `json:"category"`
	IsRemote     *bool    `json:"is_remote"`
	PostedDate   *string  `json:"posted_date"`
}

// Job converts the payload, using now when posted_date is missing or
// unparsable.
func (p JobPayload) Job(now time.Time) Job {
	job := Job{
		ID:           p.ID,
		Title:        strings.TrimSpace(p.Title),
		Company:      strings.TrimSpace(p.Company),
		Location:     strings.TrimSpace(p.Location),
		SalaryMin:    p.SalaryMin,
		SalaryMax:    p.SalaryMax,
		Description:  p.Description,
		Requirements: p.Requirements,
		JobType:      DefaultJobType,
		Category:     DefaultCategory,
		PostedDate:   now,
	}
	if p.JobType != nil && strings.TrimSpace(*p.JobType) != "" {
		job.JobType = strings.TrimSpace(*p.JobType)
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) != "" {
		job.Category = strings.TrimSpace(*p.Category)
	}
	if p.IsRemote != nil {
		job.IsRemote = *p.IsRemote
	}
	if p.PostedDate != nil {
		if ts, err := ParseTimestamp(*p.PostedDate); err == nil {
			job.PostedDate = ts
		}
	}
	return job
}

// DecodeJobs decodes a JSON array of job payloads.
func DecodeJobs(data []byte, now time.Time) ([]Job, error) {
	var payloads []JobPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(payloads))
	for _, p := range payloads {
		jobs = append(jobs, p.Job(now))
	}
	return jobs, nil
}
