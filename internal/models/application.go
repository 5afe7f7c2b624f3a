package models

import (
	"encoding/json"
	"time"
)

// Application is a submitted job application as shown to the user.
type Application struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"job_id,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
	Job       Job       `json:"job"`
}

// ApplicationPayload accepts both the nested shape (a "job" object) and the
// flat shape ("job_title" and "company") the backend uses for listings.
type ApplicationPayload struct {
	ID        int64       `json:"id"`
	JobID     int64       `json:"job_id"`
	UserID    int64       `json:"user_id"`
	Status    string      `json:"status"`
	AppliedAt string      `json:"applied_at"`
	Job       *JobPayload `json:"job"`
	JobTitle  string      `json:"job_title"`
	Company   string      `json:"company"`
}

// Application converts the payload; now backs a missing applied_at.
func (p ApplicationPayload) Application(now time.Time) Application {
	app := Application{
		ID:        p.ID,
		JobID:     p.JobID,
		UserID:    p.UserID,
		Status:    p.Status,
		AppliedAt: now,
	}
	if app.Status == "" {
		app.Status = "pending"
	}
	if ts, err := ParseTimestamp(p.AppliedAt); err == nil {
		app.AppliedAt = ts
	}
	if p.Job != nil {
		app.Job = p.Job.Job(now)
	} else {
		app.Job = JobPayload{ID: p.JobID, Title: p.JobTitle, Company: p.Company}.Job(now)
	}
	if app.JobID == 0 {
		app.JobID = app.Job.ID
	}
	return app
}

// DecodeApplications decodes a JSON array of application payloads.
func DecodeApplications(data []byte, now time.Time) ([]Application, error) {
	var payloads []ApplicationPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, err
	}
	apps := make([]Application, 0, len(payloads))
	for _, p := range payloads {
		apps = append(apps, p.Application(now))
	}
	return apps, nil
}
