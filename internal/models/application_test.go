package models

import (
	"testing"
	"time"
)

func TestDecodeApplicationsFlatShape(t *testing.T) {
	data := []byte(`[{"id": 1, "job_title": "Data Analyst", "company": "Data Insights", "applied_at": "2024-02-03T10:00:00", "status": "pending"}]`)

	apps, err := DecodeApplications(data, time.Now())
	if err != nil {
		t.Fatalf("DecodeApplications() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	app := apps[0]
	if app.Job.Title != "Data Analyst" || app.Job.Company != "Data Insights" {
		t.Fatalf("unexpected job snapshot: %+v", app.Job)
	}
	if app.AppliedAt.Year() != 2024 {
		t.Fatalf("AppliedAt = %v", app.AppliedAt)
	}
}

func TestDecodeApplicationsNestedShape(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	data := []byte(`[{"id": 2, "job_id": 9, "user_id": 4, "job": {"id": 9, "title": "Nurse", "company": "City Hospital", "location": "Boston, MA", "category": "Healthcare"}}]`)

	apps, err := DecodeApplications(data, now)
	if err != nil {
		t.Fatalf("DecodeApplications() error = %v", err)
	}
	app := apps[0]
	if app.JobID != 9 || app.UserID != 4 || app.Job.Category != "Healthcare" {
		t.Fatalf("unexpected application: %+v", app)
	}
	if app.Status != "pending" {
		t.Fatalf("Status = %q, want pending", app.Status)
	}
	if !app.AppliedAt.Equal(now) {
		t.Fatalf("AppliedAt = %v, want %v", app.AppliedAt, now)
	}
}
