package applications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct{}

func (fakeTokens) Token(context.Context) (string, bool, error) { return "tok", true, nil }

func newService(t *testing.T, baseURL string, clock clockwork.Clock) *Service {
	t.Helper()
	client, err := network.NewClient(network.Options{BaseURL: baseURL, Logger: zerolog.Nop()}, fakeTokens{})
	require.NoError(t, err)
	return New(client, clock, 2*time.Second, zerolog.Nop())
}

func TestApplySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/applications/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]int64
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(42), body["job_id"])
		_, _ = io.WriteString(w, `{"message": "Application submitted successfully", "application_id": 5}`)
	}))
	defer srv.Close()

	svc := newService(t, srv.URL, nil)
	assert.True(t, svc.Apply(context.Background(), 42))

	receipt, err := svc.Submit(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(5), receipt.ApplicationID)
}

func TestApplySucceedsOnAny2xxBody(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"created without body", http.StatusCreated, ""},
		{"no content", http.StatusNoContent, ""},
		{"plain text", http.StatusOK, "ok"},
		{"json string", http.StatusOK, `"submitted"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			svc := newService(t, srv.URL, nil)
			assert.True(t, svc.Apply(context.Background(), 3))

			receipt, err := svc.Submit(context.Background(), 3)
			require.NoError(t, err)
			assert.Equal(t, Receipt{}, receipt)
		})
	}
}

func TestApplyFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		detail string
	}{
		{"already applied", http.StatusBadRequest, "Already applied"},
		{"job not found", http.StatusNotFound, "Job not found"},
		{"not authenticated", http.StatusUnauthorized, "Not authenticated"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": tc.detail})
			}))
			defer srv.Close()

			svc := newService(t, srv.URL, nil)
			assert.False(t, svc.Apply(context.Background(), 1))

			_, err := svc.Submit(context.Background(), 1)
			assert.Equal(t, tc.status, errs.StatusOf(err))
			assert.Equal(t, tc.detail, errs.DetailOf(err))
		})
	}
}

func TestApplyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	assert.False(t, newService(t, baseURL, nil).Apply(context.Background(), 1))
}

func TestFetchApplicationsFlatShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `[
			{"id": 7, "job_title": "Backend Engineer", "company": "Acme",
			 "applied_at": "2026-10-01T09:00:00", "status": "pending"},
			{"id": 8, "job_title": "Designer", "company": "Beta", "status": "reviewed"}
		]`)
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	apps, err := newService(t, srv.URL, clockwork.NewFakeClockAt(now)).FetchApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)

	assert.Equal(t, "Backend Engineer", apps[0].Job.Title)
	assert.Equal(t, "Acme", apps[0].Job.Company)
	assert.Equal(t, 1, apps[0].AppliedAt.Day())
	assert.Equal(t, "reviewed", apps[1].Status)
	assert.True(t, apps[1].AppliedAt.Equal(now))
}

func TestListApplicationsEmptyOnConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	apps := newService(t, baseURL, nil).ListApplications(context.Background())
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestListApplicationsEmptyOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"nope"`)
	}))
	defer srv.Close()

	svc := newService(t, srv.URL, nil)
	_, err := svc.FetchApplications(context.Background())
	assert.Equal(t, errs.KindMalformedResponse, errs.KindOf(err))
	assert.Empty(t, svc.ListApplications(context.Background()))
}
