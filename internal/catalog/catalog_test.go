package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct{}

func (fakeTokens) Token(context.Context) (string, bool, error) { return "tok", true, nil }

func newCatalog(t *testing.T, baseURL string, clock clockwork.Clock) *Catalog {
	t.Helper()
	client, err := network.NewClient(network.Options{BaseURL: baseURL, Logger: zerolog.Nop()}, fakeTokens{})
	require.NoError(t, err)
	return New(client, clock, 2*time.Second, zerolog.Nop())
}

const jobsBody = `[
	{"id": 1, "title": "Backend Engineer", "company": "Acme", "location": "Lisbon",
	 "job_type": "Contract", "category": "Technology", "is_remote": true,
	 "posted_date": "2026-09-30T10:15:00.123456"},
	{"id": 2, "title": "Designer", "company": "Beta", "location": "Porto"}
]`

func TestFetchJobsSendsFiltersAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "engineer", r.URL.Query().Get("title"))
		assert.Equal(t, "Lisbon", r.URL.Query().Get("location"))
		_, hasCategory := r.URL.Query()["category"]
		assert.False(t, hasCategory)
		_, _ = io.WriteString(w, jobsBody)
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	c := newCatalog(t, srv.URL, clockwork.NewFakeClockAt(now))

	jobs, err := c.FetchJobs(context.Background(), models.Query{Title: "engineer", Location: "Lisbon", Category: models.AnyCategory})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, int64(1), jobs[0].ID)
	assert.Equal(t, "Contract", jobs[0].JobType)
	assert.True(t, jobs[0].IsRemote)
	assert.Equal(t, 2026, jobs[0].PostedDate.Year())

	assert.Equal(t, models.DefaultJobType, jobs[1].JobType)
	assert.Equal(t, models.DefaultCategory, jobs[1].Category)
	assert.False(t, jobs[1].IsRemote)
	assert.True(t, jobs[1].PostedDate.Equal(now))
}

func TestListJobsEmptyOnConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := newCatalog(t, baseURL, nil)
	jobs := c.ListJobs(context.Background(), models.Query{})
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)

	recommended := c.ListRecommended(context.Background())
	assert.NotNil(t, recommended)
	assert.Empty(t, recommended)
}

func TestFetchJobsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"jobs": []}`)
	}))
	defer srv.Close()

	c := newCatalog(t, srv.URL, nil)
	_, err := c.FetchJobs(context.Background(), models.Query{})
	assert.Equal(t, errs.KindMalformedResponse, errs.KindOf(err))
	assert.Empty(t, c.ListJobs(context.Background(), models.Query{}))
}

func TestLoadKeepsCollectionsIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs/":
			_, _ = io.WriteString(w, jobsBody)
		case "/jobs/recommended":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail": "Not authenticated"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	listing := newCatalog(t, srv.URL, nil).Load(context.Background(), models.Query{})
	require.NoError(t, listing.JobsErr)
	assert.Len(t, listing.Jobs, 2)
	assert.Equal(t, http.StatusUnauthorized, errs.StatusOf(listing.RecommendedErr))
	assert.NotNil(t, listing.Recommended)
	assert.Empty(t, listing.Recommended)
}

type fakeAPI struct {
	doFn func(ctx context.Context, req network.Request, out any) error
}

func (f *fakeAPI) Do(ctx context.Context, req network.Request, out any) error {
	return f.doFn(ctx, req, out)
}

func TestLoadRunsFetchesConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	api := &fakeAPI{doFn: func(ctx context.Context, req network.Request, out any) error {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inFlight.Add(-1)
		if req.Path == recommendedPath {
			return errs.Transport("GET "+req.Path, errors.New("connection reset"))
		}
		*(out.(*json.RawMessage)) = []byte(`[]`)
		return nil
	}}

	listing := New(api, clockwork.NewFakeClock(), 0, zerolog.Nop()).Load(context.Background(), models.Query{})
	assert.Equal(t, int32(2), peak.Load())
	require.NoError(t, listing.JobsErr)
	assert.Equal(t, errs.KindTransport, errs.KindOf(listing.RecommendedErr))
}
