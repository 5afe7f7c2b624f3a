// Package catalog fetches the general and recommended job listings and
// offers client-side search over them.
package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	jobsPath        = "/jobs/"
	recommendedPath = "/jobs/recommended"
)

// API issues backend calls.
type API interface {
	Do(ctx context.Context, req network.Request, out any) error
}

type Catalog struct {
	api     API
	clock   clockwork.Clock
	logger  zerolog.Logger
	timeout time.Duration
}

// New builds a catalog. A zero timeout uses the client default; a nil clock
// uses the real one.
func New(api API, clock clockwork.Clock, timeout time.Duration, logger zerolog.Logger) *Catalog {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Catalog{api: api, clock: clock, logger: logger, timeout: timeout}
}

// Listing holds both collections with their own errors. The two are never
// merged or deduplicated here.
type Listing struct {
	Jobs           []models.Job
	JobsErr        error
	Recommended    []models.Job
	RecommendedErr error
}

// FetchJobs returns the jobs matching q in server order.
func (c *Catalog) FetchJobs(ctx context.Context, q models.Query) ([]models.Job, error) {
	return c.fetch(ctx, jobsPath, q.Values())
}

// FetchRecommended returns the server-ranked recommendations for the session.
func (c *Catalog) FetchRecommended(ctx context.Context) ([]models.Job, error) {
	return c.fetch(ctx, recommendedPath, nil)
}

// ListJobs is FetchJobs with every failure collapsed to an empty listing.
func (c *Catalog) ListJobs(ctx context.Context, q models.Query) []models.Job {
	jobs, err := c.FetchJobs(ctx, q)
	return c.orEmpty(jobs, err, "jobs")
}

// ListRecommended is FetchRecommended with every failure collapsed to an
// empty listing.
func (c *Catalog) ListRecommended(ctx context.Context) []models.Job {
	jobs, err := c.FetchRecommended(ctx)
	return c.orEmpty(jobs, err, "recommended")
}

// Load fetches both collections concurrently. A failure of one does not
// cancel the other.
func (c *Catalog) Load(ctx context.Context, q models.Query) Listing {
	var (
		listing Listing
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		listing.Jobs, listing.JobsErr = c.FetchJobs(ctx, q)
	}()
	go func() {
		defer wg.Done()
		listing.Recommended, listing.RecommendedErr = c.FetchRecommended(ctx)
	}()
	wg.Wait()

	if listing.Jobs == nil {
		listing.Jobs = []models.Job{}
	}
	if listing.Recommended == nil {
		listing.Recommended = []models.Job{}
	}
	return listing
}

func (c *Catalog) fetch(ctx context.Context, path string, query url.Values) ([]models.Job, error) {
	var raw json.RawMessage
	err := c.api.Do(ctx, network.Request{
		Method:        http.MethodGet,
		Path:          path,
		Query:         query,
		Authenticated: true,
		Timeout:       c.timeout,
	}, &raw)
	if err != nil {
		return nil, err
	}

	jobs, err := models.DecodeJobs(raw, c.clock.Now())
	if err != nil {
		return nil, errs.Malformed(http.MethodGet+" "+path, err)
	}
	return jobs, nil
}

func (c *Catalog) orEmpty(jobs []models.Job, err error, listing string) []models.Job {
	if err != nil {
		c.logger.Warn().Err(err).Str("listing", listing).Str("kind", errs.KindOf(err).String()).Msg("listing unavailable")
		return []models.Job{}
	}
	return jobs
}
