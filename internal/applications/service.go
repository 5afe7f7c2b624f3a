// Package applications submits and lists the signed-in user's job
// applications.
package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const applicationsPath = "/applications/"

// API issues backend calls.
type API interface {
	Do(ctx context.Context, req network.Request, out any) error
	Send(ctx context.Context, req network.Request) ([]byte, error)
}

type Service struct {
	api     API
	clock   clockwork.Clock
	logger  zerolog.Logger
	timeout time.Duration
}

func New(api API, clock clockwork.Clock, timeout time.Duration, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{api: api, clock: clock, logger: logger, timeout: timeout}
}

// Receipt is the body of a successful apply.
type Receipt struct {
	Message       string `json:"message"`
	ApplicationID int64  `json:"application_id"`
}

type applyRequest struct {
	JobID int64 `json:"job_id"`
}

// Submit applies to jobID and returns the classified failure, if any. Any
// 2xx is a success; the receipt is filled only when the body carries one.
func (s *Service) Submit(ctx context.Context, jobID int64) (Receipt, error) {
	body, err := s.api.Send(ctx, network.Request{
		Method:        http.MethodPost,
		Path:          applicationsPath,
		Body:          applyRequest{JobID: jobID},
		Authenticated: true,
		Timeout:       s.timeout,
	})
	if err != nil {
		return Receipt{}, err
	}

	var receipt Receipt
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &receipt); err != nil {
			s.logger.Debug().Err(err).Int64("job_id", jobID).Msg("apply receipt not decoded")
			receipt = Receipt{}
		}
	}
	return receipt, nil
}

// Apply reports whether the server accepted the application. Any failure,
// an existing application included, is false.
func (s *Service) Apply(ctx context.Context, jobID int64) bool {
	if _, err := s.Submit(ctx, jobID); err != nil {
		s.logger.Warn().Err(err).Int64("job_id", jobID).Msg("apply failed")
		return false
	}
	return true
}

// FetchApplications returns the user's applications in server order.
func (s *Service) FetchApplications(ctx context.Context) ([]models.Application, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, network.Request{
		Method:        http.MethodGet,
		Path:          applicationsPath,
		Authenticated: true,
		Timeout:       s.timeout,
	}, &raw)
	if err != nil {
		return nil, err
	}

	apps, err := models.DecodeApplications(raw, s.clock.Now())
	if err != nil {
		return nil, errs.Malformed(http.MethodGet+" "+applicationsPath, err)
	}
	return apps, nil
}

// ListApplications is FetchApplications with every failure collapsed to an
// empty list.
func (s *Service) ListApplications(ctx context.Context) []models.Application {
	apps, err := s.FetchApplications(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", errs.KindOf(err).String()).Msg("applications unavailable")
		return []models.Application{}
	}
	return apps
}
