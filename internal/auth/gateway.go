// Package auth runs the login and signup flows and hands the issued token to
// the session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/rs/zerolog"
)

const (
	DefaultLoginTimeout  = 10 * time.Second
	DefaultSignupTimeout = 30 * time.Second
)

// API issues backend calls.
type API interface {
	Do(ctx context.Context, req network.Request, out any) error
}

// Session persists what a successful login produces.
type Session interface {
	Save(ctx context.Context, token string) error
	SaveProfile(ctx context.Context, profile models.UserProfile) error
	SignOut(ctx context.Context) error
}

type Options struct {
	LoginTimeout  time.Duration
	SignupTimeout time.Duration
}

// Result is the outcome of a login or signup. Err keeps the classified
// failure for logging; callers branch on OK and NeedsSignup.
type Result struct {
	OK          bool
	NeedsSignup bool
	Message     string
	Profile     models.UserProfile
	Err         error
}

type Gateway struct {
	api           API
	session       Session
	logger        zerolog.Logger
	loginTimeout  time.Duration
	signupTimeout time.Duration
}

func NewGateway(api API, session Session, opts Options, logger zerolog.Logger) *Gateway {
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = DefaultLoginTimeout
	}
	if opts.SignupTimeout <= 0 {
		opts.SignupTimeout = DefaultSignupTimeout
	}
	return &Gateway{
		api:           api,
		session:       session,
		logger:        logger,
		loginTimeout:  opts.LoginTimeout,
		signupTimeout: opts.SignupTimeout,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
func (g *Gateway) Login(ctx context.Context, email, password string) Result {
	var resp models.AuthResponse
	err := g.api.Do(ctx, network.Request{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Body:    credentials{Email: strings.TrimSpace(email), Password: password},
		Timeout: g.loginTimeout,
	}, &resp)
	if err != nil {
		g.logger.Debug().Err(err).Msg("login failed")
		return loginFailure(err)
	}
	return g.complete(ctx, "login", resp, nil)
}

// Signup creates an account. The resume is attached when it has content.
func (g *Gateway) Signup(ctx context.Context, draft models.SignupDraft, password string, resume *models.Resume) Result {
	fields := append(draft.Fields(), models.Field{Name: "password", Value: password})

	var files []network.FilePart
	if resume != nil && resume.Content != nil {
		files = append(files, network.FilePart{
			Field:       "resume",
			FileName:    resume.FileName,
			ContentType: resume.ContentType,
			Content:     resume.Content,
		})
	}

	var resp models.AuthResponse
	err := g.api.Do(ctx, network.Request{
		Method:  http.MethodPost,
		Path:    "/auth/signup",
		Fields:  fields,
		Files:   files,
		Timeout: g.signupTimeout,
	}, &resp)
	if err != nil {
		g.logger.Debug().Err(err).Msg("signup failed")
		return signupFailure(err)
	}
	return g.complete(ctx, "signup", resp, &draft)
}

// SignOut forgets the token and the stored profile.
func (g *Gateway) SignOut(ctx context.Context) error {
	return g.session.SignOut(ctx)
}

func (g *Gateway) complete(ctx context.Context, op string, resp models.AuthResponse, draft *models.SignupDraft) Result {
	token := strings.TrimSpace(resp.AccessToken)
	if token == "" {
		err := errs.Malformed(op, errors.New("missing access_token"))
		return Result{Message: "Unexpected response from server", Err: err}
	}

	if err := g.session.Save(ctx, token); err != nil {
		return Result{Message: fmt.Sprintf("Could not save session: %v", err), Err: err}
	}

	profile := resp.User.Profile()
	if draft != nil {
		profile = draft.Fill(profile)
	}
	if err := g.session.SaveProfile(ctx, profile); err != nil {
		g.logger.Warn().Err(err).Str("op", op).Msg("profile not persisted")
	}
	return Result{OK: true, Profile: profile}
}

func loginFailure(err error) Result {
	res := Result{Err: err, Message: failureMessage(err, "Login failed")}
	status := errs.StatusOf(err)
	res.NeedsSignup = status == http.StatusUnauthorized ||
		status == http.StatusNotFound ||
		strings.Contains(strings.ToLower(res.Message), "invalid")
	return res
}

func signupFailure(err error) Result {
	if errs.Is(err, errs.KindTransport) || errs.Is(err, errs.KindTimeout) {
		return Result{Err: err, Message: "Network error: " + causeOf(err)}
	}
	return Result{Err: err, Message: failureMessage(err, "Signup failed")}
}

func failureMessage(err error, fallback string) string {
	if detail := errs.DetailOf(err); detail != "" {
		return detail
	}
	switch errs.KindOf(err) {
	case errs.KindHTTPStatus:
		return fmt.Sprintf("%s (HTTP %d)", fallback, errs.StatusOf(err))
	case errs.KindMalformedResponse:
		return "Unexpected response from server"
	default:
		return err.Error()
	}
}

func causeOf(err error) string {
	var e *errs.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
