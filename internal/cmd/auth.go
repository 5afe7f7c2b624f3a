package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jimezsa/jobseek/internal/models"
)

// MinGraduationAge is the smallest accepted gap, in years, between date of
// birth and graduation date.
const MinGraduationAge = 20

type PingCmd struct{}

type LoginCmd struct {
	Email    string `required:"" help:"Account email."`
	Password string `help:"Password; read from stdin when empty." env:"JOBSEEK_PASSWORD"`
}

type SignupCmd struct {
	Email          string `required:"" help:"Account email."`
	Password       string `help:"Password; read from stdin when empty." env:"JOBSEEK_PASSWORD"`
	FullName       string `name:"name" required:"" help:"Full name."`
	Location       string `required:"" help:"Where you live."`
	Institution    string `required:"" help:"Graduation institution."`
	Transportation string `required:"" help:"Transportation mode (e.g. car, public, bike)."`
	DateOfBirth    string `name:"dob" help:"Date of birth (yyyy-MM-dd)."`
	GraduationDate string `name:"graduated" help:"Graduation date (yyyy-MM-dd)."`
	Resume         string `help:"Path to a resume file to upload." type:"existingfile"`
}

type LogoutCmd struct{}

type StatusCmd struct{}

type ProfileCmd struct{}

func (p *PingCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if !a.Client.CheckReachable(context.Background(), ctx.Config.ReachabilityTimeout()) {
		return fmt.Errorf("backend unreachable at %s", a.Client.BaseURL())
	}
	ctx.UI.Successf("Backend reachable at %s", a.Client.BaseURL())
	return nil
}

func (l *LoginCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	background := context.Background()
	if !a.Client.CheckReachable(background, ctx.Config.ReachabilityTimeout()) {
		return fmt.Errorf("cannot reach backend at %s", a.Client.BaseURL())
	}

	password, err := resolvePassword(ctx, l.Password)
	if err != nil {
		return err
	}

	res := a.Auth.Login(background, l.Email, password)
	if !res.OK {
		ctx.Logger.Debug().Err(res.Err).Msg("login")
		if res.NeedsSignup {
			ctx.UI.Hintf("No account for %s? Create one with: jobseek signup --email %s", l.Email, l.Email)
		}
		return fmt.Errorf("login failed: %s", res.Message)
	}
	return writeProfile(ctx, res.Profile, "Logged in as")
}

func (s *SignupCmd) Run(ctx *Context) error {
	draft, err := s.draft()
	if err != nil {
		return err
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}
	background := context.Background()
	if !a.Client.CheckReachable(background, ctx.Config.ReachabilityTimeout()) {
		return fmt.Errorf("cannot reach backend at %s", a.Client.BaseURL())
	}

	password, err := resolvePassword(ctx, s.Password)
	if err != nil {
		return err
	}

	var resume *models.Resume
	if strings.TrimSpace(s.Resume) != "" {
		file, err := os.Open(s.Resume)
		if err != nil {
			return fmt.Errorf("open --resume: %w", err)
		}
		defer file.Close()
		resume = &models.Resume{
			FileName:    filepath.Base(s.Resume),
			ContentType: mime.TypeByExtension(filepath.Ext(s.Resume)),
			Content:     file,
		}
	}

	res := a.Auth.Signup(background, draft, password, resume)
	if !res.OK {
		ctx.Logger.Debug().Err(res.Err).Msg("signup")
		return fmt.Errorf("signup failed: %s", res.Message)
	}
	return writeProfile(ctx, res.Profile, "Account created for")
}

func (s *SignupCmd) draft() (models.SignupDraft, error) {
	dob, err := models.ParseDate(s.DateOfBirth)
	if err != nil {
		return models.SignupDraft{}, fmt.Errorf("--dob: %w", err)
	}
	graduated, err := models.ParseDate(s.GraduationDate)
	if err != nil {
		return models.SignupDraft{}, fmt.Errorf("--graduated: %w", err)
	}
	if err := ValidateAgeGap(dob, graduated); err != nil {
		return models.SignupDraft{}, err
	}
	return models.SignupDraft{
		Email:                 strings.TrimSpace(s.Email),
		FullName:              strings.TrimSpace(s.FullName),
		DateOfBirth:           dob,
		Location:              strings.TrimSpace(s.Location),
		GraduationDate:        graduated,
		GraduationInstitution: strings.TrimSpace(s.Institution),
		TransportationMode:    strings.TrimSpace(s.Transportation),
	}, nil
}

// ValidateAgeGap requires graduation to be at least MinGraduationAge years
// after birth when both dates are given.
func ValidateAgeGap(dob, graduated *time.Time) error {
	if dob == nil || graduated == nil {
		return nil
	}
	if graduated.Before(dob.AddDate(MinGraduationAge, 0, 0)) {
		return fmt.Errorf("graduation date must be at least %d years after date of birth", MinGraduationAge)
	}
	return nil
}

func (l *LogoutCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Auth.SignOut(context.Background()); err != nil {
		return err
	}
	ctx.UI.Successf("Signed out")
	return nil
}

type statusReport struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	HasToken  bool   `json:"has_token"`
	Valid     bool   `json:"valid"`
	Email     string `json:"email,omitempty"`
}

func (s *StatusCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	background := context.Background()

	report := statusReport{BaseURL: a.Client.BaseURL()}
	_, report.HasToken, err = a.Session.Token(background)
	if err != nil {
		return err
	}
	report.Reachable = a.Client.CheckReachable(background, ctx.Config.ReachabilityTimeout())
	if report.HasToken && report.Reachable {
		report.Valid = a.Session.ProbeValidity(background, a.Client, ctx.Config.ProbeTimeout())
	}
	if profile, ok, err := a.Session.Profile(background); err == nil && ok {
		report.Email = profile.Email
	}

	if ctx.JSONOutput {
		return writeJSONValue(ctx, report)
	}
	if ctx.PlainText {
		_, err := fmt.Fprintf(ctx.Out, "%s\t%t\t%t\t%t\t%s\n", report.BaseURL, report.Reachable, report.HasToken, report.Valid, report.Email)
		return err
	}

	switch {
	case !report.Reachable:
		ctx.UI.Warnf("Backend unreachable at %s", report.BaseURL)
	case !report.HasToken:
		ctx.UI.Infof("Not signed in. Run: jobseek login --email <email>")
	case report.Valid:
		ctx.UI.Successf("Signed in as %s", fallback(report.Email, "(unknown)"))
	default:
		ctx.UI.Warnf("Session expired or rejected. Run: jobseek login --email %s", fallback(report.Email, "<email>"))
	}
	return nil
}

func (p *ProfileCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	profile, ok, err := a.Session.Profile(context.Background())
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no stored profile; log in first")
	}
	return writeProfile(ctx, profile, "")
}

func writeProfile(ctx *Context, profile models.UserProfile, headline string) error {
	if ctx.JSONOutput {
		return writeJSONValue(ctx, profile)
	}
	if headline != "" && !ctx.PlainText {
		ctx.UI.Successf("%s %s", headline, fallback(profile.Email, profile.FullName))
	}

	rows := [][2]string{
		{"email", profile.Email},
		{"name", profile.FullName},
		{"location", profile.Location},
		{"date_of_birth", models.FormatDate(profile.DateOfBirth)},
		{"graduation_date", models.FormatDate(profile.GraduationDate)},
		{"institution", profile.GraduationInstitution},
		{"transportation", profile.TransportationMode},
		{"resume", profile.ResumeReference},
	}
	return writeKeyValues(ctx, rows)
}

func resolvePassword(ctx *Context, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if ctx.In == nil {
		return "", errors.New("password required: pass --password or JOBSEEK_PASSWORD")
	}
	if isTTY(ctx.Err) {
		fmt.Fprint(ctx.Err, "Password: ")
	}
	line, err := bufio.NewReader(ctx.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password required")
	}
	return password, nil
}

func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}
