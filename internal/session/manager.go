// Package session owns the bearer token lifecycle: it loads the persisted
// token once, keeps it in memory, and writes every change through to the
// store before it becomes visible.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jimezsa/jobseek/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	KeyToken = "auth_token"

	KeyUserID                = "user_id"
	KeyEmail                 = "user_email"
	KeyFullName              = "user_full_name"
	KeyLocation              = "user_location"
	KeyGraduationInstitution = "user_graduation_institution"
	KeyTransportationMode    = "user_transportation_mode"
	KeyDateOfBirth           = "user_date_of_birth"
	KeyGraduationDate        = "user_graduation_date"
	KeyResume                = "user_resume"

	DefaultProbeTimeout = 5 * time.Second

	probePath = "/applications/"
)

// ProfileKeys lists every key used for the persisted profile.
var ProfileKeys = []string{
	KeyUserID,
	KeyEmail,
	KeyFullName,
	KeyLocation,
	KeyGraduationInstitution,
	KeyTransportationMode,
	KeyDateOfBirth,
	KeyGraduationDate,
	KeyResume,
}

// Requester issues API calls. *network.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, req network.Request, out any) error
}

// Manager holds the single session token of a running client.
type Manager struct {
	store  store.Store
	logger zerolog.Logger

	group singleflight.Group
	// writeMu serializes Save, Clear and SignOut.
	writeMu sync.Mutex

	mu      sync.Mutex
	token   string
	present bool
	loaded  bool
	// gen is bumped by every mutation; a load started under an older
	// generation must not overwrite memory.
	gen uint64
}

func NewManager(st store.Store, logger zerolog.Logger) *Manager {
	return &Manager{store: st, logger: logger}
}

// EnsureLoaded reads the persisted token into memory once. Concurrent callers
// share a single in-flight read. A caller whose ctx ends stops waiting; the
// read itself still completes for the others.
func (m *Manager) EnsureLoaded(ctx context.Context) error {
	if m.isLoaded() {
		return nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan("load", func() (any, error) {
		return nil, m.load(loadCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) load(ctx context.Context) error {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return nil
	}
	gen := m.gen
	m.mu.Unlock()

	token, ok, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		m.logger.Warn().Err(err).Msg("load session token")
		return errs.Storage("load token", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded && m.gen == gen {
		m.token, m.present = token, ok && token != ""
	}
	m.loaded = true
	m.logger.Debug().Bool("present", m.present).Msg("session loaded")
	return nil
}

func (m *Manager) isLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Token returns the current token, loading it first if needed.
func (m *Manager) Token(ctx context.Context) (string, bool, error) {
	if err := m.EnsureLoaded(ctx); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.present, nil
}

// Save persists token and then makes it the current token. On a store
// failure memory is left unchanged.
func (m *Manager) Save(ctx context.Context, token string) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.store.Set(ctx, KeyToken, token); err != nil {
		return errs.Storage("save token", err)
	}
	m.set(token, token != "")
	return nil
}

// Clear removes the token from the store and memory.
func (m *Manager) Clear(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.store.Delete(ctx, KeyToken); err != nil {
		return errs.Storage("clear token", err)
	}
	m.set("", false)
	return nil
}

// SignOut clears the token and every persisted profile field.
func (m *Manager) SignOut(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	keys := append([]string{KeyToken}, ProfileKeys...)
	if err := m.store.Delete(ctx, keys...); err != nil {
		return errs.Storage("sign out", err)
	}
	m.set("", false)
	m.logger.Debug().Msg("signed out")
	return nil
}

func (m *Manager) set(token string, present bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.present = token, present
	m.loaded = true
	m.gen++
}

// ProbeValidity makes one authenticated call to a cheap endpoint and reports
// whether the server accepted the token within timeout.
func (m *Manager) ProbeValidity(ctx context.Context, requester Requester, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := requester.Do(ctx, network.Request{
		Method:        "GET",
		Path:          probePath,
		Authenticated: true,
		Timeout:       timeout,
	}, nil)
	if err != nil {
		m.logger.Debug().Err(err).Str("kind", errs.KindOf(err).String()).Msg("token probe failed")
		return false
	}
	return true
}

// SaveProfile writes the display copy of the profile. Empty fields are
// removed so a shorter profile never leaves stale values behind.
func (m *Manager) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	values := profileValues(profile)
	var empty []string
	for _, key := range ProfileKeys {
		value := values[key]
		if value == "" {
			empty = append(empty, key)
			continue
		}
		if err := m.store.Set(ctx, key, value); err != nil {
			return errs.Storage("save profile", err)
		}
	}
	if len(empty) > 0 {
		if err := m.store.Delete(ctx, empty...); err != nil {
			return errs.Storage("save profile", err)
		}
	}
	return nil
}

// Profile returns the last persisted profile and whether any field was set.
func (m *Manager) Profile(ctx context.Context) (models.UserProfile, bool, error) {
	values := make(map[string]string, len(ProfileKeys))
	for _, key := range ProfileKeys {
		value, ok, err := m.store.Get(ctx, key)
		if err != nil {
			return models.UserProfile{}, false, errs.Storage("load profile", err)
		}
		if ok {
			values[key] = value
		}
	}
	if len(values) == 0 {
		return models.UserProfile{}, false, nil
	}

	profile := models.UserProfile{
		ID:                    values[KeyUserID],
		Email:                 values[KeyEmail],
		FullName:              values[KeyFullName],
		Location:              values[KeyLocation],
		GraduationInstitution: values[KeyGraduationInstitution],
		TransportationMode:    values[KeyTransportationMode],
		ResumeReference:       values[KeyResume],
	}
	profile.DateOfBirth, _ = models.ParseDate(values[KeyDateOfBirth])
	profile.GraduationDate, _ = models.ParseDate(values[KeyGraduationDate])
	return profile, true, nil
}

func profileValues(p models.UserProfile) map[string]string {
	return map[string]string{
		KeyUserID:                p.ID,
		KeyEmail:                 p.Email,
		KeyFullName:              p.FullName,
		KeyLocation:              p.Location,
		KeyGraduationInstitution: p.GraduationInstitution,
		KeyTransportationMode:    p.TransportationMode,
		KeyDateOfBirth:           models.FormatDate(p.DateOfBirth),
		KeyGraduationDate:        models.FormatDate(p.GraduationDate),
		KeyResume:                p.ResumeReference,
	}
}
