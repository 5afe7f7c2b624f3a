// Package app assembles the session and data-access layer: one store, one
// session manager and one API client shared by every service.
package app

import (
	"time"

	"github.com/jimezsa/jobseek/internal/applications"
	"github.com/jimezsa/jobseek/internal/auth"
	"github.com/jimezsa/jobseek/internal/catalog"
	"github.com/jimezsa/jobseek/internal/config"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jimezsa/jobseek/internal/session"
	"github.com/jimezsa/jobseek/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Options are the inputs to Initialize.
type Options struct {
	Config  config.Config
	Proxies []string
	Version string
	Logger  zerolog.Logger
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Store overrides the configured backend, mostly for tests.
	Store store.Store
}

// App is one running client.
type App struct {
	Config       config.Config
	Session      *session.Manager
	Client       *network.Client
	Auth         *auth.Gateway
	Catalog      *catalog.Catalog
	Applications *applications.Service
}

func newApp(
	opts Options,
	mgr *session.Manager,
	client *network.Client,
	gateway *auth.Gateway,
	jobs *catalog.Catalog,
	apps *applications.Service,
) *App {
	return &App{
		Config:       opts.Config,
		Session:      mgr,
		Client:       client,
		Auth:         gateway,
		Catalog:      jobs,
		Applications: apps,
	}
}

func provideLogger(opts Options) zerolog.Logger {
	return opts.Logger
}

func provideClock(opts Options) clockwork.Clock {
	if opts.Clock == nil {
		return clockwork.NewRealClock()
	}
	return opts.Clock
}

func provideStore(opts Options) (store.Store, func(), error) {
	if opts.Store != nil {
		return opts.Store, func() {}, nil
	}
	path, err := opts.Config.ResolvedStorePath()
	if err != nil {
		return nil, nil, err
	}
	st, closeFn, err := store.Open(opts.Config.Store, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := closeFn(); err != nil {
			opts.Logger.Warn().Err(err).Msg("close session store")
		}
	}
	return st, cleanup, nil
}

func provideClient(opts Options, tokens network.TokenSource, logger zerolog.Logger) (*network.Client, error) {
	cfg := opts.Config
	maxTimeout := cfg.RequestTimeout()
	for _, d := range []time.Duration{cfg.LoginTimeout(), cfg.SignupTimeout(), cfg.ProbeTimeout()} {
		if d > maxTimeout {
			maxTimeout = d
		}
	}
	return network.NewClient(network.Options{
		BaseURL:        cfg.BaseURL,
		Profile:        cfg.ClientProfile,
		Proxies:        opts.Proxies,
		DefaultTimeout: cfg.RequestTimeout(),
		MaxTimeout:     maxTimeout,
		UserAgent:      userAgent(opts.Version),
		Logger:         logger,
	}, tokens)
}

func provideGateway(api auth.API, sess auth.Session, opts Options, logger zerolog.Logger) *auth.Gateway {
	return auth.NewGateway(api, sess, auth.Options{
		LoginTimeout:  opts.Config.LoginTimeout(),
		SignupTimeout: opts.Config.SignupTimeout(),
	}, logger)
}

func provideCatalog(api catalog.API, clock clockwork.Clock, opts Options, logger zerolog.Logger) *catalog.Catalog {
	return catalog.New(api, clock, opts.Config.RequestTimeout(), logger)
}

func provideApplications(api applications.API, clock clockwork.Clock, opts Options, logger zerolog.Logger) *applications.Service {
	return applications.New(api, clock, opts.Config.RequestTimeout(), logger)
}

func userAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return "jobseek/" + version
}
