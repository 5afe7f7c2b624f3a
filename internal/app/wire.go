//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/jimezsa/jobseek/internal/applications"
	"github.com/jimezsa/jobseek/internal/auth"
	"github.com/jimezsa/jobseek/internal/catalog"
	"github.com/jimezsa/jobseek/internal/network"
	"github.com/jimezsa/jobseek/internal/session"
)

// Initialize builds an App with every component wired up. The returned
// cleanup closes the session store.
func Initialize(opts Options) (*App, func(), error) {
	wire.Build(
		// Infrastructure
		provideLogger,
		provideClock,
		provideStore,

		// Session
		session.NewManager,
		wire.Bind(new(network.TokenSource), new(*session.Manager)),
		wire.Bind(new(auth.Session), new(*session.Manager)),

		// Transport
		provideClient,
		wire.Bind(new(auth.API), new(*network.Client)),
		wire.Bind(new(catalog.API), new(*network.Client)),
		wire.Bind(new(applications.API), new(*network.Client)),

		// Services
		provideGateway,
		provideCatalog,
		provideApplications,

		newApp,
	)
	return nil, nil, nil
}
