package cmd

import (
	"io"

	"github.com/jimezsa/jobseek/internal/app"
	"github.com/jimezsa/jobseek/internal/config"
	"github.com/jimezsa/jobseek/internal/store"
	"github.com/jimezsa/jobseek/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
	Proxies    []string
	// Store replaces the configured session store when set.
	Store store.Store

	app     *app.App
	cleanup func()
}

// App builds the client on first use so commands like version and config
// never touch the session store.
func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, cleanup, err := app.Initialize(app.Options{
		Config:  c.Config,
		Proxies: c.Proxies,
		Version: c.Version,
		Logger:  c.Logger,
		Store:   c.Store,
	})
	if err != nil {
		return nil, err
	}
	c.app, c.cleanup = a, cleanup
	return a, nil
}

// Close releases the session store if it was opened.
func (c *Context) Close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
	c.app = nil
}
