package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jimezsa/jobseek/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default config and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	if ctx.JSONOutput {
		return writeJSONValue(ctx, ctx.Config)
	}
	storePath, err := ctx.Config.ResolvedStorePath()
	if err != nil {
		return err
	}
	cfg := ctx.Config
	return writeKeyValues(ctx, [][2]string{
		{"base_url", cfg.BaseURL},
		{"store", cfg.Store},
		{"store_path", storePath},
		{"client_profile", cfg.ClientProfile},
		{"request_timeout", cfg.RequestTimeout().String()},
		{"login_timeout", cfg.LoginTimeout().String()},
		{"signup_timeout", cfg.SignupTimeout().String()},
		{"probe_timeout", cfg.ProbeTimeout().String()},
		{"reachability_timeout", cfg.ReachabilityTimeout().String()},
		{"proxies", strconv.Itoa(len(ctx.Proxies))},
	})
}
