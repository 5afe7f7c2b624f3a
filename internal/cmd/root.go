package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`
	BaseURL string `name:"base-url" help:"Backend origin (overrides config)." env:"JOBSEEK_BASE_URL"`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version      VersionCmd      `cmd:"" help:"Print version."`
	Config       ConfigCmd       `cmd:"" help:"Manage configuration."`
	Ping         PingCmd         `cmd:"" help:"Check that the backend is reachable."`
	Login        LoginCmd        `cmd:"" help:"Sign in and store the session token."`
	Signup       SignupCmd       `cmd:"" help:"Create an account and sign in."`
	Logout       LogoutCmd       `cmd:"" help:"Forget the session token and stored profile."`
	Status       StatusCmd       `cmd:"" help:"Show whether the stored session is still accepted."`
	Profile      ProfileCmd      `cmd:"" help:"Show the stored profile."`
	Jobs         JobsCmd         `cmd:"" help:"List jobs, optionally with recommendations."`
	Recommended  RecommendedCmd  `cmd:"" help:"List jobs recommended for you."`
	Apply        ApplyCmd        `cmd:"" help:"Apply to a job."`
	Applications ApplicationsCmd `cmd:"" help:"List your applications."`
	Proxies      ProxiesCmd      `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
