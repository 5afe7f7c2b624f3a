package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobseek/internal/network"
)

type ProxiesCmd struct {
	List  ProxyListCmd  `cmd:"" help:"Print configured proxies."`
	Check ProxyCheckCmd `cmd:"" help:"Check that the backend answers through each proxy."`
}

type ProxyListCmd struct{}

type ProxyCheckCmd struct {
	Timeout int `help:"Timeout in seconds." default:"5"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyListCmd) Run(ctx *Context) error {
	if len(ctx.Proxies) == 0 {
		ctx.UI.Infof("No proxies configured")
		return nil
	}
	if ctx.JSONOutput {
		return writeJSONValue(ctx, ctx.Proxies)
	}
	_, err := fmt.Fprintln(ctx.Out, strings.Join(ctx.Proxies, "\n"))
	return err
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	if len(ctx.Proxies) == 0 {
		return fmt.Errorf("no proxies configured")
	}
	timeout := time.Duration(p.Timeout) * time.Second

	results := make([]ProxyCheckResult, 0, len(ctx.Proxies))
	for _, proxy := range ctx.Proxies {
		results = append(results, checkProxy(ctx, proxy, timeout))
	}
	return writeProxyResults(ctx, results)
}

func checkProxy(ctx *Context, proxy string, timeout time.Duration) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy}
	client, err := network.NewClient(network.Options{
		BaseURL:        ctx.Config.BaseURL,
		Profile:        ctx.Config.ClientProfile,
		Proxies:        []string{proxy},
		DefaultTimeout: timeout,
		Logger:         ctx.Logger,
	}, nil)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	err = client.Do(context.Background(), network.Request{Method: fhttp.MethodGet, Path: "/", Timeout: timeout}, nil)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}
	result.Status = "ok"
	return result
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		return writeJSONValue(ctx, results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
