package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/jobseek/internal/export"
	"github.com/jimezsa/jobseek/internal/ui"
)

// OutputOptions are shared by the listing commands.
type OutputOptions struct {
	Format  string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Output  string `name:"output" short:"o" help:"Write output to a file."`
	Details bool   `help:"Include descriptions and requirements."`
}

func writeJSONValue(ctx *Context, value any) error {
	return writeJSONTo(ctx.Out, value)
}

func writeJSONTo(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeKeyValues(ctx *Context, rows [][2]string) error {
	if ctx.PlainText {
		for _, row := range rows {
			if _, err := fmt.Fprintf(ctx.Out, "%s\t%s\n", row[0], row[1]); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

// openOutput returns the writer for opts.Output, or ctx.Out.
func openOutput(ctx *Context, opts OutputOptions) (io.Writer, func() error, error) {
	if strings.TrimSpace(opts.Output) == "" {
		return ctx.Out, func() error { return nil }, nil
	}
	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}

func resolveFormat(ctx *Context, opts OutputOptions, w io.Writer) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if strings.TrimSpace(opts.Output) != "" {
		return export.FormatCSV, nil
	}
	if isTTY(w) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func writeOptions(ctx *Context, opts OutputOptions) export.WriteOptions {
	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && strings.TrimSpace(opts.Output) == ""
	return export.WriteOptions{ColorEnabled: colorEnabled, Details: opts.Details}
}

func isTTY(out io.Writer) bool {
	if out == nil {
		return false
	}
	return ui.IsTTY(out)
}

// startIndicator draws a spinner on stderr until the returned func is called.
func startIndicator(ctx *Context, label string) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return func() {}
	}
	if !isTTY(ctx.Err) {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2K%s... %ds %s", label, seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
