package cmd

import (
	"context"
	"fmt"

	"github.com/jimezsa/jobseek/internal/catalog"
	"github.com/jimezsa/jobseek/internal/export"
	"github.com/jimezsa/jobseek/internal/models"
)

type JobsCmd struct {
	Title          string `help:"Filter by title (server side)."`
	Location       string `help:"Filter by location (server side)."`
	Category       string `help:"Filter by category; Any means no filter." default:"Any"`
	Search         string `short:"s" help:"Client-side search over title, company and location."`
	Recommended    bool   `help:"Also fetch recommendations for you."`
	HideDuplicates bool   `name:"hide-duplicates" help:"Drop listed jobs that are already recommended (with --recommended)."`
	OutputOptions
}

type RecommendedCmd struct {
	Search string `short:"s" help:"Client-side search over title, company and location."`
	OutputOptions
}

type ApplyCmd struct {
	JobID int64 `arg:"" name:"job-id" help:"Job id from the listing."`
}

type ApplicationsCmd struct {
	OutputOptions
}

type jobsView struct {
	Recommended []models.Job `json:"recommended"`
	Jobs        []models.Job `json:"jobs"`
}

func (j *JobsCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	query := models.Query{Title: j.Title, Location: j.Location, Category: j.Category}

	stop := startIndicator(ctx, "Loading jobs")
	var view jobsView
	if j.Recommended {
		listing := a.Catalog.Load(context.Background(), query)
		stop()
		reportListingError(ctx, "jobs", listing.JobsErr)
		reportListingError(ctx, "recommended", listing.RecommendedErr)
		view.Jobs, view.Recommended = listing.Jobs, listing.Recommended
	} else {
		view.Jobs = a.Catalog.ListJobs(context.Background(), query)
		stop()
	}

	view.Jobs = catalog.Search(view.Jobs, j.Search)
	view.Recommended = catalog.Search(view.Recommended, j.Search)
	if j.HideDuplicates && len(view.Recommended) > 0 {
		var stats catalog.DedupeStats
		view.Jobs, stats = catalog.SuppressDuplicates(view.Recommended, view.Jobs)
		ctx.Logger.Debug().Int("suppressed", stats.Suppressed).Int("kept", stats.Kept).Msg("duplicates hidden")
	}

	return writeJobsView(ctx, j.OutputOptions, view, j.Recommended)
}

func (r *RecommendedCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	stop := startIndicator(ctx, "Loading recommendations")
	jobs, fetchErr := a.Catalog.FetchRecommended(context.Background())
	stop()
	reportListingError(ctx, "recommended", fetchErr)
	if jobs == nil {
		jobs = []models.Job{}
	}
	return writeJobList(ctx, r.OutputOptions, catalog.Search(jobs, r.Search))
}

func (a *ApplyCmd) Run(ctx *Context) error {
	application, err := ctx.App()
	if err != nil {
		return err
	}
	receipt, err := application.Applications.Submit(context.Background(), a.JobID)
	if err != nil {
		ctx.Logger.Debug().Err(err).Int64("job_id", a.JobID).Msg("apply")
		return fmt.Errorf("failed to apply to job %d; you may have already applied", a.JobID)
	}
	if ctx.JSONOutput {
		return writeJSONValue(ctx, receipt)
	}
	if receipt.ApplicationID == 0 {
		ctx.UI.Successf("Applied to job %d", a.JobID)
		return nil
	}
	ctx.UI.Successf("Applied to job %d (application #%d)", a.JobID, receipt.ApplicationID)
	return nil
}

func (c *ApplicationsCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	apps := a.Applications.ListApplications(context.Background())

	w, closeFn, err := openOutput(ctx, c.OutputOptions)
	if err != nil {
		return err
	}
	defer closeFn()

	format, err := resolveFormat(ctx, c.OutputOptions, w)
	if err != nil {
		return err
	}
	return export.WriteApplications(w, apps, format, writeOptions(ctx, c.OutputOptions))
}

func writeJobsView(ctx *Context, opts OutputOptions, view jobsView, withRecommended bool) error {
	if !withRecommended {
		return writeJobList(ctx, opts, view.Jobs)
	}

	w, closeFn, err := openOutput(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	format, err := resolveFormat(ctx, opts, w)
	if err != nil {
		return err
	}
	if format == export.FormatJSON {
		if view.Recommended == nil {
			view.Recommended = []models.Job{}
		}
		return writeJSONTo(w, view)
	}

	writeOpts := writeOptions(ctx, opts)
	if format == export.FormatTable || format == export.FormatMarkdown {
		fmt.Fprintln(w, "Recommended for you")
		if err := export.WriteJobs(w, view.Recommended, format, writeOpts); err != nil {
			return err
		}
		fmt.Fprintln(w, "\nAll jobs")
		return export.WriteJobs(w, view.Jobs, format, writeOpts)
	}
	all := append(append([]models.Job{}, view.Recommended...), view.Jobs...)
	return export.WriteJobs(w, all, format, writeOpts)
}

func writeJobList(ctx *Context, opts OutputOptions, jobs []models.Job) error {
	w, closeFn, err := openOutput(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	format, err := resolveFormat(ctx, opts, w)
	if err != nil {
		return err
	}
	return export.WriteJobs(w, jobs, format, writeOptions(ctx, opts))
}

// reportListingError keeps listing failures non-fatal: the user gets an
// empty list plus a one-line warning.
func reportListingError(ctx *Context, listing string, err error) {
	if err == nil || ctx.UI == nil {
		return
	}
	ctx.Logger.Debug().Err(err).Str("listing", listing).Msg("listing failed")
	ctx.UI.Warnf("Could not load %s; showing none.", listing)
}
