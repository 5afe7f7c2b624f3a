package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	// Details adds descriptions and requirements to table and markdown
	// output.
	Details bool
}

const titleColor = "#87CEEB"

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeRecords(w, jobHeader(), jobRows(jobs), ',')
	case FormatTSV:
		return writeRecords(w, jobHeader(), jobRows(jobs), '\t')
	case FormatMarkdown:
		return writeJobsMarkdown(w, jobs, opts)
	default:
		return writeJobsTable(w, jobs, opts)
	}
}

func WriteApplications(w io.Writer, apps []models.Application, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, apps)
	case FormatCSV:
		return writeRecords(w, applicationHeader(), applicationRows(apps), ',')
	case FormatTSV:
		return writeRecords(w, applicationHeader(), applicationRows(apps), '\t')
	case FormatMarkdown:
		return writeApplicationsMarkdown(w, apps)
	default:
		return writeApplicationsTable(w, apps, opts)
	}
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeRecords(w io.Writer, header []string, rows [][]string, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func jobHeader() []string {
	return []string{
		"id",
		"title",
		"company",
		"location",
		"job_type",
		"category",
		"remote",
		"salary_min",
		"salary_max",
		"posted_date",
		"description",
	}
}

func jobRows(jobs []models.Job) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			models.FormatID(job.ID),
			job.Title,
			job.Company,
			job.Location,
			job.JobType,
			job.Category,
			boolString(job.IsRemote),
			amount(job.SalaryMin),
			amount(job.SalaryMax),
			formatTime(job.PostedDate),
			PlainText(job.Description),
		})
	}
	return rows
}

func applicationHeader() []string {
	return []string{
		"id",
		"job_id",
		"job_title",
		"company",
		"status",
		"applied_at",
	}
}

func applicationRows(apps []models.Application) [][]string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			models.FormatID(app.ID),
			models.FormatID(app.JobID),
			app.Job.Title,
			app.Job.Company,
			app.Status,
			formatTime(app.AppliedAt),
		})
	}
	return rows
}

func writeJobsTable(w io.Writer, jobs []models.Job, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\ttitle\tcompany\tlocation\ttype\tremote\tsalary\tposted")
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		remote := "-"
		if job.IsRemote {
			remote = "yes"
		}
		fmt.Fprintln(tw, strings.Join([]string{
			models.FormatID(job.ID),
			colorize(output, opts.ColorEnabled, safe(job.Title)),
			safe(job.Company),
			safe(job.Location),
			safe(job.JobType),
			remote,
			dash(SalaryRange(job.SalaryMin, job.SalaryMax)),
			formatDate(job.PostedDate),
		}, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !opts.Details {
		return nil
	}
	for _, job := range jobs {
		if _, err := fmt.Fprintf(w, "\n#%d %s\n", job.ID, safe(job.Title)); err != nil {
			return err
		}
		if text := PlainText(job.Description); text != "" {
			fmt.Fprintf(w, "  %s\n", text)
		}
		if text := PlainText(job.Requirements); text != "" {
			fmt.Fprintf(w, "  Requirements: %s\n", text)
		}
	}
	return nil
}

func writeApplicationsTable(w io.Writer, apps []models.Application, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tjob\tcompany\tstatus\tapplied")
	output := termenv.NewOutput(w)
	for _, app := range apps {
		fmt.Fprintln(tw, strings.Join([]string{
			models.FormatID(app.ID),
			colorize(output, opts.ColorEnabled, dash(safe(app.Job.Title))),
			dash(safe(app.Job.Company)),
			safe(app.Status),
			formatDate(app.AppliedAt),
		}, "\t"))
	}
	return tw.Flush()
}

func writeJobsMarkdown(w io.Writer, jobs []models.Job, opts WriteOptions) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, job := range jobs {
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(job.Title), safe(job.Company)),
			fmt.Sprintf("  Location: %s", dash(safe(job.Location))),
			fmt.Sprintf("  Type: %s, %s", safe(job.JobType), safe(job.Category)),
		}
		if job.IsRemote {
			lines = append(lines, "  Remote: yes")
		}
		if salary := SalaryRange(job.SalaryMin, job.SalaryMax); salary != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", salary))
		}
		if !job.PostedDate.IsZero() {
			lines = append(lines, fmt.Sprintf("  Posted: %s", formatDate(job.PostedDate)))
		}
		if opts.Details {
			if text := PlainText(job.Description); text != "" {
				lines = append(lines, fmt.Sprintf("  Summary: %s", text))
			}
			if text := PlainText(job.Requirements); text != "" {
				lines = append(lines, fmt.Sprintf("  Requirements: %s", text))
			}
		}
		lines = append(lines, fmt.Sprintf("  Apply: `jobseek apply %d`", job.ID))
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeApplicationsMarkdown(w io.Writer, apps []models.Application) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "No applications.")
		return err
	}
	for _, app := range apps {
		line := fmt.Sprintf("- **%s** (%s): %s, applied %s",
			dash(safe(app.Job.Title)), dash(safe(app.Job.Company)), safe(app.Status), formatDate(app.AppliedAt))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlainText flattens an HTML fragment to a single line of text. Plain input
// passes through with its whitespace collapsed.
func PlainText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.ContainsAny(value, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(value)); err == nil {
			doc.Find("script, style").Remove()
			doc.Find("br, p, li, div").Each(func(_ int, s *goquery.Selection) {
				s.AfterHtml(" ")
			})
			value = doc.Text()
		}
	}
	return strings.Join(strings.Fields(value), " ")
}

// SalaryRange renders the optional bounds, e.g. "40000-60000" or "from 40000".
func SalaryRange(lo, hi *float64) string {
	switch {
	case lo != nil && hi != nil:
		return amount(lo) + "-" + amount(hi)
	case lo != nil:
		return "from " + amount(lo)
	case hi != nil:
		return "up to " + amount(hi)
	default:
		return ""
	}
}

func amount(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func colorize(output *termenv.Output, enabled bool, text string) string {
	if !enabled || output == nil {
		return text
	}
	return output.String(text).Foreground(output.Color(titleColor)).String()
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(models.DateLayout)
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func safe(value string) string {
	return strings.TrimSpace(value)
}
