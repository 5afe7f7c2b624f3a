package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/jobseek/internal/models"
)

func sampleJobs() []models.Job {
	lo, hi := 40000.0, 55000.5
	return []models.Job{
		{
			ID:          1,
			Title:       "Backend Engineer",
			Company:     "Acme",
			Location:    "Lisbon",
			SalaryMin:   &lo,
			SalaryMax:   &hi,
			Description: "<p>Build <b>APIs</b></p><ul><li>Go</li><li>SQL</li></ul>",
			JobType:     "Full-time",
			Category:    "Technology",
			IsRemote:    true,
			PostedDate:  time.Date(2026, 9, 30, 10, 0, 0, 0, time.UTC),
		},
		{ID: 2, Title: "Designer", Company: "Beta", JobType: "Part-time", Category: "General"},
	}
}

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"":                                 "",
		"  plain   text\nhere ":            "plain text here",
		"<p>Build <b>APIs</b></p><p>x</p>": "Build APIs x",
		"line<br>break":                    "line break",
		"Tom &amp; Jerry":                  "Tom & Jerry",
		"<style>p{}</style>visible":        "visible",
	}
	for input, want := range cases {
		if got := PlainText(input); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSalaryRange(t *testing.T) {
	lo, hi := 40000.0, 60000.0
	if got := SalaryRange(&lo, &hi); got != "40000-60000" {
		t.Fatalf("SalaryRange() = %q", got)
	}
	if got := SalaryRange(&lo, nil); got != "from 40000" {
		t.Fatalf("SalaryRange(min) = %q", got)
	}
	if got := SalaryRange(nil, &hi); got != "up to 60000" {
		t.Fatalf("SalaryRange(max) = %q", got)
	}
	if got := SalaryRange(nil, nil); got != "" {
		t.Fatalf("SalaryRange(nil) = %q", got)
	}
}

func TestWriteJobsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, sampleJobs(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	row := records[1]
	if row[0] != "1" || row[1] != "Backend Engineer" || row[6] != "true" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[7] != "40000" || row[8] != "55000.5" {
		t.Fatalf("unexpected salary columns: %v", row[7:9])
	}
	if row[10] != "Build APIs Go SQL" {
		t.Fatalf("description = %q", row[10])
	}
	if records[2][9] != "" {
		t.Fatalf("expected empty posted_date for zero time, got %q", records[2][9])
	}
}

func TestWriteJobsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, sampleJobs(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["is_remote"] != true {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestWriteJobsTableAndMarkdown(t *testing.T) {
	var table bytes.Buffer
	if err := WriteJobs(&table, sampleJobs(), FormatTable, WriteOptions{Details: true}); err != nil {
		t.Fatalf("table error = %v", err)
	}
	out := table.String()
	for _, want := range []string{"Backend Engineer", "40000-55000.5", "2026-09-30", "#1 Backend Engineer", "Build APIs Go SQL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	var md bytes.Buffer
	if err := WriteJobs(&md, nil, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("markdown error = %v", err)
	}
	if strings.TrimSpace(md.String()) != "No results." {
		t.Fatalf("unexpected markdown: %q", md.String())
	}
}

func TestWriteApplicationsTSV(t *testing.T) {
	apps := []models.Application{{
		ID:        7,
		JobID:     1,
		Status:    "pending",
		AppliedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		Job:       models.Job{ID: 1, Title: "Backend Engineer", Company: "Acme"},
	}}

	var buf bytes.Buffer
	if err := WriteApplications(&buf, apps, FormatTSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteApplications() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	want := "7\t1\tBackend Engineer\tAcme\tpending\t2026-10-01T09:00:00Z"
	if lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("Markdown"); err != nil || f != FormatMarkdown {
		t.Fatalf("ParseFormat(Markdown) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
