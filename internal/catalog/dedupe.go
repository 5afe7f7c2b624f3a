package catalog

import (
	"strings"

	"github.com/jimezsa/jobseek/internal/models"
)

const keySeparator = "::"

// DedupeStats captures what SuppressDuplicates dropped.
type DedupeStats struct {
	TotalRecommended int
	TotalGeneral     int
	// Unkeyed counts general jobs without a title or company; they are
	// always kept.
	Unkeyed    int
	Suppressed int
	Kept       int
}

// Normalize lowercases value and collapses runs of whitespace.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the normalized title+company key for a job.
func Key(job models.Job) (string, bool) {
	title := Normalize(job.Title)
	company := Normalize(job.Company)
	if title == "" || company == "" {
		return "", false
	}
	return title + keySeparator + company, true
}

// SuppressDuplicates returns the general jobs that do not also appear among
// the recommended ones. It is a display helper; the catalog never applies
// it on its own.
func SuppressDuplicates(recommended, general []models.Job) ([]models.Job, DedupeStats) {
	stats := DedupeStats{
		TotalRecommended: len(recommended),
		TotalGeneral:     len(general),
	}

	ids := make(map[int64]struct{}, len(recommended))
	keys := make(map[string]struct{}, len(recommended))
	for _, job := range recommended {
		if job.ID != 0 {
			ids[job.ID] = struct{}{}
		}
		if key, ok := Key(job); ok {
			keys[key] = struct{}{}
		}
	}

	out := make([]models.Job, 0, len(general))
	for _, job := range general {
		if _, exists := ids[job.ID]; exists && job.ID != 0 {
			stats.Suppressed++
			continue
		}
		key, ok := Key(job)
		if !ok {
			stats.Unkeyed++
			out = append(out, job)
			continue
		}
		if _, exists := keys[key]; exists {
			stats.Suppressed++
			continue
		}
		out = append(out, job)
	}

	stats.Kept = len(out)
	return out, stats
}
