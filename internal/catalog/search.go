package catalog

import (
	"strings"

	"github.com/jimezsa/jobseek/internal/models"
)

// Search keeps the jobs whose title, company or location contains text,
// ignoring case. Blank text means no filtering and returns jobs as given.
func Search(jobs []models.Job, text string) []models.Job {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return jobs
	}

	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if matches(job, needle) {
			out = append(out, job)
		}
	}
	return out
}

func matches(job models.Job, needle string) bool {
	for _, field := range []string{job.Title, job.Company, job.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
