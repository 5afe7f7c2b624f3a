package catalog

import (
	"testing"

	"github.com/jimezsa/jobseek/internal/models"
	"github.com/stretchr/testify/assert"
)

var searchJobs = []models.Job{
	{ID: 1, Title: "Senior Software Engineer", Company: "Acme", Location: "Lisbon"},
	{ID: 2, Title: "Product Designer", Company: "Engine Works", Location: "Porto"},
	{ID: 3, Title: "Data Analyst", Company: "Beta", Location: "Remote"},
}

func TestSearchBlankIsIdentity(t *testing.T) {
	for _, text := range []string{"", "   ", "\t"} {
		got := Search(searchJobs, text)
		assert.Equal(t, searchJobs, got)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	upper := Search(searchJobs, "ENGINE")
	lower := Search(searchJobs, "engine")
	assert.Equal(t, lower, upper)
	assert.Len(t, lower, 2)
	assert.Equal(t, int64(1), lower[0].ID)
	assert.Equal(t, int64(2), lower[1].ID)
}

func TestSearchMatchesLocation(t *testing.T) {
	got := Search(searchJobs, "remote")
	if assert.Len(t, got, 1) {
		assert.Equal(t, int64(3), got[0].ID)
	}
}

func TestSearchIsStable(t *testing.T) {
	first := Search(searchJobs, "a")
	second := Search(searchJobs, "a")
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), searchJobs[0].ID)
}

func TestSearchNoMatch(t *testing.T) {
	got := Search(searchJobs, "astronaut")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
