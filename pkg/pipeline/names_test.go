package pipeline_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

func TestUniqueName(t *testing.T) {
	t.Parallel()

	thousand := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		thousand = append(thousand, fmt.Sprintf("job-%03d", i))
	}

	tcs := map[string]struct {
		base  string
		taken []string
		want  string
	}{
		"nothing taken":    {base: "job", want: "job-000"},
		"base taken":       {base: "job", taken: []string{"job"}, want: "job-000"},
		"first taken":      {base: "job", taken: []string{"job", "job-000"}, want: "job-001"},
		"gap is reused":    {base: "job", taken: []string{"job-000", "job-002"}, want: "job-001"},
		"other names":      {base: "job", taken: []string{"build-000"}, want: "job-000"},
		"grows past three": {base: "job", taken: thousand, want: "job-1000"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pipeline.UniqueName(tc.base, tc.taken))
		})
	}
}
