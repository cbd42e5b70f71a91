package drawer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
	"github.com/askiada/go-pipemerge/pkg/pipeline/drawer"
	"github.com/askiada/go-pipemerge/pkg/pipeline/measure"
	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

func TestDOTDrawer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	d := drawer.NewDOTWriterDrawer(&buf)
	require.NoError(t, d.AddJob("build", model.LeftOrigin))
	require.NoError(t, d.AddJob("test", model.RightOrigin))
	require.NoError(t, d.AddJob("deploy", model.MergedOrigin))
	require.NoError(t, d.AddLink("build", "test"))
	require.NoError(t, d.AddLink("build", "test"))
	require.NoError(t, d.AddLink("test", "deploy"))
	require.Error(t, d.AddJob("build", model.LeftOrigin))

	m := measure.NewDefaultMeasure()
	m.AddAction(model.JobEntity, model.Added)
	m.AddAction(model.ResourceEntity, model.Reused)
	require.NoError(t, d.AddMeasure(m))

	require.NoError(t, d.Draw())

	want := `strict digraph {
	label="job added: 1\nresource reused: 1";
	"build" [ fillcolor="#1f77b4", style="filled", xlabel="left", weight=0 ];
	"build" -> "test" [ weight=0 ];
	"test" [ fillcolor="#ff7f0e", style="filled", xlabel="right", weight=0 ];
	"test" -> "deploy" [ weight=0 ];
	"deploy" [ fillcolor="#2ca02c", style="filled", xlabel="merged", weight=0 ];
}
`
	assert.Equal(t, want, buf.String())
}

func TestDOTDrawerFile(t *testing.T) {
	t.Parallel()

	name := filepath.Join(t.TempDir(), "jobs.dot")

	d := drawer.NewDOTDrawer(name)
	require.NoError(t, d.AddJob("build", model.LeftOrigin))
	require.NoError(t, d.Draw())

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"build" [ fillcolor="#1f77b4"`)

	missing := drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "missing", "jobs.dot"))
	require.Error(t, missing.Draw())
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	left := &pipeline.Pipeline{
		Resources: []pipeline.Resource{{Name: "nightly", Type: "time"}},
		Jobs: []pipeline.Job{
			{Name: "build", Plan: []pipeline.Step{&pipeline.Get{Get: "nightly"}}},
		},
	}
	right := &pipeline.Pipeline{
		Resources: []pipeline.Resource{{Name: "nightly", Type: "time"}},
		Jobs: []pipeline.Job{
			{Name: "test", Plan: []pipeline.Step{&pipeline.Get{Get: "nightly", Passed: []string{"build", "ghost", "test"}}}},
		},
	}

	var buf bytes.Buffer

	m := measure.NewDefaultMeasure()

	_, err := pipeline.Merge(left, right, false,
		pipeline.WithObserver(measure.PipelineMeasure(m)),
		pipeline.WithObserver(drawer.PipelineDrawer(drawer.NewDOTWriterDrawer(&buf), m)),
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `label="job added: 1\nresource reused: 1";`)
	assert.Contains(t, out, `"build" -> "test" [ weight=0 ];`)
	assert.Contains(t, out, `xlabel="right"`)
	assert.NotContains(t, out, "ghost")
	assert.NotContains(t, out, `"test" -> "test"`)
}
