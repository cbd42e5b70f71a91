package pipeline_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

var errObserver = errors.New("observer failed")

type recorder struct {
	stages   []string
	entities []model.EntityInfo
	jobs     []model.JobInfo
	started  bool
	finished bool

	failOn string
}

func (r *recorder) New() error {
	r.started = true
	if r.failOn == "new" {
		return errObserver
	}

	return nil
}

func (r *recorder) OnEntity(entity *model.EntityInfo) error {
	r.entities = append(r.entities, *entity)

	return nil
}

func (r *recorder) OnStage(stage *model.StageInfo) error {
	r.stages = append(r.stages, stage.Name)
	if r.failOn == stage.Name {
		return errObserver
	}

	return nil
}

func (r *recorder) OnJob(job *model.JobInfo) error {
	r.jobs = append(r.jobs, *job)

	return nil
}

func (r *recorder) Finish() error {
	r.finished = true

	return nil
}

func observedRight(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	sample := samplePipeline(t)

	return &pipeline.Pipeline{
		ResourceTypes: sample.ResourceTypes,
		Resources:     sample.Resources[:1],
		Jobs: []pipeline.Job{
			job("build", get("repo"), task("package")),
			sample.Jobs[1],
			job("deploy", &pipeline.Get{Get: "repo", Passed: []string{"test"}, Version: "latest"}),
		},
	}
}

func TestMergeObserver(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	got, err := pipeline.Merge(samplePipeline(t), observedRight(t), false, pipeline.WithObserver(rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "test", "build-000", "deploy"}, jobNames(got))

	assert.True(t, rec.started)
	assert.True(t, rec.finished)
	assert.Equal(t, []string{
		model.ValidateStage, model.ResourceTypesStage, model.ResourcesStage, model.JobsStage,
	}, rec.stages)

	assert.Equal(t, []model.EntityInfo{
		{Kind: model.ResourceTypeEntity, Name: "git", Target: "git", Action: model.Reused, Pair: 1},
		{Kind: model.ResourceEntity, Name: "repo", Target: "repo", Action: model.Reused, Pair: 1},
		{Kind: model.JobEntity, Name: "build", Target: "build-000", Action: model.Renamed, Pair: 1},
		{Kind: model.JobEntity, Name: "test", Target: "test", Action: model.Reused, Pair: 1},
		{Kind: model.JobEntity, Name: "deploy", Target: "deploy", Action: model.Added, Pair: 1},
	}, rec.entities)

	assert.Equal(t, []model.JobInfo{
		{Name: "build", Origin: model.LeftOrigin},
		{Name: "test", Origin: model.LeftOrigin, Upstream: []string{"build"}},
		{Name: "build-000", Origin: model.RightOrigin},
		{Name: "deploy", Origin: model.RightOrigin, Upstream: []string{"test"}},
	}, rec.jobs)
}

func TestMergeObserverDeepMergedOrigin(t *testing.T) {
	t.Parallel()

	left := &pipeline.Pipeline{Jobs: []pipeline.Job{
		job("test", &pipeline.InParallel{Steps: []pipeline.Step{task("unit")}}),
	}}
	right := &pipeline.Pipeline{Jobs: []pipeline.Job{
		job("test", &pipeline.InParallel{Steps: []pipeline.Step{task("lint")}}),
	}}

	rec := &recorder{}

	_, err := pipeline.Merge(left, right, true, pipeline.WithObserver(rec))
	require.NoError(t, err)
	require.Len(t, rec.jobs, 1)
	assert.Equal(t, model.MergedOrigin, rec.jobs[0].Origin)
	assert.Equal(t, model.DeepMerged, rec.entities[0].Action)
}

func TestMergeAllObserverSingle(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	_, err := pipeline.MergeAll([]*pipeline.Pipeline{samplePipeline(t)}, false, pipeline.WithObserver(rec))
	require.NoError(t, err)
	assert.Equal(t, []string{model.ValidateStage}, rec.stages)
	assert.Empty(t, rec.entities)
	assert.Len(t, rec.jobs, 2)
	assert.True(t, rec.finished)
}

func TestMergeObserverErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		failOn     string
		wantStages int
	}{
		"new":       {failOn: "new"},
		"validate":  {failOn: model.ValidateStage, wantStages: 1},
		"resources": {failOn: model.ResourcesStage, wantStages: 3},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{failOn: tc.failOn}

			_, err := pipeline.Merge(samplePipeline(t), observedRight(t), false, pipeline.WithObserver(rec))
			require.ErrorIs(t, err, errObserver)
			assert.Len(t, rec.stages, tc.wantStages)
			assert.Empty(t, rec.jobs)
			assert.False(t, rec.finished)
		})
	}
}

func TestMergeLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := pipeline.Merge(samplePipeline(t), observedRight(t), false, pipeline.WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="merge stage done" stage=resource-types pair=1`)
	assert.Contains(t, out, `msg="entity merged" kind=job name=build target=build-000 action=renamed`)
}
