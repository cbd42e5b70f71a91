package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

func intPtr(i int) *int {
	return &i
}

func taskWithIO(name string, inputs, outputs []string) *pipeline.Task {
	t := task(name)
	for _, in := range inputs {
		t.Config.Inputs = append(t.Config.Inputs, pipeline.TaskInput{Name: in, Path: in})
	}

	for _, out := range outputs {
		t.Config.Outputs = append(t.Config.Outputs, pipeline.TaskOutput{Name: out, Path: out})
	}

	return t
}

func TestStepEqual(t *testing.T) {
	t.Parallel()

	mapped := taskWithIO("unit", []string{"src"}, []string{"report"})
	mapped.InputMapping = map[string]string{"src": "repo"}

	renamedInput := taskWithIO("unit", []string{"src"}, []string{"report"})
	renamedInput.InputMapping = map[string]string{"src": "fork"}

	foldedFirst := taskWithIO("unit", []string{"a", "b", "c"}, nil)
	foldedFirst.InputMapping = map[string]string{"a": "x", "b": "x", "c": "y"}

	foldedLast := taskWithIO("unit", []string{"a", "b", "c"}, nil)
	foldedLast.InputMapping = map[string]string{"a": "x", "b": "y", "c": "y"}

	tcs := map[string]struct {
		a, b pipeline.Step
		want bool
	}{
		"get implicit resource": {
			a: &pipeline.Get{Get: "repo"}, b: &pipeline.Get{Get: "repo", Resource: "repo"}, want: true,
		},
		"get other resource": {
			a: &pipeline.Get{Get: "repo"}, b: &pipeline.Get{Get: "repo", Resource: "fork"}, want: false,
		},
		"get nil and empty params": {
			a: &pipeline.Get{Get: "repo"}, b: &pipeline.Get{Get: "repo", Params: map[string]any{}}, want: true,
		},
		"get params": {
			a:    &pipeline.Get{Get: "repo", Params: map[string]any{"depth": 1}},
			b:    &pipeline.Get{Get: "repo", Params: map[string]any{"depth": 2}},
			want: false,
		},
		"get passed": {
			a: &pipeline.Get{Get: "repo", Passed: []string{"build"}}, b: &pipeline.Get{Get: "repo"}, want: false,
		},
		"put implicit resource": {
			a: &pipeline.Put{Put: "image"}, b: &pipeline.Put{Put: "image", Resource: "image"}, want: true,
		},
		"get and put": {
			a: &pipeline.Get{Get: "repo"}, b: &pipeline.Put{Put: "repo"}, want: false,
		},
		"task same": {
			a: task("unit"), b: task("unit"), want: true,
		},
		"task effective inputs": {
			a: mapped, b: taskWithIO("unit", []string{"src"}, []string{"report"}), want: false,
		},
		"task other mapping": {
			a: mapped, b: renamedInput, want: false,
		},
		"task effective inputs compared as sets": {
			a: foldedFirst, b: foldedLast, want: true,
		},
		"task without config": {
			a: &pipeline.Task{Task: "unit", Image: "golang"}, b: &pipeline.Task{Task: "unit", Image: "golang"}, want: true,
		},
		"do order matters": {
			a:    &pipeline.Do{Steps: []pipeline.Step{task("a"), task("b")}},
			b:    &pipeline.Do{Steps: []pipeline.Step{task("b"), task("a")}},
			want: false,
		},
		"in_parallel order does not matter": {
			a:    &pipeline.InParallel{Steps: []pipeline.Step{task("a"), get("b")}},
			b:    &pipeline.InParallel{Steps: []pipeline.Step{get("b"), task("a")}},
			want: true,
		},
		"in_parallel limit": {
			a:    &pipeline.InParallel{Steps: []pipeline.Step{task("a")}, Limit: intPtr(1)},
			b:    &pipeline.InParallel{Steps: []pipeline.Step{task("a")}},
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
			assert.Equal(t, tc.want, tc.b.Equal(tc.a))
		})
	}
}

func TestStepSortKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Get:repo", get("repo").SortKey())
	assert.Equal(t, "Put:image", (&pipeline.Put{Put: "image"}).SortKey())
	assert.Equal(t, "Task:unit", task("unit").SortKey())
	assert.Equal(t, "Do:[Task:b,Get:a]", (&pipeline.Do{Steps: []pipeline.Step{task("b"), get("a")}}).SortKey())
	assert.Equal(t, "InParallel:Get:a,Task:b", (&pipeline.InParallel{Steps: []pipeline.Step{task("b"), get("a")}}).SortKey())
}

func TestStepHandles(t *testing.T) {
	t.Parallel()

	mapped := taskWithIO("unit", []string{"src", "cache"}, []string{"report"})
	mapped.InputMapping = map[string]string{"src": "repo"}

	step := &pipeline.Do{Steps: []pipeline.Step{
		&pipeline.Get{Get: "repo", Resource: "git"},
		&pipeline.InParallel{Steps: []pipeline.Step{mapped, &pipeline.Put{Put: "image"}}},
	}}

	assert.Equal(t, []pipeline.Handle{
		{Name: "repo", Resource: "git"},
		{Name: "repo"},
		{Name: "cache"},
		{Name: "report"},
		{Name: "image", Resource: "image"},
	}, step.Handles())

	assert.Empty(t, (&pipeline.Task{Task: "external", File: "ci/task.yml"}).Handles())
}

func TestStepResourceRewrite(t *testing.T) {
	t.Parallel()

	original := &pipeline.Do{Steps: []pipeline.Step{
		get("repo"),
		&pipeline.InParallel{Steps: []pipeline.Step{&pipeline.Put{Put: "out", Resource: "image"}, task("unit")}},
	}}

	got, err := original.ResourceRewrite(map[string]string{"repo": "repo-000", "image": "image"})
	require.NoError(t, err)
	assert.Equal(t, &pipeline.Do{Steps: []pipeline.Step{
		&pipeline.Get{Get: "repo", Resource: "repo-000", Version: "latest"},
		&pipeline.InParallel{Steps: []pipeline.Step{&pipeline.Put{Put: "out", Resource: "image"}, task("unit")}},
	}}, got)
	assert.Equal(t, get("repo"), original.Steps[0], "receiver must not change")

	_, err = (&pipeline.Task{Task: "external", File: "ci/task.yml"}).ResourceRewrite(map[string]string{})
	require.ErrorIs(t, err, pipeline.ErrUnsupportedFeature)

	assert.Panics(t, func() { _, _ = get("missing").ResourceRewrite(map[string]string{"repo": "repo"}) })
}

func TestStepHandleRewrite(t *testing.T) {
	t.Parallel()

	t.Run("get keeps its binding", func(t *testing.T) {
		t.Parallel()

		got := get("repo").HandleRewrite(map[string]string{"repo": "repo-000"})
		assert.Equal(t, &pipeline.Get{Get: "repo-000", Resource: "repo", Version: "latest"}, got)

		untouched := get("other").HandleRewrite(map[string]string{"repo": "repo-000"})
		assert.Equal(t, get("other"), untouched)
	})

	t.Run("put keeps its binding", func(t *testing.T) {
		t.Parallel()

		got := (&pipeline.Put{Put: "image", Resource: "registry"}).HandleRewrite(map[string]string{"image": "image-000"})
		assert.Equal(t, &pipeline.Put{Put: "image-000", Resource: "registry"}, got)
	})

	t.Run("task mappings follow the handles", func(t *testing.T) {
		t.Parallel()

		original := taskWithIO("unit", []string{"src", "cache"}, []string{"report"})
		original.InputMapping = map[string]string{"cache": "shared"}

		got := original.HandleRewrite(map[string]string{"src": "src-000", "shared": "cache", "report": "report-001"})

		want := taskWithIO("unit", []string{"src", "cache"}, []string{"report"})
		want.InputMapping = map[string]string{"src": "src-000"}
		want.OutputMapping = map[string]string{"report": "report-001"}

		assert.Equal(t, want, got)
		assert.Equal(t, map[string]string{"cache": "shared"}, original.InputMapping, "receiver must not change")
		assert.Equal(t, []string{"src-000", "cache"}, got.(*pipeline.Task).EffectiveInputs())
	})

	t.Run("task without config", func(t *testing.T) {
		t.Parallel()

		original := &pipeline.Task{Task: "external", Image: "golang"}
		assert.Equal(t, original, original.HandleRewrite(map[string]string{"external": "other"}))
	})
}

func TestStepDeepMerge(t *testing.T) {
	t.Parallel()

	t.Run("leaf steps must be equal", func(t *testing.T) {
		t.Parallel()

		got, err := get("repo").DeepMerge(&pipeline.Get{Get: "repo", Resource: "repo", Version: "latest"})
		require.NoError(t, err)
		assert.Equal(t, get("repo"), got)

		_, err = get("repo").DeepMerge(get("fork"))
		require.ErrorIs(t, err, pipeline.ErrIncompatibleStep)

		_, err = get("repo").DeepMerge(&pipeline.Put{Put: "repo"})
		require.ErrorIs(t, err, pipeline.ErrIncompatibleStep)
		assert.Contains(t, err.Error(), "cannot merge put step into get step")
	})

	t.Run("do pairs by position", func(t *testing.T) {
		t.Parallel()

		left := &pipeline.Do{Steps: []pipeline.Step{
			task("compile"),
			&pipeline.InParallel{Steps: []pipeline.Step{task("unit")}},
		}}
		right := &pipeline.Do{Steps: []pipeline.Step{
			task("compile"),
			&pipeline.InParallel{Steps: []pipeline.Step{task("lint"), task("unit")}},
		}}

		got, err := left.DeepMerge(right)
		require.NoError(t, err)
		assert.Equal(t, &pipeline.Do{Steps: []pipeline.Step{
			task("compile"),
			&pipeline.InParallel{Steps: []pipeline.Step{task("unit"), task("lint")}},
		}}, got)

		_, err = left.DeepMerge(&pipeline.Do{Steps: []pipeline.Step{task("compile")}})
		require.ErrorIs(t, err, pipeline.ErrIncompatibleStep)
		assert.Contains(t, err.Error(), "sequence lengths differ: 2 != 1")
	})

	t.Run("in_parallel union keeps receiver settings", func(t *testing.T) {
		t.Parallel()

		left := &pipeline.InParallel{Steps: []pipeline.Step{task("a"), task("b")}, Limit: intPtr(2), FailFast: true}
		right := &pipeline.InParallel{Steps: []pipeline.Step{task("c"), task("a"), task("d"), task("c")}}

		got, err := left.DeepMerge(right)
		require.NoError(t, err)
		assert.Equal(t, &pipeline.InParallel{
			Steps:    []pipeline.Step{task("a"), task("b"), task("c"), task("d")},
			Limit:    intPtr(2),
			FailFast: true,
		}, got)
		assert.Len(t, left.Steps, 2)
	})
}

func TestStepClone(t *testing.T) {
	t.Parallel()

	original := &pipeline.Get{Get: "repo", Passed: []string{"build"}, Params: map[string]any{"depth": 1}}
	clone := original.Clone().(*pipeline.Get)
	clone.Passed[0] = "test"
	clone.Params.(map[string]any)["depth"] = 2

	assert.Equal(t, []string{"build"}, original.Passed)
	assert.Equal(t, map[string]any{"depth": 1}, original.Params)
}
