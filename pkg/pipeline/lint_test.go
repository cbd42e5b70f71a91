package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

func rules(issues []pipeline.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Rule
	}

	return out
}

func TestLint(t *testing.T) {
	t.Parallel()

	t.Run("nil pipeline", func(t *testing.T) {
		t.Parallel()

		_, err := pipeline.Lint(nil)
		require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
	})

	t.Run("clean pipeline", func(t *testing.T) {
		t.Parallel()

		issues, err := pipeline.Lint(samplePipeline(t))
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	tcs := map[string]struct {
		edit  func(p *pipeline.Pipeline)
		opts  []pipeline.MergeOption
		want  []string
		first string
	}{
		"undeclared resource type": {
			edit:  func(p *pipeline.Pipeline) { p.Resources[0].Type = "svn" },
			want:  []string{pipeline.RuleUndeclaredResourceType},
			first: `undeclared-resource-type: resource "repo" uses undeclared resource type "svn"`,
		},
		"extra builtin": {
			edit: func(p *pipeline.Pipeline) { p.Resources[0].Type = "registry-image" },
			opts: []pipeline.MergeOption{pipeline.WithBuiltinTypes("registry-image")},
		},
		"duplicate resource": {
			edit:  func(p *pipeline.Pipeline) { p.Resources = append(p.Resources, p.Resources[0]) },
			want:  []string{pipeline.RuleDuplicateName},
			first: `duplicate-name: resource "repo" is declared more than once`,
		},
		"undeclared step resource": {
			edit: func(p *pipeline.Pipeline) {
				p.Jobs[0].Plan = append(p.Jobs[0].Plan, &pipeline.Put{Put: "image"})
			},
			want:  []string{pipeline.RuleUndeclaredResource},
			first: `undeclared-resource: job "build" uses undeclared resource "image"`,
		},
		"unknown passed job": {
			edit:  func(p *pipeline.Pipeline) { p.Jobs[1].Plan[0].(*pipeline.Get).Passed = []string{"package"} },
			want:  []string{pipeline.RuleUnknownPassedJob},
			first: `unknown-passed-job: job "test" requires versions that passed unknown job "package"`,
		},
		"self passed job": {
			edit:  func(p *pipeline.Pipeline) { p.Jobs[1].Plan[0].(*pipeline.Get).Passed = []string{"test"} },
			want:  []string{pipeline.RuleSelfPassedJob},
			first: `self-passed-job: job "test" requires versions that passed itself`,
		},
		"job cycle": {
			edit: func(p *pipeline.Pipeline) {
				p.Jobs[0].Plan[0] = &pipeline.Get{Get: "repo", Passed: []string{"test"}, Version: "latest"}
			},
			want:  []string{pipeline.RuleJobCycle},
			first: "job-cycle: jobs build, test depend on each other",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := samplePipeline(t)
			tc.edit(p)

			issues, err := pipeline.Lint(p, tc.opts...)
			require.NoError(t, err)
			assert.Equal(t, len(tc.want), len(issues))

			if len(tc.want) == 0 {
				return
			}

			assert.Equal(t, tc.want, rules(issues))
			assert.Equal(t, tc.first, issues[0].String())
		})
	}
}

func TestJobGraph(t *testing.T) {
	t.Parallel()

	t.Run("nil pipeline", func(t *testing.T) {
		t.Parallel()

		_, err := pipeline.JobGraph(nil)
		require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
	})

	t.Run("edges follow passed constraints", func(t *testing.T) {
		t.Parallel()

		p := samplePipeline(t)
		p.Jobs = append(p.Jobs, job("deploy",
			&pipeline.Get{Get: "repo", Passed: []string{"build", "test", "deploy", "ghost"}, Version: "latest"},
		))

		g, err := pipeline.JobGraph(p)
		require.NoError(t, err)

		order, err := g.Order()
		require.NoError(t, err)
		assert.Equal(t, 3, order)

		size, err := g.Size()
		require.NoError(t, err)
		assert.Equal(t, 3, size)

		for _, edge := range [][2]string{{"build", "test"}, {"build", "deploy"}, {"test", "deploy"}} {
			_, err = g.Edge(edge[0], edge[1])
			require.NoError(t, err, "%s -> %s", edge[0], edge[1])
		}

		_, err = g.Edge("deploy", "deploy")
		require.Error(t, err)
	})
}
