package pipeline_test

import (
	"testing"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

func resourceType(name, typ string) pipeline.ResourceType {
	return pipeline.ResourceType{Name: name, Type: typ, CheckEvery: "1m"}
}

func resource(name, typ, url string) pipeline.Resource {
	return pipeline.Resource{
		Name:         name,
		Type:         typ,
		Source:       map[string]any{"url": url},
		CheckEvery:   "1m",
		CheckTimeout: "1h",
	}
}

func get(name string) *pipeline.Get {
	return &pipeline.Get{Get: name, Version: "latest"}
}

func task(name string) *pipeline.Task {
	return &pipeline.Task{
		Task: name,
		Config: &pipeline.TaskConfig{
			Platform: "linux",
			Run:      pipeline.TaskCommand{Path: "make", Args: []string{name}},
		},
	}
}

func job(name string, plan ...pipeline.Step) pipeline.Job {
	return pipeline.Job{Name: name, Plan: plan}
}

// samplePipeline has a declared resource type, a builtin typed resource and two chained jobs.
func samplePipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	return &pipeline.Pipeline{
		ResourceTypes: []pipeline.ResourceType{resourceType("git", "registry-image")},
		Resources: []pipeline.Resource{
			resource("repo", "git", "https://example.com/repo.git"),
			resource("nightly", "time", ""),
		},
		Jobs: []pipeline.Job{
			job("build", get("repo"), get("nightly"), task("compile")),
			job("test",
				&pipeline.Get{Get: "repo", Passed: []string{"build"}, Trigger: true, Version: "latest"},
				&pipeline.InParallel{Steps: []pipeline.Step{task("unit"), task("lint")}},
			),
		},
	}
}

func jobNames(p *pipeline.Pipeline) []string {
	names := make([]string, len(p.Jobs))
	for i, j := range p.Jobs {
		names[i] = j.Name
	}

	return names
}

func resourceNames(p *pipeline.Pipeline) []string {
	names := make([]string, len(p.Resources))
	for i, r := range p.Resources {
		names[i] = r.Name
	}

	return names
}
