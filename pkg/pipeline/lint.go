package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Lint rules.
const (
	RuleUndeclaredResourceType = "undeclared-resource-type"
	RuleDuplicateName          = "duplicate-name"
	RuleUndeclaredResource     = "undeclared-resource"
	RuleUnknownPassedJob       = "unknown-passed-job"
	RuleSelfPassedJob          = "self-passed-job"
	RuleJobCycle               = "job-cycle"
	RuleEmptyStep              = "empty-step"
)

// Issue is a problem found by Lint.
type Issue struct {
	Rule    string
	Subject string
	Message string
}

func (i Issue) String() string {
	return i.Rule + ": " + i.Message
}

// Lint checks the references Validate leaves to the caller: step resources, passed jobs and job cycles. Merge never
// runs it.
func Lint(p *Pipeline, opts ...MergeOption) ([]Issue, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	run := newMergeRun(opts)

	var issues []Issue

	add := func(rule, subject, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}

	types := make(map[string]struct{}, len(p.ResourceTypes))
	for _, rt := range p.ResourceTypes {
		types[rt.Name] = struct{}{}
	}

	for _, res := range p.Resources {
		if _, ok := types[res.Type]; !ok && !run.isBuiltin(res.Type) {
			add(RuleUndeclaredResourceType, res.Name, "resource %q uses undeclared resource type %q", res.Name, res.Type)
		}
	}

	for _, dup := range duplicates(names(p.ResourceTypes)) {
		add(RuleDuplicateName, dup, "resource type %q is declared more than once", dup)
	}

	for _, dup := range duplicates(names(p.Resources)) {
		add(RuleDuplicateName, dup, "resource %q is declared more than once", dup)
	}

	for _, dup := range duplicates(names(p.Jobs)) {
		add(RuleDuplicateName, dup, "job %q is declared more than once", dup)
	}

	resources := names(p.Resources)
	jobs := names(p.Jobs)

	for _, job := range p.Jobs {
		if job.hasNilStep() {
			add(RuleEmptyStep, job.Name, "job %q has an empty step", job.Name)
		}

		for _, s := range job.Steps() {
			var resource string

			switch step := s.(type) {
			case *Get:
				resource = step.EffectiveResource()
			case *Put:
				resource = step.EffectiveResource()
			default:
				continue
			}

			if !slices.Contains(resources, resource) {
				add(RuleUndeclaredResource, job.Name, "job %q uses undeclared resource %q", job.Name, resource)
			}
		}

		for _, upstream := range job.Upstream() {
			switch {
			case upstream == job.Name:
				add(RuleSelfPassedJob, job.Name, "job %q requires versions that passed itself", job.Name)
			case !slices.Contains(jobs, upstream):
				add(RuleUnknownPassedJob, job.Name, "job %q requires versions that passed unknown job %q", job.Name, upstream)
			}
		}
	}

	g, err := JobGraph(p)
	if err != nil {
		return nil, err
	}

	components, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compute job cycles")
	}

	var cycles [][]string

	for _, component := range components {
		if len(component) > 1 {
			slices.Sort(component)
			cycles = append(cycles, component)
		}
	}

	slices.SortFunc(cycles, func(a, b []string) int { return strings.Compare(a[0], b[0]) })

	for _, cycle := range cycles {
		add(RuleJobCycle, cycle[0], "jobs %s depend on each other", strings.Join(cycle, ", "))
	}

	return issues, nil
}

// duplicates returns the names present more than once, in order of first repetition.
func duplicates(list []string) []string {
	var dups []string

	seen := make(map[string]int, len(list))
	for _, name := range list {
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}

	return dups
}
