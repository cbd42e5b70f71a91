package pipeline

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipemerge/pkg/pipeline/model"
)

// Pipeline is a whole pipeline definition.
type Pipeline struct {
	ResourceTypes []ResourceType
	Resources     []Resource
	Jobs          []Job
}

// Clone returns a deep copy of the pipeline.
func (p *Pipeline) Clone() *Pipeline {
	out := &Pipeline{
		ResourceTypes: make([]ResourceType, len(p.ResourceTypes)),
		Resources:     make([]Resource, len(p.Resources)),
		Jobs:          make([]Job, len(p.Jobs)),
	}

	for i, rt := range p.ResourceTypes {
		out.ResourceTypes[i] = rt.Clone()
	}

	for i, res := range p.Resources {
		out.Resources[i] = res.Clone()
	}

	for i, job := range p.Jobs {
		out.Jobs[i] = job.Clone()
	}

	return out
}

// Equal reports whether both pipelines hold the same entities, in any order and under any name.
func (p *Pipeline) Equal(other *Pipeline) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}

	return matchAll(p.ResourceTypes, other.ResourceTypes) &&
		matchAll(p.Resources, other.Resources) &&
		matchAll(p.Jobs, other.Jobs)
}

// ExactEqual reports whether both pipelines hold the same entities under the same names, in any order.
func (p *Pipeline) ExactEqual(other *Pipeline) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}

	return exactMatch(p.ResourceTypes, other.ResourceTypes) &&
		exactMatch(p.Resources, other.Resources) &&
		exactMatch(p.Jobs, other.Jobs)
}

// matchAll pairs every entity of a with a distinct equal entity of b.
func matchAll[T named[T]](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))

	for _, item := range a {
		found := false

		for i, candidate := range b {
			if !used[i] && item.Equal(candidate) {
				used[i], found = true, true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

func exactMatch[T named[T]](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}

	sa, sb := byName(a), byName(b)
	for i := range sa {
		if sa[i].GetName() != sb[i].GetName() || !sa[i].Equal(sb[i]) {
			return false
		}
	}

	return true
}

func byName[T named[T]](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })

	return out
}

// Validate reports whether every resource uses a declared or builtin resource type.
func Validate(p *Pipeline) bool {
	return ValidatePipeline(p) == nil
}

// ValidatePipeline is Validate returning an *InvalidPipelineError listing every offending resource.
func ValidatePipeline(p *Pipeline, opts ...MergeOption) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}

	return newMergeRun(opts).validate(p)
}

// Merge merges right into left. The identifiers of left are kept. Entities of right equal to one of left are
// reused, colliding names are renamed, or deep merged for jobs when deep is set. Neither input is modified and the
// result shares no node with them.
func Merge(left, right *Pipeline, deep bool, opts ...MergeOption) (*Pipeline, error) {
	return MergeAll([]*Pipeline{left, right}, deep, opts...)
}

// MergeAll folds pipelines from left to right with Merge. The first pipeline keeps its identifiers.
func MergeAll(pipelines []*Pipeline, deep bool, opts ...MergeOption) (*Pipeline, error) {
	if len(pipelines) == 0 {
		return nil, ErrPipelineMustBeSet
	}

	for i, p := range pipelines {
		if p == nil {
			return nil, errors.Wrapf(ErrPipelineMustBeSet, "pipeline %d", i)
		}
	}

	run := newMergeRun(opts)

	err := run.start()
	if err != nil {
		return nil, err
	}

	result := pipelines[0].Clone()
	for _, job := range result.Jobs {
		run.origins[job.Name] = model.LeftOrigin
	}

	if len(pipelines) == 1 {
		err = run.stage(model.ValidateStage, 0, func() error { return run.validate(result) })
		if err != nil {
			return nil, err
		}
	}

	for i, right := range pipelines[1:] {
		result, err = run.mergePair(result, right, deep, i+1)
		if err != nil {
			return nil, err
		}
	}

	err = run.finish(result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
