package pipeline

import (
	"sort"
	"strings"
)

// StepKind names a Step variant.
type StepKind string

const (
	GetStepKind        StepKind = "get"
	PutStepKind        StepKind = "put"
	TaskStepKind       StepKind = "task"
	DoStepKind         StepKind = "do"
	InParallelStepKind StepKind = "in_parallel"
)

// Handle is a local identifier under which a step exposes an artifact to the rest of the build. Resource is the
// pipeline resource bound to the handle, empty for task inputs and outputs.
type Handle struct {
	Name     string
	Resource string
}

// Step is one node of a job plan. The set of implementations is closed: *Get, *Put, *Task, *Do and *InParallel.
//
// No method modifies its receiver, every returned Step is a fresh deep copy.
type Step interface {
	// Kind returns the variant of the step.
	Kind() StepKind
	// SortKey returns a key used to order steps deterministically inside an InParallel block.
	SortKey() string
	// Equal reports whether both steps have the same configuration.
	Equal(other Step) bool
	// Clone returns a deep copy of the step.
	Clone() Step
	// Handles returns the handles declared or consumed by the step and its children.
	Handles() []Handle
	// ResourceRewrite retargets every resource binding using rewrites. It panics with *UnresolvedResourceError when
	// a bound resource is missing from rewrites.
	ResourceRewrite(rewrites map[string]string) (Step, error)
	// HandleRewrite renames handles using rewrites. Handles missing from rewrites are kept.
	HandleRewrite(rewrites map[string]string) Step
	// DeepMerge combines two revisions of the same step.
	DeepMerge(other Step) (Step, error)

	isStep()
}

func cloneStep(s Step) Step {
	if s == nil {
		return nil
	}

	return s.Clone()
}

func cloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = cloneStep(s)
	}

	return out
}

func equalStep(a, b Step) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equal(b)
}

func equalSteps(a, b []Step) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !equalStep(a[i], b[i]) {
			return false
		}
	}

	return true
}

func containsStep(steps []Step, s Step) bool {
	for _, candidate := range steps {
		if equalStep(candidate, s) {
			return true
		}
	}

	return false
}

// sortedSteps returns a stably sorted shallow copy of steps.
func sortedSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})

	return out
}

func joinSortKeys(steps []Step) string {
	keys := make([]string, len(steps))
	for i, s := range steps {
		keys[i] = s.SortKey()
	}

	return strings.Join(keys, ",")
}

func stepsHandles(steps []Step) []Handle {
	var handles []Handle
	for _, s := range steps {
		handles = append(handles, s.Handles()...)
	}

	return handles
}

func resourceRewriteSteps(steps []Step, rewrites map[string]string) ([]Step, error) {
	if steps == nil {
		return nil, nil
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		rewritten, err := s.ResourceRewrite(rewrites)
		if err != nil {
			return nil, err
		}

		out[i] = rewritten
	}

	return out, nil
}

func handleRewriteSteps(steps []Step, rewrites map[string]string) []Step {
	if steps == nil {
		return nil
	}

	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s.HandleRewrite(rewrites)
	}

	return out
}

// deepMergeSteps pairs both sequences positionally.
func deepMergeSteps(left, right []Step) ([]Step, error) {
	out := make([]Step, len(left))
	for i := range left {
		merged, err := left[i].DeepMerge(right[i])
		if err != nil {
			return nil, err
		}

		out[i] = merged
	}

	return out, nil
}

// walkSteps calls fn for every step of the tree, parents before children.
func walkSteps(steps []Step, fn func(Step)) {
	for _, s := range steps {
		if s == nil {
			continue
		}

		fn(s)

		switch node := s.(type) {
		case *Do:
			walkSteps(node.Steps, fn)
		case *InParallel:
			walkSteps(node.Steps, fn)
		}
	}
}

func resolveResource(rewrites map[string]string, resource, handle string) string {
	target, ok := rewrites[resource]
	if !ok {
		panic(&UnresolvedResourceError{Resource: resource, Handle: handle})
	}

	return target
}

func mismatch(s Step, other Step, key string) *IncompatibleStepError {
	return &IncompatibleStepError{Kind: s.Kind(), Other: other.Kind(), Key: key}
}
