package pipeline

import (
	"strconv"

	"github.com/pkg/errors"
)

// LogRetentionPolicy bounds how many build logs of a job are kept.
type LogRetentionPolicy struct {
	Days                   int
	Builds                 int
	MinimumSucceededBuilds int
}

// Job is a named plan of steps with optional lifecycle hooks.
type Job struct {
	Name                 string
	OldName              string
	Plan                 []Step
	Serial               bool
	SerialGroups         []string
	MaxInFlight          *int
	BuildLogRetention    *LogRetentionPolicy
	Public               bool
	DisableManualTrigger bool
	Interruptible        bool

	OnSuccess Step
	OnFailure Step
	OnError   Step
	OnAbort   Step
	Ensure    Step
}

func (j Job) GetName() string {
	return j.Name
}

// Equal compares every field but Name. Plan steps are compared with their effective resource.
func (j Job) Equal(other Job) bool {
	return j.OldName == other.OldName &&
		equalSteps(j.Plan, other.Plan) &&
		j.Serial == other.Serial &&
		equalStringSlices(j.SerialGroups, other.SerialGroups) &&
		equalIntPtr(j.MaxInFlight, other.MaxInFlight) &&
		equalRetention(j.BuildLogRetention, other.BuildLogRetention) &&
		j.Public == other.Public &&
		j.DisableManualTrigger == other.DisableManualTrigger &&
		j.Interruptible == other.Interruptible &&
		j.differentHook(other) == ""
}

// differentHook returns the name of the first hook that differs, empty when all hooks match.
func (j Job) differentHook(other Job) string {
	mine, theirs := j.hooks(), other.hooks()
	for i := range mine {
		if !equalStep(mine[i].step, theirs[i].step) {
			return mine[i].name
		}
	}

	return ""
}

type namedHook struct {
	name string
	step Step
}

func (j Job) hooks() []namedHook {
	return []namedHook{
		{name: "on_success", step: j.OnSuccess},
		{name: "on_failure", step: j.OnFailure},
		{name: "on_error", step: j.OnError},
		{name: "on_abort", step: j.OnAbort},
		{name: "ensure", step: j.Ensure},
	}
}

func (j Job) Clone() Job {
	out := j
	out.Plan = cloneSteps(j.Plan)
	out.SerialGroups = cloneStrings(j.SerialGroups)
	out.MaxInFlight = cloneIntPtr(j.MaxInFlight)

	if j.BuildLogRetention != nil {
		retention := *j.BuildLogRetention
		out.BuildLogRetention = &retention
	}

	out.OnSuccess = cloneStep(j.OnSuccess)
	out.OnFailure = cloneStep(j.OnFailure)
	out.OnError = cloneStep(j.OnError)
	out.OnAbort = cloneStep(j.OnAbort)
	out.Ensure = cloneStep(j.Ensure)

	return out
}

func (j Job) Renamed(name string) Job {
	out := j.Clone()
	out.Name = name

	return out
}

// Handles returns the handles of the plan followed by the handles of the hooks.
func (j Job) Handles() []Handle {
	handles := stepsHandles(j.Plan)
	for _, h := range j.hooks() {
		if h.step != nil {
			handles = append(handles, h.step.Handles()...)
		}
	}

	return handles
}

// Steps returns the plan and hooks of the job, recursively, parents first.
func (j Job) Steps() []Step {
	var steps []Step

	collect := func(s Step) { steps = append(steps, s) }

	walkSteps(j.Plan, collect)

	for _, h := range j.hooks() {
		if h.step != nil {
			walkSteps([]Step{h.step}, collect)
		}
	}

	return steps
}

// hasNilStep reports whether the plan or a hook holds a nil step at any depth. Hooks left unset do not count.
func (j Job) hasNilStep() bool {
	var visit func(steps []Step) bool

	visit = func(steps []Step) bool {
		for _, s := range steps {
			switch node := s.(type) {
			case nil:
				return true
			case *Do:
				if visit(node.Steps) {
					return true
				}
			case *InParallel:
				if visit(node.Steps) {
					return true
				}
			}
		}

		return false
	}

	if visit(j.Plan) {
		return true
	}

	for _, h := range j.hooks() {
		if h.step != nil && visit([]Step{h.step}) {
			return true
		}
	}

	return false
}

// Upstream returns the jobs named in the passed constraints of the job's gets, without duplicates.
func (j Job) Upstream() []string {
	var upstream []string

	seen := make(map[string]struct{})

	for _, s := range j.Steps() {
		get, ok := s.(*Get)
		if !ok {
			continue
		}

		for _, name := range get.Passed {
			if _, dup := seen[name]; dup {
				continue
			}

			seen[name] = struct{}{}
			upstream = append(upstream, name)
		}
	}

	return upstream
}

// ResourceRewrite retargets the resource bindings of the plan and hooks.
func (j Job) ResourceRewrite(rewrites map[string]string) (Job, error) {
	out := j.Clone()

	plan, err := resourceRewriteSteps(j.Plan, rewrites)
	if err != nil {
		return Job{}, errors.Wrapf(err, "job %q", j.Name)
	}

	out.Plan = plan

	for _, hook := range []*Step{&out.OnSuccess, &out.OnFailure, &out.OnError, &out.OnAbort, &out.Ensure} {
		if *hook == nil {
			continue
		}

		rewritten, err := (*hook).ResourceRewrite(rewrites)
		if err != nil {
			return Job{}, errors.Wrapf(err, "job %q", j.Name)
		}

		*hook = rewritten
	}

	return out, nil
}

// HandleRewrite renames the handles of the plan and hooks.
func (j Job) HandleRewrite(rewrites map[string]string) Job {
	out := j.Clone()
	out.Plan = handleRewriteSteps(j.Plan, rewrites)

	for _, hook := range []*Step{&out.OnSuccess, &out.OnFailure, &out.OnError, &out.OnAbort, &out.Ensure} {
		if *hook != nil {
			*hook = (*hook).HandleRewrite(rewrites)
		}
	}

	return out
}

// DeepMerge combines two revisions of the same job. Hooks must match and plans are paired by position. Every scalar
// field comes from the receiver.
func (j Job) DeepMerge(other Job) (Job, error) {
	if hook := j.differentHook(other); hook != "" {
		return Job{}, &IncompatibleJobError{Job: j.Name, Reason: hook + " hooks differ"}
	}

	if len(j.Plan) != len(other.Plan) {
		return Job{}, &IncompatibleJobError{
			Job:    j.Name,
			Reason: "plan lengths differ: " + strconv.Itoa(len(j.Plan)) + " != " + strconv.Itoa(len(other.Plan)),
		}
	}

	plan, err := deepMergeSteps(j.Plan, other.Plan)
	if err != nil {
		return Job{}, &IncompatibleJobError{Job: j.Name, Reason: "plans differ", Err: err}
	}

	out := j.Clone()
	out.Plan = plan

	return out, nil
}

func equalRetention(a, b *LogRetentionPolicy) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
