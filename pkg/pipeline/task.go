package pipeline

import "slices"

// TaskCommand is the executable run by a task.
type TaskCommand struct {
	Path string
	Args []string
	Dir  string
	User string
}

// TaskInput is an artifact a task expects in its working directory.
type TaskInput struct {
	Name     string
	Path     string
	Optional bool
}

// TaskOutput is an artifact a task produces.
type TaskOutput struct {
	Name string
	Path string
}

// TaskCache is a directory kept between runs of a task.
type TaskCache struct {
	Path string
}

// ContainerLimits bounds the container running a task.
type ContainerLimits struct {
	CPU    int
	Memory int
}

// ImageResource is an anonymous resource providing the image a task runs in.
type ImageResource struct {
	Type    string
	Source  map[string]any
	Params  map[string]any
	Version map[string]string
}

// TaskConfig is the inline definition of a task.
type TaskConfig struct {
	Platform        string
	Run             TaskCommand
	ImageResource   *ImageResource
	Inputs          []TaskInput
	Outputs         []TaskOutput
	Caches          []TaskCache
	Params          map[string]string
	RootfsURI       string
	ContainerLimits *ContainerLimits
}

// Task runs a command. Its inputs and outputs are exposed as handles through InputMapping and OutputMapping.
type Task struct {
	Task            string
	Config          *TaskConfig
	File            string
	Image           string
	Privileged      bool
	Vars            map[string]string
	ContainerLimits *ContainerLimits
	Params          map[string]string
	InputMapping    map[string]string
	OutputMapping   map[string]string
}

func (t *Task) effectiveInput(name string) string {
	if mapped, ok := t.InputMapping[name]; ok {
		return mapped
	}

	return name
}

func (t *Task) effectiveOutput(name string) string {
	if mapped, ok := t.OutputMapping[name]; ok {
		return mapped
	}

	return name
}

// EffectiveInputs returns the handle names the declared inputs are read from.
func (t *Task) EffectiveInputs() []string {
	if t.Config == nil {
		return nil
	}

	out := make([]string, 0, len(t.Config.Inputs))
	for _, in := range t.Config.Inputs {
		out = append(out, t.effectiveInput(in.Name))
	}

	return out
}

// EffectiveOutputs returns the handle names the declared outputs are published under.
func (t *Task) EffectiveOutputs() []string {
	if t.Config == nil {
		return nil
	}

	out := make([]string, 0, len(t.Config.Outputs))
	for _, o := range t.Config.Outputs {
		out = append(out, t.effectiveOutput(o.Name))
	}

	return out
}

func (t *Task) Kind() StepKind {
	return TaskStepKind
}

func (t *Task) SortKey() string {
	return "Task:" + t.Task
}

func (t *Task) Equal(other Step) bool {
	o, ok := other.(*Task)
	if !ok {
		return false
	}

	if t.Task != o.Task ||
		t.File != o.File ||
		t.Image != o.Image ||
		t.Privileged != o.Privileged ||
		!equalStringMap(t.Vars, o.Vars) ||
		!equalContainerLimits(t.ContainerLimits, o.ContainerLimits) ||
		!equalStringMap(t.Params, o.Params) ||
		!equalTaskConfig(t.Config, o.Config) {
		return false
	}

	return equalStringSets(t.EffectiveInputs(), o.EffectiveInputs()) &&
		equalStringSets(t.EffectiveOutputs(), o.EffectiveOutputs())
}

func (t *Task) Clone() Step {
	return t.clone()
}

func (t *Task) clone() *Task {
	var limits *ContainerLimits
	if t.ContainerLimits != nil {
		l := *t.ContainerLimits
		limits = &l
	}

	return &Task{
		Task:            t.Task,
		Config:          t.Config.clone(),
		File:            t.File,
		Image:           t.Image,
		Privileged:      t.Privileged,
		Vars:            cloneStringMap(t.Vars),
		ContainerLimits: limits,
		Params:          cloneStringMap(t.Params),
		InputMapping:    cloneStringMap(t.InputMapping),
		OutputMapping:   cloneStringMap(t.OutputMapping),
	}
}

// Handles returns the effective inputs then outputs. Task handles are never bound to a resource.
func (t *Task) Handles() []Handle {
	var handles []Handle
	for _, name := range t.EffectiveInputs() {
		handles = append(handles, Handle{Name: name})
	}

	for _, name := range t.EffectiveOutputs() {
		handles = append(handles, Handle{Name: name})
	}

	return handles
}

// ResourceRewrite copies the task. A task loaded from a file may reference pipeline resources the rewrite cannot
// see, so it is rejected.
func (t *Task) ResourceRewrite(map[string]string) (Step, error) {
	if t.File != "" {
		return nil, &UnsupportedFeatureError{Feature: "task file " + t.File, Step: t.Task}
	}

	return t.clone(), nil
}

// HandleRewrite points the mappings of renamed inputs and outputs to their new handle. A mapping back to the declared
// name is dropped.
func (t *Task) HandleRewrite(rewrites map[string]string) Step {
	out := t.clone()
	if t.Config == nil {
		return out
	}

	for _, in := range t.Config.Inputs {
		if name, ok := rewrites[t.effectiveInput(in.Name)]; ok {
			out.InputMapping = setMapping(out.InputMapping, in.Name, name)
		}
	}

	for _, o := range t.Config.Outputs {
		if name, ok := rewrites[t.effectiveOutput(o.Name)]; ok {
			out.OutputMapping = setMapping(out.OutputMapping, o.Name, name)
		}
	}

	return out
}

func (t *Task) DeepMerge(other Step) (Step, error) {
	if other.Kind() != TaskStepKind {
		return nil, mismatch(t, other, t.Task)
	}

	if !t.Equal(other) {
		return nil, &IncompatibleStepError{Kind: TaskStepKind, Other: TaskStepKind, Key: t.Task, Reason: "steps differ"}
	}

	return t.clone(), nil
}

func (t *Task) isStep() {}

var _ Step = (*Task)(nil)

func setMapping(m map[string]string, declared, handle string) map[string]string {
	if declared == handle {
		delete(m, declared)

		return m
	}

	if m == nil {
		m = make(map[string]string)
	}

	m[declared] = handle

	return m
}

func (c *TaskConfig) clone() *TaskConfig {
	if c == nil {
		return nil
	}

	out := &TaskConfig{
		Platform: c.Platform,
		Run: TaskCommand{
			Path: c.Run.Path,
			Args: cloneStrings(c.Run.Args),
			Dir:  c.Run.Dir,
			User: c.Run.User,
		},
		Inputs:    cloneSlice(c.Inputs),
		Outputs:   cloneSlice(c.Outputs),
		Caches:    cloneSlice(c.Caches),
		Params:    cloneStringMap(c.Params),
		RootfsURI: c.RootfsURI,
	}

	if c.ImageResource != nil {
		out.ImageResource = &ImageResource{
			Type:    c.ImageResource.Type,
			Source:  cloneMap(c.ImageResource.Source),
			Params:  cloneMap(c.ImageResource.Params),
			Version: cloneStringMap(c.ImageResource.Version),
		}
	}

	if c.ContainerLimits != nil {
		limits := *c.ContainerLimits
		out.ContainerLimits = &limits
	}

	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}

	out := make([]T, len(s))
	copy(out, s)

	return out
}

func equalContainerLimits(a, b *ContainerLimits) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func equalTaskConfig(a, b *TaskConfig) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Platform == b.Platform &&
		a.Run.Path == b.Run.Path &&
		equalStringSlices(a.Run.Args, b.Run.Args) &&
		a.Run.Dir == b.Run.Dir &&
		a.Run.User == b.Run.User &&
		equalImageResource(a.ImageResource, b.ImageResource) &&
		slices.Equal(a.Inputs, b.Inputs) &&
		slices.Equal(a.Outputs, b.Outputs) &&
		slices.Equal(a.Caches, b.Caches) &&
		equalStringMap(a.Params, b.Params) &&
		a.RootfsURI == b.RootfsURI &&
		equalContainerLimits(a.ContainerLimits, b.ContainerLimits)
}

func equalImageResource(a, b *ImageResource) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Type == b.Type &&
		equalMap(a.Source, b.Source) &&
		equalMap(a.Params, b.Params) &&
		equalStringMap(a.Version, b.Version)
}
