package codec

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

var (
	ErrUnknownStep   = errors.New("unknown step")
	ErrAmbiguousStep = errors.New("ambiguous step")
)

var stepKeys = []pipeline.StepKind{
	pipeline.GetStepKind,
	pipeline.PutStepKind,
	pipeline.TaskStepKind,
	pipeline.DoStepKind,
	pipeline.InParallelStepKind,
}

// stepNode carries a pipeline.Step through yaml. The variant is selected by the key naming it.
type stepNode struct {
	step pipeline.Step
}

func (s *stepNode) UnmarshalYAML(node *yaml.Node) error {
	kind, err := stepKind(node)
	if err != nil {
		return err
	}

	switch kind {
	case pipeline.GetStepKind:
		var p getPayload
		if err := node.Decode(&p); err != nil {
			return errors.Wrapf(err, "line %d: get step", node.Line)
		}

		s.step = p.toStep()
	case pipeline.PutStepKind:
		var p putPayload
		if err := node.Decode(&p); err != nil {
			return errors.Wrapf(err, "line %d: put step", node.Line)
		}

		s.step = p.toStep()
	case pipeline.TaskStepKind:
		var p taskPayload
		if err := node.Decode(&p); err != nil {
			return errors.Wrapf(err, "line %d: task step", node.Line)
		}

		s.step = p.toStep()
	case pipeline.DoStepKind:
		var p doPayload
		if err := node.Decode(&p); err != nil {
			return errors.Wrapf(err, "line %d: do step", node.Line)
		}

		s.step = &pipeline.Do{Steps: toSteps(p.Do)}
	case pipeline.InParallelStepKind:
		var p inParallelPayload
		if err := node.Decode(&p); err != nil {
			return errors.Wrapf(err, "line %d: in_parallel step", node.Line)
		}

		s.step = &pipeline.InParallel{
			Steps:    toSteps(p.InParallel.Steps),
			Limit:    p.InParallel.Limit,
			FailFast: p.InParallel.FailFast,
		}
	}

	return nil
}

func (s stepNode) MarshalYAML() (any, error) {
	switch step := s.step.(type) {
	case *pipeline.Get:
		return fromGet(step), nil
	case *pipeline.Put:
		return fromPut(step), nil
	case *pipeline.Task:
		return fromTask(step), nil
	case *pipeline.Do:
		return doPayload{Do: fromSteps(step.Steps)}, nil
	case *pipeline.InParallel:
		return inParallelPayload{InParallel: parallelBody{
			Steps:    fromSteps(step.Steps),
			Limit:    step.Limit,
			FailFast: step.FailFast,
		}}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownStep, "%T", s.step)
	}
}

// stepList decodes every element itself so that null entries reach stepNode instead of being zeroed by yaml.
type stepList []stepNode

func (l *stepList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return errors.Errorf("line %d: steps must be a list", node.Line)
	}

	steps := make(stepList, len(node.Content))
	for i, item := range node.Content {
		if err := steps[i].UnmarshalYAML(item); err != nil {
			return err
		}
	}

	*l = steps

	return nil
}

// stepKind returns the single step key present in node.
func stepKind(node *yaml.Node) (pipeline.StepKind, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return "", errors.Wrapf(ErrUnknownStep, "line %d: empty step", node.Line)
	}

	if node.Kind != yaml.MappingNode {
		return "", errors.Errorf("line %d: step must be a mapping", node.Line)
	}

	var found []pipeline.StepKind

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		for _, kind := range stepKeys {
			if key == string(kind) {
				found = append(found, kind)
			}
		}
	}

	switch len(found) {
	case 0:
		keys := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keys = append(keys, node.Content[i].Value)
		}

		return "", errors.Wrapf(ErrUnknownStep, "line %d: keys %s", node.Line, strings.Join(keys, ", "))
	case 1:
		return found[0], nil
	default:
		return "", errors.Wrapf(ErrAmbiguousStep, "line %d: %v", node.Line, found)
	}
}

func (p *parallelBody) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return errors.Wrapf(node.Decode(&p.Steps), "line %d: in_parallel steps", node.Line)
	}

	type fields parallelBody

	var body fields
	if err := node.Decode(&body); err != nil {
		return errors.Wrapf(err, "line %d: in_parallel", node.Line)
	}

	*p = parallelBody(body)

	return nil
}

// MarshalYAML writes the list form unless limit or fail_fast is set.
func (p parallelBody) MarshalYAML() (any, error) {
	if p.Limit == nil && !p.FailFast {
		return p.Steps, nil
	}

	type fields parallelBody

	return fields(p), nil
}

func toSteps(nodes []stepNode) []pipeline.Step {
	if nodes == nil {
		return nil
	}

	steps := make([]pipeline.Step, len(nodes))
	for i, node := range nodes {
		steps[i] = node.step
	}

	return steps
}

func fromSteps(steps []pipeline.Step) []stepNode {
	nodes := make([]stepNode, len(steps))
	for i, step := range steps {
		nodes[i] = stepNode{step: step}
	}

	return nodes
}

func toHook(node *stepNode) pipeline.Step {
	if node == nil {
		return nil
	}

	return node.step
}

func fromHook(step pipeline.Step) *stepNode {
	if step == nil {
		return nil
	}

	return &stepNode{step: step}
}

func (p getPayload) toStep() *pipeline.Get {
	get := &pipeline.Get{
		Get:      p.Get,
		Resource: p.Resource,
		Passed:   p.Passed,
		Params:   p.Params,
		Trigger:  p.Trigger,
		Version:  p.Version,
	}

	if get.Resource == "" {
		get.Resource = get.Get
	}

	if get.Version == "" {
		get.Version = defaultGetVersion
	}

	return get
}

func fromGet(get *pipeline.Get) getPayload {
	p := getPayload{
		Get:     get.Get,
		Passed:  get.Passed,
		Params:  get.Params,
		Trigger: get.Trigger,
	}

	if get.Resource != get.Get {
		p.Resource = get.Resource
	}

	if get.Version != defaultGetVersion {
		p.Version = get.Version
	}

	return p
}

func (p putPayload) toStep() *pipeline.Put {
	put := &pipeline.Put{
		Put:       p.Put,
		Resource:  p.Resource,
		Inputs:    p.Inputs,
		Params:    p.Params,
		GetParams: p.GetParams,
	}

	if put.Resource == "" {
		put.Resource = put.Put
	}

	if put.Inputs == "" {
		put.Inputs = defaultPutInputs
	}

	return put
}

func fromPut(put *pipeline.Put) putPayload {
	p := putPayload{
		Put:       put.Put,
		Params:    put.Params,
		GetParams: put.GetParams,
	}

	if put.Resource != put.Put {
		p.Resource = put.Resource
	}

	if put.Inputs != defaultPutInputs {
		p.Inputs = put.Inputs
	}

	return p
}

func (p taskPayload) toStep() *pipeline.Task {
	return &pipeline.Task{
		Task:            p.Task,
		Config:          p.Config.toConfig(),
		File:            p.File,
		Image:           p.Image,
		Privileged:      p.Privileged,
		Vars:            p.Vars,
		ContainerLimits: p.ContainerLimits.toLimits(),
		Params:          p.Params,
		InputMapping:    p.InputMapping,
		OutputMapping:   p.OutputMapping,
	}
}

func fromTask(task *pipeline.Task) taskPayload {
	return taskPayload{
		Task:            task.Task,
		Config:          fromConfig(task.Config),
		File:            task.File,
		Image:           task.Image,
		Privileged:      task.Privileged,
		Vars:            task.Vars,
		ContainerLimits: fromLimits(task.ContainerLimits),
		Params:          task.Params,
		InputMapping:    task.InputMapping,
		OutputMapping:   task.OutputMapping,
	}
}

func (p *containerLimitsPayload) toLimits() *pipeline.ContainerLimits {
	if p == nil {
		return nil
	}

	return &pipeline.ContainerLimits{CPU: p.CPU, Memory: p.Memory}
}

func fromLimits(limits *pipeline.ContainerLimits) *containerLimitsPayload {
	if limits == nil {
		return nil
	}

	return &containerLimitsPayload{CPU: limits.CPU, Memory: limits.Memory}
}

// toConfig fills the input and output paths with their name when unset.
func (p *taskConfigPayload) toConfig() *pipeline.TaskConfig {
	if p == nil {
		return nil
	}

	cfg := &pipeline.TaskConfig{
		Platform: p.Platform,
		Run: pipeline.TaskCommand{
			Path: p.Run.Path,
			Args: p.Run.Args,
			Dir:  p.Run.Dir,
			User: p.Run.User,
		},
		Params:          p.Params,
		RootfsURI:       p.RootfsURI,
		ContainerLimits: p.ContainerLimits.toLimits(),
	}

	if p.ImageResource != nil {
		cfg.ImageResource = &pipeline.ImageResource{
			Type:    p.ImageResource.Type,
			Source:  p.ImageResource.Source,
			Params:  p.ImageResource.Params,
			Version: p.ImageResource.Version,
		}
	}

	for _, in := range p.Inputs {
		if in.Path == "" {
			in.Path = in.Name
		}

		cfg.Inputs = append(cfg.Inputs, pipeline.TaskInput{Name: in.Name, Path: in.Path, Optional: in.Optional})
	}

	for _, out := range p.Outputs {
		if out.Path == "" {
			out.Path = out.Name
		}

		cfg.Outputs = append(cfg.Outputs, pipeline.TaskOutput{Name: out.Name, Path: out.Path})
	}

	for _, cache := range p.Caches {
		cfg.Caches = append(cfg.Caches, pipeline.TaskCache{Path: cache.Path})
	}

	return cfg
}

func fromConfig(cfg *pipeline.TaskConfig) *taskConfigPayload {
	if cfg == nil {
		return nil
	}

	p := &taskConfigPayload{
		Platform: cfg.Platform,
		Run: commandPayload{
			Path: cfg.Run.Path,
			Args: cfg.Run.Args,
			Dir:  cfg.Run.Dir,
			User: cfg.Run.User,
		},
		Params:          cfg.Params,
		RootfsURI:       cfg.RootfsURI,
		ContainerLimits: fromLimits(cfg.ContainerLimits),
	}

	if cfg.ImageResource != nil {
		p.ImageResource = &imageResourcePayload{
			Type:    cfg.ImageResource.Type,
			Source:  cfg.ImageResource.Source,
			Params:  cfg.ImageResource.Params,
			Version: cfg.ImageResource.Version,
		}
	}

	for _, in := range cfg.Inputs {
		path := in.Path
		if path == in.Name {
			path = ""
		}

		p.Inputs = append(p.Inputs, taskInputPayload{Name: in.Name, Path: path, Optional: in.Optional})
	}

	for _, out := range cfg.Outputs {
		path := out.Path
		if path == out.Name {
			path = ""
		}

		p.Outputs = append(p.Outputs, taskOutputPayload{Name: out.Name, Path: path})
	}

	for _, cache := range cfg.Caches {
		p.Caches = append(p.Caches, taskCachePayload{Path: cache.Path})
	}

	return p
}
