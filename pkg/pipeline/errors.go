package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet  = errors.New("pipeline must be set")
	ErrInvalidPipeline    = errors.New("invalid pipeline")
	ErrIncompatibleStep   = errors.New("incompatible step")
	ErrIncompatibleJob    = errors.New("incompatible job")
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrUnresolvedResource = errors.New("unresolved resource")
)

// InvalidPipelineError lists every referential integrity issue found in a pipeline.
type InvalidPipelineError struct {
	Issues []string
}

func (e *InvalidPipelineError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalidPipeline.Error()
	}

	return ErrInvalidPipeline.Error() + ": " + strings.Join(e.Issues, "; ")
}

func (e *InvalidPipelineError) Is(target error) bool {
	return target == ErrInvalidPipeline
}

func (e *InvalidPipelineError) add(issue string) {
	if strings.TrimSpace(issue) == "" {
		return
	}

	e.Issues = append(e.Issues, issue)
}

func (e *InvalidPipelineError) orNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}

	return e
}

// IncompatibleStepError is returned when two steps cannot be deep merged.
type IncompatibleStepError struct {
	Kind   StepKind
	Other  StepKind
	Key    string
	Reason string
}

func (e *IncompatibleStepError) Error() string {
	if e.Kind != e.Other {
		return fmt.Sprintf("%s: cannot merge %s step into %s step %q", ErrIncompatibleStep, e.Other, e.Kind, e.Key)
	}

	return fmt.Sprintf("%s: %s step %q: %s", ErrIncompatibleStep, e.Kind, e.Key, e.Reason)
}

func (e *IncompatibleStepError) Is(target error) bool {
	return target == ErrIncompatibleStep
}

// IncompatibleJobError is returned when two same-named jobs cannot be deep merged. Err holds the step level failure
// when there is one.
type IncompatibleJobError struct {
	Job    string
	Reason string
	Err    error
}

func (e *IncompatibleJobError) Error() string {
	msg := fmt.Sprintf("%s %q: %s", ErrIncompatibleJob, e.Job, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *IncompatibleJobError) Is(target error) bool {
	return target == ErrIncompatibleJob
}

func (e *IncompatibleJobError) Unwrap() error {
	return e.Err
}

// UnsupportedFeatureError is returned when a step uses a feature the rewrite machinery cannot follow.
type UnsupportedFeatureError struct {
	Feature string
	Step    string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s: %s in step %q", ErrUnsupportedFeature, e.Feature, e.Step)
}

func (e *UnsupportedFeatureError) Is(target error) bool {
	return target == ErrUnsupportedFeature
}

// UnresolvedResourceError is the panic value raised when a resource rewrite map does not cover a referenced
// resource. It signals an orchestration bug, not a user input problem.
type UnresolvedResourceError struct {
	Resource string
	Handle   string
}

func (e *UnresolvedResourceError) Error() string {
	return fmt.Sprintf("%s: %q referenced by handle %q has no rewrite", ErrUnresolvedResource, e.Resource, e.Handle)
}

func (e *UnresolvedResourceError) Is(target error) bool {
	return target == ErrUnresolvedResource
}
