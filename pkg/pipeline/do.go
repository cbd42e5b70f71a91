package pipeline

import "strconv"

// Do runs its steps in order.
type Do struct {
	Steps []Step
}

func (d *Do) Kind() StepKind {
	return DoStepKind
}

func (d *Do) SortKey() string {
	return "Do:[" + joinSortKeys(d.Steps) + "]"
}

func (d *Do) Equal(other Step) bool {
	o, ok := other.(*Do)
	if !ok {
		return false
	}

	return equalSteps(d.Steps, o.Steps)
}

func (d *Do) Clone() Step {
	return &Do{Steps: cloneSteps(d.Steps)}
}

func (d *Do) Handles() []Handle {
	return stepsHandles(d.Steps)
}

func (d *Do) ResourceRewrite(rewrites map[string]string) (Step, error) {
	steps, err := resourceRewriteSteps(d.Steps, rewrites)
	if err != nil {
		return nil, err
	}

	return &Do{Steps: steps}, nil
}

func (d *Do) HandleRewrite(rewrites map[string]string) Step {
	return &Do{Steps: handleRewriteSteps(d.Steps, rewrites)}
}

// DeepMerge pairs the children of both sequences by position. Sequences of different length are never merged.
func (d *Do) DeepMerge(other Step) (Step, error) {
	o, ok := other.(*Do)
	if !ok {
		return nil, mismatch(d, other, d.SortKey())
	}

	if len(d.Steps) != len(o.Steps) {
		return nil, &IncompatibleStepError{
			Kind:   DoStepKind,
			Other:  DoStepKind,
			Key:    d.SortKey(),
			Reason: "sequence lengths differ: " + strconv.Itoa(len(d.Steps)) + " != " + strconv.Itoa(len(o.Steps)),
		}
	}

	steps, err := deepMergeSteps(d.Steps, o.Steps)
	if err != nil {
		return nil, err
	}

	return &Do{Steps: steps}, nil
}

func (d *Do) isStep() {}

var _ Step = (*Do)(nil)
