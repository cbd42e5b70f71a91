package pipeline

// InParallel runs its steps concurrently. The order of Steps carries no meaning.
type InParallel struct {
	Steps    []Step
	Limit    *int
	FailFast bool
}

func (p *InParallel) Kind() StepKind {
	return InParallelStepKind
}

func (p *InParallel) SortKey() string {
	return "InParallel:" + joinSortKeys(sortedSteps(p.Steps))
}

// Equal compares the steps as a set, ordered by SortKey.
func (p *InParallel) Equal(other Step) bool {
	o, ok := other.(*InParallel)
	if !ok {
		return false
	}

	return equalIntPtr(p.Limit, o.Limit) &&
		p.FailFast == o.FailFast &&
		equalSteps(sortedSteps(p.Steps), sortedSteps(o.Steps))
}

func (p *InParallel) Clone() Step {
	return p.clone(cloneSteps(p.Steps))
}

func (p *InParallel) clone(steps []Step) *InParallel {
	return &InParallel{
		Steps:    steps,
		Limit:    cloneIntPtr(p.Limit),
		FailFast: p.FailFast,
	}
}

func (p *InParallel) Handles() []Handle {
	return stepsHandles(p.Steps)
}

func (p *InParallel) ResourceRewrite(rewrites map[string]string) (Step, error) {
	steps, err := resourceRewriteSteps(p.Steps, rewrites)
	if err != nil {
		return nil, err
	}

	return p.clone(steps), nil
}

func (p *InParallel) HandleRewrite(rewrites map[string]string) Step {
	return p.clone(handleRewriteSteps(p.Steps, rewrites))
}

// DeepMerge returns the union of both step sets. The receiver's steps keep their order and the steps only found in
// other follow in their original order. Limit and FailFast come from the receiver.
func (p *InParallel) DeepMerge(other Step) (Step, error) {
	o, ok := other.(*InParallel)
	if !ok {
		return nil, mismatch(p, other, p.SortKey())
	}

	steps := cloneSteps(p.Steps)
	for _, s := range o.Steps {
		if containsStep(steps, s) {
			continue
		}

		steps = append(steps, s.Clone())
	}

	return p.clone(steps), nil
}

func (p *InParallel) isStep() {}

var _ Step = (*InParallel)(nil)
