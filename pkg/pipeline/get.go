package pipeline

// Get fetches a version of a resource and exposes it under the Get handle.
type Get struct {
	Get      string
	Resource string
	Passed   []string
	Params   any
	Trigger  bool
	Version  string
}

// EffectiveResource returns the resource bound to the step, the handle itself when Resource is empty.
func (g *Get) EffectiveResource() string {
	if g.Resource != "" {
		return g.Resource
	}

	return g.Get
}

func (g *Get) Kind() StepKind {
	return GetStepKind
}

func (g *Get) SortKey() string {
	return "Get:" + g.Get
}

func (g *Get) Equal(other Step) bool {
	o, ok := other.(*Get)
	if !ok {
		return false
	}

	return g.Get == o.Get &&
		g.EffectiveResource() == o.EffectiveResource() &&
		equalStringSlices(g.Passed, o.Passed) &&
		equalValue(g.Params, o.Params) &&
		g.Trigger == o.Trigger &&
		g.Version == o.Version
}

func (g *Get) Clone() Step {
	return g.clone()
}

func (g *Get) clone() *Get {
	return &Get{
		Get:      g.Get,
		Resource: g.Resource,
		Passed:   cloneStrings(g.Passed),
		Params:   cloneValue(g.Params),
		Trigger:  g.Trigger,
		Version:  g.Version,
	}
}

func (g *Get) Handles() []Handle {
	return []Handle{{Name: g.Get, Resource: g.EffectiveResource()}}
}

func (g *Get) ResourceRewrite(rewrites map[string]string) (Step, error) {
	out := g.clone()
	out.Resource = resolveResource(rewrites, g.EffectiveResource(), g.Get)

	return out, nil
}

func (g *Get) HandleRewrite(rewrites map[string]string) Step {
	out := g.clone()
	if name, ok := rewrites[g.Get]; ok {
		// the binding must survive the rename of the handle
		out.Resource = g.EffectiveResource()
		out.Get = name
	}

	return out
}

func (g *Get) DeepMerge(other Step) (Step, error) {
	if other.Kind() != GetStepKind {
		return nil, mismatch(g, other, g.Get)
	}

	if !g.Equal(other) {
		return nil, &IncompatibleStepError{Kind: GetStepKind, Other: GetStepKind, Key: g.Get, Reason: "steps differ"}
	}

	return g.clone(), nil
}

func (g *Get) isStep() {}

var _ Step = (*Get)(nil)
