package pipeline

// Put pushes to a resource. The new version is exposed under the Put handle.
type Put struct {
	Put       string
	Resource  string
	Inputs    string
	Params    any
	GetParams any
}

// EffectiveResource returns the resource bound to the step, the handle itself when Resource is empty.
func (p *Put) EffectiveResource() string {
	if p.Resource != "" {
		return p.Resource
	}

	return p.Put
}

func (p *Put) Kind() StepKind {
	return PutStepKind
}

func (p *Put) SortKey() string {
	return "Put:" + p.Put
}

func (p *Put) Equal(other Step) bool {
	o, ok := other.(*Put)
	if !ok {
		return false
	}

	return p.Put == o.Put &&
		p.EffectiveResource() == o.EffectiveResource() &&
		p.Inputs == o.Inputs &&
		equalValue(p.Params, o.Params) &&
		equalValue(p.GetParams, o.GetParams)
}

func (p *Put) Clone() Step {
	return p.clone()
}

func (p *Put) clone() *Put {
	return &Put{
		Put:       p.Put,
		Resource:  p.Resource,
		Inputs:    p.Inputs,
		Params:    cloneValue(p.Params),
		GetParams: cloneValue(p.GetParams),
	}
}

func (p *Put) Handles() []Handle {
	return []Handle{{Name: p.Put, Resource: p.EffectiveResource()}}
}

func (p *Put) ResourceRewrite(rewrites map[string]string) (Step, error) {
	out := p.clone()
	out.Resource = resolveResource(rewrites, p.EffectiveResource(), p.Put)

	return out, nil
}

func (p *Put) HandleRewrite(rewrites map[string]string) Step {
	out := p.clone()
	if name, ok := rewrites[p.Put]; ok {
		out.Resource = p.EffectiveResource()
		out.Put = name
	}

	return out
}

func (p *Put) DeepMerge(other Step) (Step, error) {
	if other.Kind() != PutStepKind {
		return nil, mismatch(p, other, p.Put)
	}

	if !p.Equal(other) {
		return nil, &IncompatibleStepError{Kind: PutStepKind, Other: PutStepKind, Key: p.Put, Reason: "steps differ"}
	}

	return p.clone(), nil
}

func (p *Put) isStep() {}

var _ Step = (*Put)(nil)
