package pipeline

// ResourceType declares the implementation backing resources of Type Name.
type ResourceType struct {
	Name       string
	Type       string
	Source     map[string]any
	Privileged bool
	Params     map[string]any
	CheckEvery string
	Tags       []string
	Defaults   map[string]any
}

func (r ResourceType) GetName() string {
	return r.Name
}

// Equal compares every field but Name.
func (r ResourceType) Equal(other ResourceType) bool {
	return r.Type == other.Type &&
		equalMap(r.Source, other.Source) &&
		r.Privileged == other.Privileged &&
		equalMap(r.Params, other.Params) &&
		r.CheckEvery == other.CheckEvery &&
		equalStringSlices(r.Tags, other.Tags) &&
		equalMap(r.Defaults, other.Defaults)
}

func (r ResourceType) Clone() ResourceType {
	return ResourceType{
		Name:       r.Name,
		Type:       r.Type,
		Source:     cloneMap(r.Source),
		Privileged: r.Privileged,
		Params:     cloneMap(r.Params),
		CheckEvery: r.CheckEvery,
		Tags:       cloneStrings(r.Tags),
		Defaults:   cloneMap(r.Defaults),
	}
}

func (r ResourceType) Renamed(name string) ResourceType {
	out := r.Clone()
	out.Name = name

	return out
}
