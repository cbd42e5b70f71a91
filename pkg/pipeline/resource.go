package pipeline

// Resource is a named external dependency of the pipeline. Type references a ResourceType name or a builtin type.
type Resource struct {
	Name                 string
	Type                 string
	Source               map[string]any
	OldName              string
	Icon                 string
	Version              string
	CheckEvery           string
	CheckTimeout         string
	ExposeBuildCreatedBy bool
	Tags                 []string
	Public               bool
	WebhookToken         string
}

func (r Resource) GetName() string {
	return r.Name
}

// Equal compares every field but Name.
func (r Resource) Equal(other Resource) bool {
	return r.Type == other.Type &&
		equalMap(r.Source, other.Source) &&
		r.OldName == other.OldName &&
		r.Icon == other.Icon &&
		r.Version == other.Version &&
		r.CheckEvery == other.CheckEvery &&
		r.CheckTimeout == other.CheckTimeout &&
		r.ExposeBuildCreatedBy == other.ExposeBuildCreatedBy &&
		equalStringSlices(r.Tags, other.Tags) &&
		r.Public == other.Public &&
		r.WebhookToken == other.WebhookToken
}

func (r Resource) Clone() Resource {
	out := r
	out.Source = cloneMap(r.Source)
	out.Tags = cloneStrings(r.Tags)

	return out
}

func (r Resource) Renamed(name string) Resource {
	out := r.Clone()
	out.Name = name

	return out
}

// WithType returns a copy of the resource backed by resource type typ.
func (r Resource) WithType(typ string) Resource {
	out := r.Clone()
	out.Type = typ

	return out
}
