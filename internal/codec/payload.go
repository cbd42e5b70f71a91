package codec

const (
	defaultCheckEvery   = "1m"
	defaultCheckTimeout = "1h"
	defaultGetVersion   = "latest"
	defaultPutInputs    = "all"
)

type pipelinePayload struct {
	ResourceTypes []resourceTypePayload `yaml:"resource_types,omitempty"`
	Resources     []resourcePayload     `yaml:"resources,omitempty"`
	Jobs          []jobPayload          `yaml:"jobs,omitempty"`
}

type resourceTypePayload struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Source     map[string]any `yaml:"source,omitempty"`
	Privileged bool           `yaml:"privileged,omitempty"`
	Params     map[string]any `yaml:"params,omitempty"`
	CheckEvery string         `yaml:"check_every,omitempty"`
	Tags       []string       `yaml:"tags,omitempty"`
	Defaults   map[string]any `yaml:"defaults,omitempty"`
}

type resourcePayload struct {
	Name                 string         `yaml:"name"`
	Type                 string         `yaml:"type"`
	Source               map[string]any `yaml:"source,omitempty"`
	OldName              string         `yaml:"old_name,omitempty"`
	Icon                 string         `yaml:"icon,omitempty"`
	Version              string         `yaml:"version,omitempty"`
	CheckEvery           string         `yaml:"check_every,omitempty"`
	CheckTimeout         string         `yaml:"check_timeout,omitempty"`
	ExposeBuildCreatedBy bool           `yaml:"expose_build_created_by,omitempty"`
	Tags                 []string       `yaml:"tags,omitempty"`
	Public               bool           `yaml:"public,omitempty"`
	WebhookToken         string         `yaml:"webhook_token,omitempty"`
}

type logRetentionPayload struct {
	Days                   int `yaml:"days,omitempty"`
	Builds                 int `yaml:"builds,omitempty"`
	MinimumSucceededBuilds int `yaml:"minimum_succeeded_builds,omitempty"`
}

type jobPayload struct {
	Name                 string               `yaml:"name"`
	OldName              string               `yaml:"old_name,omitempty"`
	Serial               bool                 `yaml:"serial,omitempty"`
	SerialGroups         []string             `yaml:"serial_groups,omitempty"`
	MaxInFlight          *int                 `yaml:"max_in_flight,omitempty"`
	BuildLogRetention    *logRetentionPayload `yaml:"build_log_retention,omitempty"`
	Public               bool                 `yaml:"public,omitempty"`
	DisableManualTrigger bool                 `yaml:"disable_manual_trigger,omitempty"`
	Interruptible        bool                 `yaml:"interruptible,omitempty"`
	Plan                 stepList             `yaml:"plan"`
	OnSuccess            *stepNode            `yaml:"on_success,omitempty"`
	OnFailure            *stepNode            `yaml:"on_failure,omitempty"`
	OnError              *stepNode            `yaml:"on_error,omitempty"`
	OnAbort              *stepNode            `yaml:"on_abort,omitempty"`
	Ensure               *stepNode            `yaml:"ensure,omitempty"`
}

type getPayload struct {
	Get      string   `yaml:"get"`
	Resource string   `yaml:"resource,omitempty"`
	Passed   []string `yaml:"passed,omitempty"`
	Params   any      `yaml:"params,omitempty"`
	Trigger  bool     `yaml:"trigger,omitempty"`
	Version  string   `yaml:"version,omitempty"`
}

type putPayload struct {
	Put       string `yaml:"put"`
	Resource  string `yaml:"resource,omitempty"`
	Inputs    string `yaml:"inputs,omitempty"`
	Params    any    `yaml:"params,omitempty"`
	GetParams any    `yaml:"get_params,omitempty"`
}

type containerLimitsPayload struct {
	CPU    int `yaml:"cpu"`
	Memory int `yaml:"memory"`
}

type commandPayload struct {
	Path string   `yaml:"path"`
	Args []string `yaml:"args,omitempty"`
	Dir  string   `yaml:"dir,omitempty"`
	User string   `yaml:"user,omitempty"`
}

type imageResourcePayload struct {
	Type    string            `yaml:"type"`
	Source  map[string]any    `yaml:"source,omitempty"`
	Params  map[string]any    `yaml:"params,omitempty"`
	Version map[string]string `yaml:"version,omitempty"`
}

type taskInputPayload struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

type taskOutputPayload struct {
	Name string `yaml:"name"`
	Path string `yaml:"path,omitempty"`
}

type taskCachePayload struct {
	Path string `yaml:"path"`
}

type taskConfigPayload struct {
	Platform        string                  `yaml:"platform"`
	Run             commandPayload          `yaml:"run"`
	ImageResource   *imageResourcePayload   `yaml:"image_resource,omitempty"`
	Inputs          []taskInputPayload      `yaml:"inputs,omitempty"`
	Outputs         []taskOutputPayload     `yaml:"outputs,omitempty"`
	Caches          []taskCachePayload      `yaml:"caches,omitempty"`
	Params          map[string]string       `yaml:"params,omitempty"`
	RootfsURI       string                  `yaml:"rootfs_uri,omitempty"`
	ContainerLimits *containerLimitsPayload `yaml:"container_limits,omitempty"`
}

type taskPayload struct {
	Task            string                  `yaml:"task"`
	Config          *taskConfigPayload      `yaml:"config,omitempty"`
	File            string                  `yaml:"file,omitempty"`
	Image           string                  `yaml:"image,omitempty"`
	Privileged      bool                    `yaml:"privileged,omitempty"`
	Vars            map[string]string       `yaml:"vars,omitempty"`
	ContainerLimits *containerLimitsPayload `yaml:"container_limits,omitempty"`
	Params          map[string]string       `yaml:"params,omitempty"`
	InputMapping    map[string]string       `yaml:"input_mapping,omitempty"`
	OutputMapping   map[string]string       `yaml:"output_mapping,omitempty"`
}

type doPayload struct {
	Do stepList `yaml:"do"`
}

type inParallelPayload struct {
	InParallel parallelBody `yaml:"in_parallel"`
}

// parallelBody accepts both the list form and the mapping form of in_parallel.
type parallelBody struct {
	Steps    stepList `yaml:"steps"`
	Limit    *int       `yaml:"limit,omitempty"`
	FailFast bool       `yaml:"fail_fast,omitempty"`
}
