package destination

// EnvVar is one environment variable set on the job.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResubmitRule tells the orchestrator where to send a job after a failure.
type ResubmitRule struct {
	Condition   string `json:"condition"`
	Destination string `json:"destination"`
}

// Descriptor is the final resolved destination handed to the orchestrator.
type Descriptor struct {
	ID       string            `json:"id"`
	Runner   string            `json:"runner"`
	Params   map[string]string `json:"params"`
	Env      []EnvVar          `json:"env"`
	Resubmit []ResubmitRule    `json:"resubmit"`
}

// BuildResult is the output of the spec builder: the rendered environment
// and parameters, the transport-level runner identity, and the raw
// resource quantities that went into the rendered values.
type BuildResult struct {
	Env    []EnvVar          `json:"env"`
	Params map[string]string `json:"params"`
	Runner string            `json:"runner"`
	// RawAllocation records the "mem" (GB) and "cpu" (cores) quantities
	// underlying the rendered parameters.
	RawAllocation map[string]float64 `json:"rawAllocation,omitempty"`
}

// Template is a backend's base environment and parameter set.
type Template struct {
	Env    map[string]string `json:"env"`
	Params map[string]string `json:"params"`
}

// Catalog is the read-only specification catalog: backend base templates
// and per-tool override records.
type Catalog interface {
	// BackendTemplate returns the base template for a backend name.
	// Unknown names return an empty template.
	BackendTemplate(name string) Template
	// ToolOverride returns the override record for a short tool id.
	ToolOverride(shortID string) (ToolSpec, bool)
}
