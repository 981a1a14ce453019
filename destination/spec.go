// Package destination resolves a concrete execution destination for a
// single job: which scheduler backend runs it, how much memory and how
// many cores it gets, and which scheduler parameters and environment
// variables are set.
package destination

import (
	"strconv"

	"github.com/getlantern/deepcopy"
)

// Maximum resources per backend. Requests above these are clamped
// rather than rejected, so jobs stay schedulable.
const (
	CondorMaxCores = 40
	CondorMaxMem   = 250 - 2
	SGEMaxCores    = 24
	SGEMaxMem      = 256 - 2
)

// Resource and priority defaults applied when a tool doesn't declare them.
const (
	DefaultMem      = 4.0
	DefaultCores    = 1
	DefaultPriority = 128
	DefaultRunner   = "sge"
)

// ToolSpec is the declarative resource request and override record for one
// tool. Records are read from the tool destination catalog, copied, and
// mutated by the resolution pipeline; they are never persisted.
type ToolSpec struct {
	// Cores requested. Nil means unset; the effective default is 1.
	Cores *int `json:"cores,omitempty"`
	// Mem requested, in gigabytes. Nil means unset; the effective default is 4.
	Mem *float64 `json:"mem,omitempty"`
	// Runner is the backend name ("sge", anything containing "condor",
	// or "local"). Empty defaults to "sge" at build time.
	Runner string `json:"runner,omitempty"`
	// Env overrides layered onto the backend template environment.
	Env map[string]string `json:"env,omitempty"`
	// Params overrides layered onto the backend template parameters.
	Params map[string]string `json:"params,omitempty"`
	// Priority, like nice: higher numbers are lower priority.
	Priority *int `json:"priority,omitempty"`
	// Tmp is "large" for tools that need the large temp directory.
	Tmp string `json:"tmp,omitempty"`
	// Requirements is a raw scheduler requirement expression.
	Requirements string `json:"requirements,omitempty"`
	// Rank is a raw scheduler rank expression.
	Rank string `json:"rank,omitempty"`
	// NativeSpecExtra is appended verbatim to the SGE native specification.
	NativeSpecExtra string `json:"nativeSpecExtra,omitempty"`
	// Name is an optional suffix for the destination id.
	Name string `json:"name,omitempty"`
}

// EffectiveMem returns the requested memory in GB, or the default.
func (s *ToolSpec) EffectiveMem() float64 {
	if s.Mem != nil {
		return *s.Mem
	}
	return DefaultMem
}

// EffectiveCores returns the requested core count, or the default.
func (s *ToolSpec) EffectiveCores() int {
	if s.Cores != nil {
		return *s.Cores
	}
	return DefaultCores
}

// EffectivePriority returns the requested priority, or the default.
func (s *ToolSpec) EffectivePriority() int {
	if s.Priority != nil {
		return *s.Priority
	}
	return DefaultPriority
}

// EffectiveRunner returns the backend name, or the default backend.
func (s *ToolSpec) EffectiveRunner() string {
	if s.Runner != "" {
		return s.Runner
	}
	return DefaultRunner
}

// SetMem sets the requested memory.
func (s *ToolSpec) SetMem(gb float64) {
	s.Mem = &gb
}

// SetCores sets the requested core count.
func (s *ToolSpec) SetCores(n int) {
	s.Cores = &n
}

// Clone returns a deep copy of the spec, so pipeline stages can mutate
// it without touching the catalog record.
func (s *ToolSpec) Clone() (ToolSpec, error) {
	out := ToolSpec{}
	err := deepcopy.Copy(&out, s)
	return out, err
}

// DestinationID derives the human-readable destination id from the
// resource shape, e.g. "2cores_8G", "sge_default", "16G_memory".
func (s *ToolSpec) DestinationID() string {
	var name string
	switch {
	case s.Cores != nil:
		name = strconv.Itoa(*s.Cores) + "cores_" + fmtMem(s.EffectiveMem()) + "G"
	case s.defaultOnly():
		name = s.EffectiveRunner() + "_default"
	default:
		name = fmtMem(s.EffectiveMem()) + "G_memory"
	}

	if s.Tmp == "large" {
		name += "_large"
	}

	if s.Name != "" {
		name += "_" + s.Name
	}

	return name
}

// defaultOnly reports whether the record carries no material overrides,
// i.e. it is empty apart from (at most) a runner name.
func (s *ToolSpec) defaultOnly() bool {
	return s.Cores == nil &&
		s.Mem == nil &&
		len(s.Env) == 0 &&
		len(s.Params) == 0 &&
		s.Priority == nil &&
		s.Tmp == "" &&
		s.Requirements == "" &&
		s.Rank == "" &&
		s.NativeSpecExtra == "" &&
		s.Name == ""
}

// fmtMem formats a memory quantity without a trailing ".0", so 8.0
// renders as "8" and 0.3 renders as "0.3".
func fmtMem(gb float64) string {
	return strconv.FormatFloat(gb, 'f', -1, 64)
}
