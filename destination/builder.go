package destination

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Substitution tokens available to catalog env and param values.
const (
	tokenPriority        = "PRIORITY"
	tokenMemory          = "MEMORY"
	tokenParallelisation = "PARALLELISATION"
	tokenNativeSpecExtra = "NATIVE_SPEC_EXTRA"
)

var tokenRx = regexp.MustCompile(`\{([A-Z_]+)\}`)

// Build merges a tool's spec onto its backend template, clamps the
// resource ask to the backend ceiling, derives backend-specific
// quantities and renders all env/param values.
func Build(cat Catalog, spec ToolSpec) (*BuildResult, error) {
	dest := spec.EffectiveRunner()

	tpl := cat.BackendTemplate(dest)
	env := copyMap(tpl.Env)
	params := copyMap(tpl.Params)

	// We define the default memory and cores for all jobs, then clamp
	// them so that we never produce unschedulable jobs asking for more
	// ram/cpu than any machine in the target location has.
	mem := spec.EffectiveMem()
	cores := spec.EffectiveCores()
	switch {
	case dest == "sge":
		mem = math.Min(mem, SGEMaxMem)
		if cores > SGEMaxCores {
			cores = SGEMaxCores
		}
	case strings.Contains(dest, "condor"):
		mem = math.Min(mem, CondorMaxMem)
		if cores > CondorMaxCores {
			cores = CondorMaxCores
		}
	}

	ctx := map[string]string{
		tokenPriority:        strconv.Itoa(spec.EffectivePriority()),
		tokenMemory:          fmtMem(mem) + "G",
		tokenParallelisation: "",
		tokenNativeSpecExtra: "",
	}

	// Allow a more human-friendly, multi-line native specification in
	// the catalog.
	if ns, ok := params["nativeSpecification"]; ok {
		params["nativeSpecification"] = strings.TrimSpace(strings.ReplaceAll(ns, "\n", " "))
	}

	raw := map[string]float64{}

	switch {
	case dest == "sge":
		if spec.Cores != nil {
			ctx[tokenParallelisation] = fmt.Sprintf(`-pe "pe*" %d`, cores)
			// Memory is requested per-core in SGE's model, in megabytes.
			ctx[tokenMemory] = fmt.Sprintf("%dM", int(math.Ceil(1024*mem/float64(cores))))
			raw["mem"] = mem
			raw["cpu"] = float64(cores)
		}

		if spec.NativeSpecExtra != "" {
			ctx[tokenNativeSpecExtra] = spec.NativeSpecExtra
		}

		// Large TMP dir
		if spec.Tmp == "large" {
			ctx[tokenNativeSpecExtra] += "-l has_largetmp=1"
		}

		// A tool setting its own _JAVA_OPTIONS must not also inherit the
		// one exported by the native specification.
		if _, ok := spec.Env["_JAVA_OPTIONS"]; ok {
			params["nativeSpecification"] = strings.ReplaceAll(
				params["nativeSpecification"], "-v _JAVA_OPTIONS", "")
		}

	case strings.Contains(dest, "condor"):
		if spec.Cores != nil {
			ctx[tokenParallelisation] = strconv.Itoa(cores)
			raw["cpu"] = float64(cores)
		}

		if spec.Mem != nil {
			raw["mem"] = mem
		}

		if spec.Requirements != "" {
			params["requirements"] = spec.Requirements
		}

		if spec.Rank != "" {
			params["rank"] = spec.Rank
		}
	}

	// Layer the tool's own env/params over the template base, tool wins.
	for k, v := range spec.Env {
		env[k] = v
	}
	for k, v := range spec.Params {
		params[k] = v
	}

	var err error
	if env, err = renderMap(env, ctx); err != nil {
		return nil, err
	}
	if params, err = renderMap(params, ctx); err != nil {
		return nil, err
	}

	var runner string
	switch {
	case dest == "sge":
		runner = "drmaa"
	case strings.Contains(dest, "condor"):
		runner = "condor"
	default:
		runner = "local"
	}

	return &BuildResult{
		Env:           envList(env),
		Params:        params,
		Runner:        runner,
		RawAllocation: raw,
	}, nil
}

// render substitutes {TOKEN} placeholders in a single value. A token
// missing from the context means the catalog record is broken, which is
// an error rather than something to pass through silently.
func render(value string, ctx map[string]string) (string, error) {
	var missing []string
	out := tokenRx.ReplaceAllStringFunc(value, func(m string) string {
		name := tokenRx.FindStringSubmatch(m)[1]
		v, ok := ctx[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved template token %q in %q", missing[0], value)
	}
	return out, nil
}

func renderMap(in, ctx map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for k, v := range in {
		r, err := render(v, ctx)
		if err != nil {
			return nil, fmt.Errorf("rendering %q: %w", k, err)
		}
		out[k] = r
	}
	return out, nil
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// envList flattens an environment map into a list with a stable,
// name-sorted order.
func envList(env map[string]string) []EnvVar {
	names := make([]string, 0, len(env))
	for k := range env {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]EnvVar, 0, len(names))
	for _, k := range names {
		out = append(out, EnvVar{Name: k, Value: env[k]})
	}
	return out
}
