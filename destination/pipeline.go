package destination

import (
	"math"
	"strings"
)

// Tool ids with hardcoded destinations, and the roles that force a
// backend regardless of anything else the pipeline computed.
const (
	uploadToolID      = "upload1"
	setMetadataToolID = "__SET_METADATA__"
	diagnosticToolID  = "echo_main_env"

	forceCondorRole = "gx-admin-force-jobs-to-condor"
	forceSGERole    = "gx-admin-force-jobs-to-drmaa"

	trainingRolePrefix = "training-"
)

// AffinityBuilder synthesizes machine-affinity expressions in the
// cluster scheduler's requirement/rank syntax.
type AffinityBuilder interface {
	// Exclude renders a requirement avoiding all dedicated machines
	// except those belonging to the permissible groups.
	Exclude(permissible []string) string
	// Prefer renders a rank preferring machines matching the given
	// identifiers within a machine group.
	Prefer(identifiers []string, group string) string
}

// AvailabilityProber reports whether each backend is accepting work.
type AvailabilityProber interface {
	SGEAvailable() bool
	CondorAvailable() bool
}

// Resolver runs the destination resolution pipeline: catalog lookup,
// role-based rerouting, memory scaling, special cases, downed-backend
// fallback, administrative overrides, and the final spec build.
type Resolver struct {
	Catalog  Catalog
	Affinity AffinityBuilder
	Status   AvailabilityProber

	// AuthorizedEmail is the only identity allowed to run the
	// diagnostic tool.
	AuthorizedEmail string
}

// Resolve resolves a destination for a tool and caller. memScale is 1.0
// for first submissions and raised for resubmitted jobs. The returned
// spec is the final record the build was made from; its DestinationID
// names the destination.
func (r *Resolver) Resolve(toolID string, userRoles []string, userEmail string, memScale float64) (*BuildResult, ToolSpec, error) {
	spec, err := r.finalizeSpec(toolID, userRoles, memScale)
	if err != nil {
		return nil, ToolSpec{}, err
	}

	spec, err = r.handleDownedRunners(spec)
	if err != nil {
		return nil, ToolSpec{}, err
	}

	// Send special users to condor or sge unconditionally.
	if hasRole(userRoles, forceCondorRole) {
		convertSGEToCondor(&spec)
	}
	if hasRole(userRoles, forceSGERole) {
		convertCondorToSGE(&spec)
	}

	if toolID == diagnosticToolID {
		if userEmail != r.AuthorizedEmail {
			return nil, ToolSpec{}, ErrUnauthorized
		}
		convertSGEToCondor(&spec)
	}

	result, err := Build(r.Catalog, spec)
	if err != nil {
		return nil, ToolSpec{}, err
	}
	return result, spec, nil
}

// finalizeSpec looks up the tool's catalog record and applies rerouting,
// memory scaling and the hardcoded special cases.
func (r *Resolver) finalizeSpec(toolID string, userRoles []string, memScale float64) (ToolSpec, error) {
	record, _ := r.Catalog.ToolOverride(ShortToolID(toolID))
	spec, err := record.Clone()
	if err != nil {
		return ToolSpec{}, err
	}

	r.rerouteToDedicated(&spec, userRoles)

	spec.SetMem(spec.EffectiveMem() * memScale)

	// Only two tools are truly special. Their specs replace everything
	// computed above, including any catalog override for the same id.
	switch toolID {
	case uploadToolID:
		m := 0.3
		spec = ToolSpec{
			Mem:          &m,
			Runner:       "condor",
			Requirements: r.Affinity.Prefer([]string{"upload"}, "upload"),
			Env: map[string]string{
				"TEMP": "/data/1/galaxy_db/tmp/",
			},
		}
	case setMetadataToolID:
		m := 0.3
		spec = ToolSpec{
			Mem:          &m,
			Runner:       "condor",
			Requirements: r.Affinity.Prefer([]string{"metadata"}, "metadata"),
		}
	}

	return spec, nil
}

// rerouteToDedicated routes callers holding training roles onto their
// dedicated machines, and keeps everyone else off those machines.
func (r *Resolver) rerouteToDedicated(spec *ToolSpec, userRoles []string) {
	var trainingRoles []string
	for _, role := range userRoles {
		if strings.HasPrefix(role, trainingRolePrefix) {
			trainingRoles = append(trainingRoles, strings.TrimPrefix(role, trainingRolePrefix))
		}
	}

	if len(trainingRoles) == 0 {
		// Jobs heading to condor anyway must not land on the dedicated
		// training machines.
		if strings.Contains(spec.Runner, "condor") {
			spec.Requirements = r.Affinity.Exclude(nil)
		}
		return
	}

	// The caller holds one or more training roles: require machines
	// outside the groups they are not in, rank the ones they are in
	// first, and force the job onto the cluster backend.
	spec.Requirements = r.Affinity.Exclude(trainingRoles)
	spec.Rank = r.Affinity.Prefer(trainingRoles, "training")
	spec.Runner = "condor"
}

// handleDownedRunners reschedules a job to the other backend when its
// target backend is down. With both backends down there is nowhere to
// schedule at all.
func (r *Resolver) handleDownedRunners(spec ToolSpec) (ToolSpec, error) {
	availCondor := r.Status.CondorAvailable()
	availSGE := r.Status.SGEAvailable()

	if !availCondor && !availSGE {
		return ToolSpec{}, ErrBothDown
	}

	// An absent runner means local execution here, which needs no
	// cluster at all.
	runner := spec.Runner
	if runner == "" {
		runner = "local"
	}

	switch {
	case strings.Contains(runner, "condor"):
		if availSGE && !availCondor {
			convertCondorToSGE(&spec)
		}
	case runner == "sge":
		if availCondor && !availSGE {
			convertSGEToCondor(&spec)
		}
	}

	return spec, nil
}

func convertCondorToSGE(spec *ToolSpec) {
	spec.Runner = "sge"
	// SGE does not support fractional memory requests.
	spec.SetMem(math.Ceil(spec.EffectiveMem()))
}

func convertSGEToCondor(spec *ToolSpec) {
	spec.Runner = "condor"
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
