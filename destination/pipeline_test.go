package destination

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

// testAffinity records affinity calls and returns canned expressions.
type testAffinity struct {
	excludeExpr     string
	preferExpr      string
	lastPermissible []string
	lastIdentifiers []string
	lastGroup       string
}

func (a *testAffinity) Exclude(permissible []string) string {
	a.lastPermissible = permissible
	return a.excludeExpr
}

func (a *testAffinity) Prefer(identifiers []string, group string) string {
	a.lastIdentifiers = identifiers
	a.lastGroup = group
	return a.preferExpr
}

type testStatus struct {
	sge    bool
	condor bool
}

func (s *testStatus) SGEAvailable() bool    { return s.sge }
func (s *testStatus) CondorAvailable() bool { return s.condor }

func newTestResolver() (*Resolver, *testCatalog, *testAffinity, *testStatus) {
	cat := newTestCatalog()
	aff := &testAffinity{
		excludeExpr: `( (machine != "a-training-1") )`,
		preferExpr:  `( (machine == "a-training-1") )`,
	}
	status := &testStatus{sge: true, condor: true}
	r := &Resolver{
		Catalog:         cat,
		Affinity:        aff,
		Status:          status,
		AuthorizedEmail: "admin@example.org",
	}
	return r, cat, aff, status
}

func TestResolveDefaults(t *testing.T) {
	r, _, _, _ := newTestResolver()

	result, spec, err := r.Resolve("some_tool", nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Runner != "drmaa" {
		t.Error("unexpected runner", result.Runner)
	}
	if spec.EffectiveMem() != 4 {
		t.Error("unexpected memory", spec.EffectiveMem())
	}
	if spec.DestinationID() != "4G_memory" {
		t.Error("unexpected destination id", spec.DestinationID())
	}
}

func TestResolveLongToolID(t *testing.T) {
	r, cat, _, _ := newTestResolver()
	cat.tools["Add_a_column1"] = ToolSpec{Cores: intp(2), Mem: floatp(8)}

	_, spec, err := r.Resolve(
		"toolshed.g2.bx.psu.edu/repos/devteam/column_maker/Add_a_column1/1.1.0",
		nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if spec.DestinationID() != "2cores_8G" {
		t.Error("catalog override not found via short id", spec.DestinationID())
	}
}

func TestResolveMemoryScale(t *testing.T) {
	r, _, _, _ := newTestResolver()

	_, spec, err := r.Resolve("some_tool", nil, "", 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if spec.EffectiveMem() != 6 {
		t.Error("memory not scaled", spec.EffectiveMem())
	}
	if spec.DestinationID() != "6G_memory" {
		t.Error("unexpected destination id", spec.DestinationID())
	}
}

func TestTrainingReroute(t *testing.T) {
	r, _, aff, _ := newTestResolver()

	result, spec, err := r.Resolve("some_tool", []string{"training-gcc2024", "other"}, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Runner != "condor" {
		t.Error("training jobs must go to condor", result.Runner)
	}
	if spec.Requirements != aff.excludeExpr {
		t.Error("unexpected requirements", spec.Requirements)
	}
	if spec.Rank != aff.preferExpr {
		t.Error("unexpected rank", spec.Rank)
	}
	if diff := deep.Equal(aff.lastPermissible, []string{"gcc2024"}); diff != nil {
		t.Error("unexpected permissible groups:", diff)
	}
	if diff := deep.Equal(aff.lastIdentifiers, []string{"gcc2024"}); diff != nil {
		t.Error("unexpected preferred identifiers:", diff)
	}
}

func TestCondorJobsAvoidTrainingMachines(t *testing.T) {
	r, cat, aff, _ := newTestResolver()
	cat.tools["some_tool"] = ToolSpec{Runner: "condor"}

	_, spec, err := r.Resolve("some_tool", nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}

	if spec.Requirements != aff.excludeExpr {
		t.Error("condor jobs should exclude training machines", spec.Requirements)
	}
	if len(aff.lastPermissible) != 0 {
		t.Error("no groups should be permissible", aff.lastPermissible)
	}
	if spec.Rank != "" {
		t.Error("no rank expected without training roles", spec.Rank)
	}
}

func TestUploadSpecialCase(t *testing.T) {
	r, cat, aff, _ := newTestResolver()
	// A catalog override for the id must not matter.
	cat.tools["upload1"] = ToolSpec{Mem: floatp(64), Runner: "sge"}

	result, spec, err := r.Resolve("upload1", nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Runner != "condor" {
		t.Error("unexpected runner", result.Runner)
	}
	if spec.EffectiveMem() != 0.3 {
		t.Error("unexpected memory", spec.EffectiveMem())
	}
	if aff.lastGroup != "upload" {
		t.Error("unexpected machine group", aff.lastGroup)
	}
	found := false
	for _, e := range result.Env {
		if e.Name == "TEMP" && e.Value == "/data/1/galaxy_db/tmp/" {
			found = true
		}
	}
	if !found {
		t.Error("TEMP env var missing", result.Env)
	}
}

func TestSetMetadataSpecialCase(t *testing.T) {
	r, _, aff, _ := newTestResolver()

	result, spec, err := r.Resolve("__SET_METADATA__", nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Runner != "condor" {
		t.Error("unexpected runner", result.Runner)
	}
	if spec.EffectiveMem() != 0.3 {
		t.Error("unexpected memory", spec.EffectiveMem())
	}
	if aff.lastGroup != "metadata" {
		t.Error("unexpected machine group", aff.lastGroup)
	}
}

func TestCondorDownFallsBackToSGE(t *testing.T) {
	r, cat, _, status := newTestResolver()
	cat.tools["some_tool"] = ToolSpec{Runner: "condor", Mem: floatp(4.5)}
	status.condor = false

	result, spec, err := r.Resolve("some_tool", nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}

	if result.Runner != "drmaa" {
		t.Error("job should be converted to sge", result.Runner)
	}
	// SGE has no fractional memory support.
	if spec.EffectiveMem() != 5 {
		t.Error("memory should round up on conversion", spec.EffectiveMem())
	}
}

func TestSGEDownFallsBackToCondor(t *testing.T) {
	r, cat, _, status := newTestResolver()
	cat.tools["some_tool"] = ToolSpec{Runner: "sge"}
	status.sge = false

	result, _, err := r.Resolve("some_tool", nil, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Runner != "condor" {
		t.Error("job should be converted to condor", result.Runner)
	}
}

func TestBothBackendsDown(t *testing.T) {
	r, _, _, status := newTestResolver()
	status.sge = false
	status.condor = false

	_, _, err := r.Resolve("some_tool", nil, "", 1.0)
	if !errors.Is(err, ErrBothDown) {
		t.Fatal("expected ErrBothDown, got", err)
	}
}

func TestAdminForceRoles(t *testing.T) {
	r, _, _, _ := newTestResolver()

	result, _, err := r.Resolve("some_tool", []string{"gx-admin-force-jobs-to-condor"}, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Runner != "condor" {
		t.Error("force-to-condor role ignored", result.Runner)
	}

	result, spec, err := r.Resolve("some_tool", []string{"gx-admin-force-jobs-to-drmaa"}, "", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Runner != "drmaa" {
		t.Error("force-to-drmaa role ignored", result.Runner)
	}
	if spec.Runner != "sge" {
		t.Error("unexpected spec runner", spec.Runner)
	}
}

func TestDiagnosticToolAuthorization(t *testing.T) {
	r, _, _, _ := newTestResolver()

	_, _, err := r.Resolve("echo_main_env", nil, "someone@example.org", 1.0)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatal("expected ErrUnauthorized, got", err)
	}

	result, _, err := r.Resolve("echo_main_env", nil, "admin@example.org", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Runner != "condor" {
		t.Error("diagnostic tool should run on condor", result.Runner)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r, cat, _, _ := newTestResolver()
	cat.tools["some_tool"] = ToolSpec{Cores: intp(4), Mem: floatp(16), Runner: "condor"}

	first, firstSpec, err := r.Resolve("some_tool", []string{"training-abc"}, "u@example.org", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	second, secondSpec, err := r.Resolve("some_tool", []string{"training-abc"}, "u@example.org", 1.0)
	if err != nil {
		t.Fatal(err)
	}

	if diff := deep.Equal(first, second); diff != nil {
		t.Error("results differ:", diff)
	}
	if diff := deep.Equal(firstSpec, secondSpec); diff != nil {
		t.Error("specs differ:", diff)
	}
}

func TestShortToolID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"upload1", "upload1"},
		{"toolshed.g2.bx.psu.edu/repos/devteam/column_maker/Add_a_column1/1.1.0", "Add_a_column1"},
		{"odd/shape", "odd/shape"},
	}
	for _, c := range cases {
		if got := ShortToolID(c.in); got != c.want {
			t.Errorf("ShortToolID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
