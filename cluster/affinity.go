package cluster

import (
	"fmt"
	"sort"
	"strings"
)

// TrainingGroup is the machine group holding the dedicated training
// machines, which jobs avoid unless their owner holds a matching role.
const TrainingGroup = "training"

// Affinity builds machine-affinity expressions in condor's
// requirement/rank syntax from the current inventory snapshot. Both
// operations are total: an empty inventory or identifier list yields an
// empty expression, which callers treat as "no constraint".
type Affinity struct {
	Inventory *Inventory
}

// Exclude renders a requirement keeping jobs off the training machines,
// except machines belonging to one of the permissible groups.
//
//	( (machine != "a-training-1") && (machine != "b-training-2") )
func (a *Affinity) Exclude(permissible []string) string {
	var machines []string
	for _, m := range a.Inventory.Machines(TrainingGroup) {
		if !containsAny(m, permissible) {
			machines = append(machines, m)
		}
	}
	sort.Strings(machines)

	clauses := make([]string, 0, len(machines))
	for _, m := range machines {
		clauses = append(clauses, fmt.Sprintf("(machine != %q)", m))
	}
	return joinClauses(clauses, " && ")
}

// Prefer renders a rank preferring machines in a group whose name
// matches one of the given identifiers.
//
//	( (machine == "c-upload-1") || (machine == "c-upload-2") )
func (a *Affinity) Prefer(identifiers []string, group string) string {
	var machines []string
	for _, m := range a.Inventory.Machines(group) {
		if containsAny(m, identifiers) {
			machines = append(machines, m)
		}
	}
	sort.Strings(machines)

	clauses := make([]string, 0, len(machines))
	for _, m := range machines {
		clauses = append(clauses, fmt.Sprintf("(machine == %q)", m))
	}
	return joinClauses(clauses, " || ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func joinClauses(clauses []string, op string) string {
	if len(clauses) == 0 {
		return ""
	}
	return "( " + strings.Join(clauses, op) + " )"
}
