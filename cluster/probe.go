// Package cluster knows about the machines behind the condor backend:
// whether the backends are accepting work, which machines exist, and how
// to build affinity expressions over them.
package cluster

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/usegalaxy-eu/jcaas/logger"
)

var log = logger.New("cluster")

// DefaultStatusCommand is the scheduler status binary queried for
// executor and machine state.
const DefaultStatusCommand = "condor_status"

// StatusProbe queries the cluster scheduler for live state. Failures
// degrade to "nothing there"; they are never errors.
type StatusProbe interface {
	// ListMachines returns the names of all machines known to the
	// scheduler. A failed query returns an empty list.
	ListMachines() []string
	// ExecutorsOnline reports whether the scheduler has any executors
	// accepting work.
	ExecutorsOnline() bool
}

// CondorProbe is a StatusProbe backed by the condor_status command.
type CondorProbe struct {
	// Command overrides the status binary. Empty means condor_status.
	Command string
}

func (p *CondorProbe) command() string {
	if p.Command != "" {
		return p.Command
	}
	return DefaultStatusCommand
}

// ListMachines runs "condor_status -long -attributes Machine" and parses
// the machine names out of the classad output.
func (p *CondorProbe) ListMachines() []string {
	out, err := exec.Command(p.command(), "-long", "-attributes", "Machine").Output()
	if err != nil {
		// Missing binary or failed call both mean no machines.
		log.Debug("Machine listing failed", "command", p.command(), "error", err)
		return nil
	}
	return parseMachineList(out)
}

// ExecutorsOnline runs the status command and treats empty output as an
// offline pool.
func (p *CondorProbe) ExecutorsOnline() bool {
	out, err := exec.Command(p.command()).Output()
	if err != nil {
		return false
	}
	return len(bytes.TrimSpace(out)) > 0
}

// parseMachineList extracts machine names from classad blocks of the
// form `Machine = "host-name"`, separated by blank lines.
func parseMachineList(out []byte) []string {
	var machines []string
	for _, block := range strings.Split(strings.TrimSpace(string(out)), "\n\n") {
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "Machine = ") {
				continue
			}
			name := strings.TrimPrefix(line, "Machine = ")
			name = strings.Trim(name, `"`)
			if name != "" {
				machines = append(machines, name)
			}
		}
	}
	return machines
}
