package cluster

import "os"

// Default kill-switch marker files. Creating one of these administratively
// drains a backend without restarting anything.
const (
	DefaultSGEDisableFile    = "/usr/local/galaxy/temporarily-disable-drmaa"
	DefaultCondorDisableFile = "/usr/local/galaxy/temporarily-disable-condor"
)

// Probes answers whether each backend is currently accepting work. Both
// checks are cheap and re-evaluated on every resolution.
type Probes struct {
	SGEDisableFile    string
	CondorDisableFile string
	Probe             StatusProbe
}

// NewProbes returns Probes with default kill-switch paths and a
// condor_status-backed probe.
func NewProbes() *Probes {
	return &Probes{
		SGEDisableFile:    DefaultSGEDisableFile,
		CondorDisableFile: DefaultCondorDisableFile,
		Probe:             &CondorProbe{},
	}
}

// SGEAvailable is true unless the kill-switch marker exists.
func (p *Probes) SGEAvailable() bool {
	if _, err := os.Stat(p.SGEDisableFile); err == nil {
		return false
	}
	return true
}

// CondorAvailable is false when the kill-switch marker exists, the
// status binary is missing, the query fails, or the executor pool is
// empty.
func (p *Probes) CondorAvailable() bool {
	if _, err := os.Stat(p.CondorDisableFile); err == nil {
		return false
	}
	return p.Probe.ExecutorsOnline()
}
