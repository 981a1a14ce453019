package cluster

import (
	"strings"
	"sync"
	"time"
)

// DefaultStaleInterval is how long a cached machine list stays fresh.
const DefaultStaleInterval = 60 * time.Second

// Inventory is a TTL-refreshed cache of cluster machine names, one list
// per machine group. The only mutable shared state in the whole
// resolution pipeline; the probe result is eventually consistent, so a
// stale snapshot is fine.
type Inventory struct {
	Probe StatusProbe
	TTL   time.Duration

	mtx    sync.Mutex
	groups map[string]*groupEntry
}

type groupEntry struct {
	machines []string
	updated  time.Time
}

// NewInventory returns an inventory over the given probe with the
// default staleness interval.
func NewInventory(probe StatusProbe) *Inventory {
	return &Inventory{
		Probe:  probe,
		TTL:    DefaultStaleInterval,
		groups: map[string]*groupEntry{},
	}
}

// Machines returns the machines belonging to a group, refreshing the
// cached list when it is more than TTL out of date. A group member is a
// machine whose name contains the literal marker "-<group>-".
func (inv *Inventory) Machines(group string) []string {
	inv.mtx.Lock()
	defer inv.mtx.Unlock()

	if inv.groups == nil {
		inv.groups = map[string]*groupEntry{}
	}
	entry, ok := inv.groups[group]
	if !ok {
		entry = &groupEntry{}
		inv.groups[group] = entry
	}

	if time.Since(entry.updated) > inv.ttl() {
		marker := "-" + group + "-"
		var keep []string
		for _, m := range inv.Probe.ListMachines() {
			if strings.Contains(m, marker) {
				keep = append(keep, m)
			}
		}
		entry.machines = keep
		entry.updated = time.Now()
	}

	out := make([]string, len(entry.machines))
	copy(out, entry.machines)
	return out
}

func (inv *Inventory) ttl() time.Duration {
	if inv.TTL > 0 {
		return inv.TTL
	}
	return DefaultStaleInterval
}
