// Package util contains shared wiring for the CLI commands.
package util

import (
	"time"

	"github.com/usegalaxy-eu/jcaas/cluster"
	"github.com/usegalaxy-eu/jcaas/config"
	"github.com/usegalaxy-eu/jcaas/destination"
)

// NewResolver wires up a local resolution pipeline from configuration:
// the condor status probe, the TTL machine inventory, the affinity
// builder and the availability checks.
func NewResolver(conf config.Config, cat *config.Catalog) *destination.Resolver {
	probe := &cluster.CondorProbe{Command: conf.Cluster.StatusCommand}

	inventory := cluster.NewInventory(probe)
	if ttl := time.Duration(conf.Cluster.InventoryTTL); ttl > 0 {
		inventory.TTL = ttl
	}

	probes := cluster.NewProbes()
	probes.Probe = probe
	if conf.Cluster.SGEDisableFile != "" {
		probes.SGEDisableFile = conf.Cluster.SGEDisableFile
	}
	if conf.Cluster.CondorDisableFile != "" {
		probes.CondorDisableFile = conf.Cluster.CondorDisableFile
	}

	return &destination.Resolver{
		Catalog:         cat,
		Affinity:        &cluster.Affinity{Inventory: inventory},
		Status:          probes,
		AuthorizedEmail: conf.AuthorizedEmail,
	}
}
