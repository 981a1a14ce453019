package config

import (
	"time"

	"github.com/usegalaxy-eu/jcaas/cluster"
	"github.com/usegalaxy-eu/jcaas/destination"
	"github.com/usegalaxy-eu/jcaas/logger"
)

// DefaultConfig returns configuration with simple defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			HostName: "localhost",
			HTTPPort: "8090",
			Logger:   logger.DefaultConfig(),
		},
		Gateway: Gateway{
			URL:      "http://127.0.0.1:8090",
			Timeout:  Duration(time.Second),
			MaxTries: 8,
		},
		Cluster: Cluster{
			StatusCommand:     cluster.DefaultStatusCommand,
			InventoryTTL:      Duration(cluster.DefaultStaleInterval),
			SGEDisableFile:    cluster.DefaultSGEDisableFile,
			CondorDisableFile: cluster.DefaultCondorDisableFile,
		},
		AuthorizedEmail: "hxr@informatik.uni-freiburg.de",
	}
}

// DefaultSpecifications returns the built-in backend base templates,
// used when no specification file is configured.
//
// The following tokens are substituted into the env and param values:
//
//	PRIORITY           nice-style priority, higher is lower priority
//	MEMORY             memory request, e.g. "4G" or "2048M"
//	PARALLELISATION    core request in the backend's syntax
//	NATIVE_SPEC_EXTRA  extra flags appended to the SGE native spec
func DefaultSpecifications() map[string]destination.Template {
	return map[string]destination.Template{
		"sge": {
			Env: map[string]string{
				"_JAVA_OPTIONS": "-Xmx{MEMORY} -Xms256m",
			},
			Params: map[string]string{
				"nativeSpecification": "-q galaxy1.q -p -{PRIORITY} -l h_vmem={MEMORY}" +
					" -v _JAVA_OPTIONS -v TEMP -v TMPDIR -v PATH" +
					" {PARALLELISATION} -soft {NATIVE_SPEC_EXTRA}",
			},
		},
		"condor": {
			Env: map[string]string{},
			Params: map[string]string{
				"priority":       "-{PRIORITY}",
				"request_memory": "{MEMORY}",
				"request_cpus":   "{PARALLELISATION}",
			},
		},
		"local": {
			Env:    map[string]string{},
			Params: map[string]string{},
		},
	}
}
