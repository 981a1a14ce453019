package server

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(resolutions)
	prometheus.MustRegister(resolutionFailures)
}

var resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "jcaas",
		Subsystem: "destination",
		Name:      "resolutions_total",
		Help:      "Number of destinations resolved, by runner.",
	},
	[]string{"runner"},
)

var resolutionFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "jcaas",
		Subsystem: "destination",
		Name:      "resolution_failures_total",
		Help:      "Number of failed resolutions, by reason.",
	},
	[]string{"reason"},
)
