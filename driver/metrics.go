package driver

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// metrics follows xuperchain's matrics.ServerMetrics idea with plain
// package-level collector vars (no struct), constructed once and handed
// out by Metrics, registered against whatever prometheus.Registerer the embedding
// process uses (the driver itself never calls prometheus.MustRegister, so
// tests can construct a Driver without a global registry side effect).
var (
	deinstrumentRounds = prom.NewCounter(prom.CounterOpts{
		Name: "covprobe_deinstrument_rounds_total",
		Help: "Number of deinstrument rounds the driver has run.",
	})
	sitesDeinstrumented = prom.NewCounterVec(prom.CounterOpts{
		Name: "covprobe_sites_deinstrumented_total",
		Help: "Number of probe sites removed by a deinstrument round, by file.",
	}, []string{"filename"})
	activeCodeUnits = prom.NewGauge(prom.GaugeOpts{
		Name: "covprobe_active_code_units",
		Help: "Number of CodeUnits currently registered with the driver.",
	})
)

// Metrics returns the collectors so the embedding process can register
// them on its own prometheus.Registerer (package-level vars are shared
// across Drivers in one process, same as matrics.DefaultServerMetrics).
func Metrics() []prom.Collector {
	return []prom.Collector{deinstrumentRounds, sitesDeinstrumented, activeCodeUnits}
}
