// Package metrics exposes simulator telemetry in the Prometheus text format.
//
// Two sources feed the registry:
//   - Emission counters are read from the emitter at scrape time
//   - Per-sink write latency and outcome are observed as writes happen
//
// Each Metrics value owns a private registry, so several instances (tests,
// one per run) never collide on the global default registry.
//
// Usage:
//
//	m := metrics.New("1.0.0")
//	m.RegisterEmission(em)
//	primary := sink.NewObserved(sink.NewInflux(cfg.InfluxDB), m)
//	router.Handle("/metrics", m.Handler())
package metrics
