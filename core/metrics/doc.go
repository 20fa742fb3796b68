// Package metrics defines interfaces and helpers for recording robot
// observability data. Sinks like the Prometheus and InfluxDB implementations
// record status snapshots, commands and reachability transitions and can be
// combined with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package metrics
