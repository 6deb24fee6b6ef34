// Package sink adapts the infrastructure clients to the emitter's Sink and
// Session contracts.
//
// Primary stores:
//   - Influx writes each reading as one point through the InfluxDB v2
//     blocking write API
//   - VictoriaMetrics posts the same point as line protocol
//
// Mirrors:
//   - MQTT publishes the JSON reading to sensorsim/readings/{sensor_id}
//   - Kafka produces the JSON reading keyed by sensor id
//   - Journal records the reading in the local SQLite journal
//
// Fanout combines one primary with any number of mirrors. Only the
// primary decides whether a write succeeded; a failing mirror is logged
// and skipped. Mirrors receive a reading only after the primary accepted it.
package sink
