// Package tsdb provides VictoriaMetrics connectivity for the sensor simulator.
//
// It writes InfluxDB line protocol over HTTP to the /write endpoint, which
// lets the simulator target VictoriaMetrics as its primary store instead of
// InfluxDB without changing the wire shape of a reading.
//
// # Usage
//
//	client, err := tsdb.Connect(ctx, cfg.TSDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.WritePoint(ctx, "mediciones", tags, fields, ts)
//
// # Error Handling
//
// Writes are synchronous and unbatched: the HTTP status of the POST is the
// result of the call.
package tsdb
