// Package influxdb provides InfluxDB v2 connectivity for the sensor simulator.
//
// It wraps the official influxdb-client-go v2 library for connection
// management, synchronous point writes, and health monitoring.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.WritePoint(ctx, "mediciones", tags, fields, ts)
//
// # Error Handling
//
// Writes use the blocking write API: a rejected write comes back as
// ErrWriteFailed on the same call. Nothing is buffered between calls.
package influxdb
