// Package kafka provides a Kafka producer for mirroring simulator readings.
//
// It wraps segmentio/kafka-go's Writer with a reachability check on
// connect, synchronous keyed publishing, and an idempotent Close.
//
// # Usage
//
//	client, err := kafka.Connect(ctx, cfg.Kafka)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Publish(ctx, []byte("SENSOR_001"), payload, ts)
package kafka
