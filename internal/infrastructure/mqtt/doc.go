// Package mqtt provides MQTT client connectivity for the sensor simulator.
//
// This package manages:
//   - Connection to the broker with auto-reconnect after the first connect
//   - Publishing with QoS acknowledgement
//   - Last Will and Testament (LWT) for offline detection
//   - Retained online/offline status on sensorsim/system/status
//
// Readings are mirrored as JSON to sensorsim/readings/{sensor_id} so that
// live dashboards can follow the feed without querying the store.
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) for brokers outside the local host
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.Reading("SENSOR_001")
//	err = client.Publish(ctx, topic, payload, 1, false)
package mqtt
