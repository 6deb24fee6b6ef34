package mqtt

import "fmt"

// Topic prefixes for simulator messages.
const (
	// TopicPrefix is the root of every simulator topic.
	TopicPrefix = "sensorsim"

	// TopicPrefixReadings is the base for per-sensor reading topics.
	TopicPrefixReadings = TopicPrefix + "/readings"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for simulator MQTT topics.
//
//	topic := mqtt.Topics{}.Reading("SENSOR_001")
//	// Returns: "sensorsim/readings/SENSOR_001"
type Topics struct{}

// Reading returns the topic a sensor's readings are mirrored to.
//
// Example: sensorsim/readings/SENSOR_001
func (Topics) Reading(sensorID string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixReadings, sensorID)
}

// SystemStatus returns the retained online/offline status topic, also used
// as the Last Will topic.
//
// Example: sensorsim/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
