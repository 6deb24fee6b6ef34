package sensor

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire names for the persisted point. These are consumed by existing
// dashboards and must not change.
const (
	Measurement = "mediciones"

	TagSensorID = "sensor_id"
	TagLocation = "ubicacion"
	TagCategory = "tipo"

	FieldTemperature = "temperatura"
	FieldHumidity    = "humedad"
	FieldPressure    = "presion"
)

// Identity of the virtual sensor.
const (
	SensorID = "SENSOR_001"
	Location = "Planta_Principal"
	Category = "ambiental"
)

// Reading is one fully assembled, timestamped, tagged sample.
//
// Reading is a value type; once built it is never modified.
type Reading struct {
	SensorID    string
	Location    string
	Category    string
	Temperature float64
	Humidity    float64
	Pressure    float64
	Timestamp   time.Time
}

// NewReading packages v with the fixed sensor identity.
// The timestamp is normalised to UTC.
func NewReading(v Values, ts time.Time) Reading {
	return Reading{
		SensorID:    SensorID,
		Location:    Location,
		Category:    Category,
		Temperature: v.Temperature,
		Humidity:    v.Humidity,
		Pressure:    v.Pressure,
		Timestamp:   ts.UTC(),
	}
}

// Tags returns the point's tag set.
func (r Reading) Tags() map[string]string {
	return map[string]string{
		TagSensorID: r.SensorID,
		TagLocation: r.Location,
		TagCategory: r.Category,
	}
}

// Fields returns the point's field set.
func (r Reading) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldTemperature: r.Temperature,
		FieldHumidity:    r.Humidity,
		FieldPressure:    r.Pressure,
	}
}

// payload is the JSON shape published to message-bus mirrors.
type payload struct {
	Measurement string  `json:"measurement"`
	SensorID    string  `json:"sensor_id"`
	Location    string  `json:"ubicacion"`
	Category    string  `json:"tipo"`
	Temperature float64 `json:"temperatura"`
	Humidity    float64 `json:"humedad"`
	Pressure    float64 `json:"presion"`
	Timestamp   string  `json:"timestamp"`
}

// MarshalJSON encodes the reading using the wire names.
func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(payload{
		Measurement: Measurement,
		SensorID:    r.SensorID,
		Location:    r.Location,
		Category:    r.Category,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Pressure:    r.Pressure,
		Timestamp:   r.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

// String returns a one-line human summary.
func (r Reading) String() string {
	return fmt.Sprintf("%s temperature=%.2f°C humidity=%.2f%% pressure=%.2fhPa at %s",
		r.SensorID, r.Temperature, r.Humidity, r.Pressure,
		r.Timestamp.UTC().Format(time.RFC3339))
}
