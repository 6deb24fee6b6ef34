package sensor

import "math"

// Centre values and ranges for each quantity.
const (
	// InitialTemperature is the temperature baseline at startup (°C).
	InitialTemperature = 22.0

	// InitialHumidity is the humidity baseline at startup (%).
	InitialHumidity = 60.0

	// PressureCentre is the fixed pressure centre (hPa). Pressure does not drift.
	PressureCentre = 1013.25

	// MinTemperature and MaxTemperature bound the temperature baseline.
	MinTemperature = 18.0
	MaxTemperature = 30.0

	// MinHumidity and MaxHumidity bound the humidity baseline.
	MinHumidity = 40.0
	MaxHumidity = 80.0
)

// Per-sample noise and per-sample baseline drift amplitudes.
// Both are drawn uniformly from [-x, +x].
const (
	TemperatureNoise = 0.5
	HumidityNoise    = 2.0
	PressureNoise    = 1.0

	TemperatureDrift = 0.1
	HumidityDrift    = 0.3
)

// BaselineState holds the slowly drifting centre of the quantities that drift.
type BaselineState struct {
	Temperature float64 // °C, always within [MinTemperature, MaxTemperature]
	Humidity    float64 // %, always within [MinHumidity, MaxHumidity]
}

// Values is one sample of the three quantities, already rounded to two decimals.
type Values struct {
	Temperature float64
	Humidity    float64
	Pressure    float64
}

// Noise is a source of uniformly distributed random values.
//
// Uniform returns a value in [lo, hi]. Implementations used in tests may
// return scripted values instead.
type Noise interface {
	Uniform(lo, hi float64) float64
}

// Model produces sensor values from an evolving baseline.
//
// Not safe for concurrent use.
type Model struct {
	noise    Noise
	baseline BaselineState
}

// NewModel creates a Model with the startup baseline (22.0 °C, 60.0 %).
func NewModel(noise Noise) *Model {
	return &Model{
		noise: noise,
		baseline: BaselineState{
			Temperature: InitialTemperature,
			Humidity:    InitialHumidity,
		},
	}
}

// Next produces one sample and advances the baseline.
//
// The draw order is fixed: temperature noise, humidity noise, pressure noise,
// temperature drift, humidity drift. Emitted values are taken from the
// baseline before it drifts.
func (m *Model) Next() Values {
	tNoise := m.noise.Uniform(-TemperatureNoise, TemperatureNoise)
	hNoise := m.noise.Uniform(-HumidityNoise, HumidityNoise)
	pNoise := m.noise.Uniform(-PressureNoise, PressureNoise)

	v := Values{
		Temperature: Round2(m.baseline.Temperature + tNoise),
		Humidity:    Round2(m.baseline.Humidity + hNoise),
		Pressure:    Round2(PressureCentre + pNoise),
	}

	m.baseline.Temperature += m.noise.Uniform(-TemperatureDrift, TemperatureDrift)
	m.baseline.Humidity += m.noise.Uniform(-HumidityDrift, HumidityDrift)

	m.baseline.Temperature = clamp(m.baseline.Temperature, MinTemperature, MaxTemperature)
	m.baseline.Humidity = clamp(m.baseline.Humidity, MinHumidity, MaxHumidity)

	return v
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clamp pulls v onto the nearest boundary of [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
