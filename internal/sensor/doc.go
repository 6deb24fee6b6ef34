// Package sensor models the virtual environmental sensor.
//
// It owns the value model that produces correlated, bounded readings and the
// Reading type that is handed to the stores.
//
// # Value Model
//
// Each quantity has a centre value. Temperature and humidity centres (the
// baseline) drift slowly and are clamped to realistic ranges; pressure has a
// fixed centre. Every call to Model.Next emits centre + instantaneous noise,
// rounded to two decimals, then drifts the baseline:
//
//	temperature  centre 22.0 (drifts in [18, 30])   noise ±0.5   drift ±0.1
//	humidity     centre 60.0 (drifts in [40, 80])   noise ±2     drift ±0.3
//	pressure     centre 1013.25 (fixed)             noise ±1
//
// Readings therefore look noisy sample-to-sample but trend smoothly over
// minutes, and the trend never runs away.
//
// # Usage
//
//	model := sensor.NewModel(sensor.NewRandNoiseFromTime())
//	v := model.Next()
//	r := sensor.NewReading(v, time.Now().UTC())
//
// # Thread Safety
//
// Model is not safe for concurrent use. It is owned by a single emission
// loop. Reading is an immutable value and may be shared freely.
package sensor
