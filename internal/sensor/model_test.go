package sensor

import (
	"math"
	"testing"
)

// scriptedNoise returns pre-recorded draws in order.
type scriptedNoise struct {
	t     *testing.T
	draws []float64
	next  int
}

func (s *scriptedNoise) Uniform(lo, hi float64) float64 {
	s.t.Helper()
	if s.next >= len(s.draws) {
		s.t.Fatalf("scriptedNoise exhausted after %d draws", s.next)
	}
	v := s.draws[s.next]
	s.next++
	if v < lo || v > hi {
		s.t.Fatalf("scripted draw %v outside [%v, %v]", v, lo, hi)
	}
	return v
}

// extremeNoise always returns the upper (or lower) bound.
type extremeNoise struct {
	high bool
}

func (e extremeNoise) Uniform(lo, hi float64) float64 {
	if e.high {
		return hi
	}
	return lo
}

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func hasTwoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func TestNewModel_InitialBaseline(t *testing.T) {
	m := NewModel(extremeNoise{})

	b := m.baseline
	if b.Temperature != InitialTemperature {
		t.Errorf("Temperature baseline = %v, want %v", b.Temperature, InitialTemperature)
	}
	if b.Humidity != InitialHumidity {
		t.Errorf("Humidity baseline = %v, want %v", b.Humidity, InitialHumidity)
	}
}

func TestModel_Next_ScriptedDraws(t *testing.T) {
	noise := &scriptedNoise{t: t, draws: []float64{0.3, -1.0, 0.4, 0.05, 0.2}}
	m := NewModel(noise)

	v := m.Next()

	if v.Temperature != 22.30 {
		t.Errorf("Temperature = %v, want 22.30", v.Temperature)
	}
	if v.Humidity != 59.00 {
		t.Errorf("Humidity = %v, want 59.00", v.Humidity)
	}
	if v.Pressure != 1013.65 {
		t.Errorf("Pressure = %v, want 1013.65", v.Pressure)
	}

	b := m.baseline
	if !approxEqual(b.Temperature, 22.05) {
		t.Errorf("Temperature baseline = %v, want 22.05", b.Temperature)
	}
	if !approxEqual(b.Humidity, 60.20) {
		t.Errorf("Humidity baseline = %v, want 60.20", b.Humidity)
	}

	if noise.next != 5 {
		t.Errorf("draws consumed = %d, want 5", noise.next)
	}
}

func TestModel_Next_ClampsAtUpperBound(t *testing.T) {
	m := NewModel(extremeNoise{high: true})

	for i := 0; i < 10000; i++ {
		m.Next()
	}

	b := m.baseline
	if b.Temperature != MaxTemperature {
		t.Errorf("Temperature baseline = %v, want %v", b.Temperature, MaxTemperature)
	}
	if b.Humidity != MaxHumidity {
		t.Errorf("Humidity baseline = %v, want %v", b.Humidity, MaxHumidity)
	}

	v := m.Next()
	if v.Temperature != 30.5 {
		t.Errorf("Temperature = %v, want 30.5", v.Temperature)
	}
	if v.Humidity != 82 {
		t.Errorf("Humidity = %v, want 82", v.Humidity)
	}
	if v.Pressure != 1014.25 {
		t.Errorf("Pressure = %v, want 1014.25", v.Pressure)
	}
}

func TestModel_Next_ClampsAtLowerBound(t *testing.T) {
	m := NewModel(extremeNoise{high: false})

	for i := 0; i < 10000; i++ {
		m.Next()
	}

	b := m.baseline
	if b.Temperature != MinTemperature {
		t.Errorf("Temperature baseline = %v, want %v", b.Temperature, MinTemperature)
	}
	if b.Humidity != MinHumidity {
		t.Errorf("Humidity baseline = %v, want %v", b.Humidity, MinHumidity)
	}
}

func TestModel_Next_BoundsHold(t *testing.T) {
	seeds := []uint64{1, 42, 20261019, math.MaxUint64}

	for _, seed := range seeds {
		m := NewModel(NewRandNoise(seed))
		for i := 0; i < 50000; i++ {
			v := m.Next()

			if v.Temperature < 17.5 || v.Temperature > 30.5 {
				t.Fatalf("seed %d cycle %d: temperature %v out of range", seed, i, v.Temperature)
			}
			if v.Humidity < 38 || v.Humidity > 82 {
				t.Fatalf("seed %d cycle %d: humidity %v out of range", seed, i, v.Humidity)
			}
			if v.Pressure < 1012.25 || v.Pressure > 1014.25 {
				t.Fatalf("seed %d cycle %d: pressure %v out of range", seed, i, v.Pressure)
			}
			if !hasTwoDecimals(v.Temperature) || !hasTwoDecimals(v.Humidity) || !hasTwoDecimals(v.Pressure) {
				t.Fatalf("seed %d cycle %d: values not rounded to 2 decimals: %+v", seed, i, v)
			}

			b := m.baseline
			if b.Temperature < MinTemperature || b.Temperature > MaxTemperature {
				t.Fatalf("seed %d cycle %d: temperature baseline %v escaped clamp", seed, i, b.Temperature)
			}
			if b.Humidity < MinHumidity || b.Humidity > MaxHumidity {
				t.Fatalf("seed %d cycle %d: humidity baseline %v escaped clamp", seed, i, b.Humidity)
			}
		}
	}
}

func TestRandNoise_Deterministic(t *testing.T) {
	a := NewModel(NewRandNoise(7))
	b := NewModel(NewRandNoise(7))

	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("cycle %d: %+v != %+v with identical seeds", i, va, vb)
		}
	}
}

func TestRandNoise_UniformRange(t *testing.T) {
	n := NewRandNoise(99)
	for i := 0; i < 10000; i++ {
		v := n.Uniform(-0.3, 0.3)
		if v < -0.3 || v > 0.3 {
			t.Fatalf("Uniform(-0.3, 0.3) = %v", v)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{name: "already rounded", input: 22.3, want: 22.3},
		{name: "rounds down", input: 59.004, want: 59.0},
		{name: "rounds up", input: 1013.656, want: 1013.66},
		{name: "negative", input: -1.234, want: -1.23},
		{name: "zero", input: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.input); got != tt.want {
				t.Errorf("Round2(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{name: "inside", v: 25, want: 25},
		{name: "below", v: 17.9, want: 18},
		{name: "above", v: 30.0001, want: 30},
		{name: "on lower edge", v: 18, want: 18},
		{name: "on upper edge", v: 30, want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clamp(tt.v, 18, 30); got != tt.want {
				t.Errorf("clamp(%v, 18, 30) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
