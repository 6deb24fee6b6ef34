package emitter

import "time"

// EffectiveConfig returns the configuration after defaults were applied.
func (e *Emitter) EffectiveConfig() Config {
	return e.cfg
}

// SetClock overrides the timestamp source. Must be called before Run or RunOnce.
func (e *Emitter) SetClock(now func() time.Time) {
	e.now = now
}
