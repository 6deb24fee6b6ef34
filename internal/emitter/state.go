package emitter

// State is the lifecycle state of an Emitter.
type State int32

// Lifecycle states. Stopped and FatalFailed are terminal for a run.
const (
	StateIdle State = iota
	StateConnecting
	StateRunning
	StateStopped
	StateFatalFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFatalFailed:
		return "fatal_failed"
	default:
		return "unknown"
	}
}
