// Package supervisor launches the trader process and relays its output.
package supervisor

// State represents the current state of the supervised process.
type State int

const (
	// StateCreated is the initial state before a launch is attempted.
	StateCreated State = iota

	// StateStarting indicates the process is being spawned.
	StateStarting

	// StateRunning indicates the process is running and output is relayed.
	StateRunning

	// StateExited indicates the process ran and has exited.
	StateExited

	// StateFailed indicates the launch failed; the process never ran.
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
