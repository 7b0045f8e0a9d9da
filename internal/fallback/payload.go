// Package fallback serves a minimal HTTP status endpoint when the trader
// cannot run, so the deployment platform's health checks keep passing.
package fallback

import "time"

// Fixed identity reported on /status.
const (
	ServiceName = "forex-websocket-trader"
	WrapperName = "python"
)

// ExecutableMissing is the /status executable value. Health checkers key on
// it, so it is the same for every fallback cause.
const ExecutableMissing = "missing"

// State is what the wrapper knew about the trader when it fell back. It only
// changes the free-text message; executable_found and executable are fixed.
type State struct {
	// Located is true when a binary was found but failed to start.
	Located bool

	// Reason is a short machine-friendly cause, e.g. "not_found" or
	// "not_executable".
	Reason string
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	ExecutableFound bool   `json:"executable_found"`
	Timestamp       string `json:"timestamp"`
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	Service    string `json:"service"`
	Wrapper    string `json:"wrapper"`
	Executable string `json:"executable"`
	Port       string `json:"port"`
	Timestamp  string `json:"timestamp"`
}

func (st State) message() string {
	if !st.Located {
		return "Trader executable not found; wrapper fallback server is answering"
	}
	msg := "Trader executable failed to start; wrapper fallback server is answering"
	if st.Reason != "" {
		msg += " (" + st.Reason + ")"
	}
	return msg
}

func newHealthResponse(st State, now time.Time) HealthResponse {
	return HealthResponse{
		Status:          "fallback",
		Message:         st.message(),
		ExecutableFound: false,
		Timestamp:       formatTimestamp(now),
	}
}

func newStatusResponse(st State, port string, now time.Time) StatusResponse {
	return StatusResponse{
		Service:    ServiceName,
		Wrapper:    WrapperName,
		Executable: ExecutableMissing,
		Port:       port,
		Timestamp:  formatTimestamp(now),
	}
}

// formatTimestamp renders now as ISO-8601 with sub-second precision.
func formatTimestamp(now time.Time) string {
	return now.Format(time.RFC3339Nano)
}
