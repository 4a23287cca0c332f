package feed

// ConnState is the feed client's connection state.
type ConnState string

const (
	// StateDisconnected is the initial state, and the state after Close.
	StateDisconnected ConnState = "disconnected"
	// StateConnecting means a dial is in flight.
	StateConnecting ConnState = "connecting"
	// StateOpen means the socket is live and frames are flowing.
	StateOpen ConnState = "open"
	// StateRetrying means the socket dropped and a reconnect is scheduled.
	StateRetrying ConnState = "retrying"
	// StateConnectionLost is the terminal state after exhausting automatic
	// retries. Only an explicit Reconnect leaves it.
	StateConnectionLost ConnState = "connection_lost"
)

// Status is the externally visible connection status.
type Status struct {
	State ConnState
	// Attempts is the number of failed connection attempts since the last
	// successful open.
	Attempts int
	// Err is the most recent transport error, nil while healthy.
	Err error
}
