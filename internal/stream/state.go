package stream

// State is the lifecycle position of a connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateSubscribing
	StateStreaming
	StateClosing
	StateReconnecting
	StateExited
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribing:
		return "subscribing"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	case StateReconnecting:
		return "reconnecting"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}
