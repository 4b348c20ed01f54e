package mqttcore

// sessionState carries the per-connection bookkeeping the engine must
// hold between calls: whether a session is currently established, its
// keep-alive/clean-session parameters, and ping liveness. Grounded on
// the teacher's session.go/session_memory.go field set, collapsed from a
// pluggable Session/SessionStore pair (built for many concurrent broker
// sessions) down to the single embedded struct a blocking client needs —
// there is exactly one session per Client and no disk persistence.
type sessionState struct {
	connected   bool
	keepAlive   uint16
	cleanStart  bool
	pingOut     bool
	lastSent    Timer
	lastReceived Timer
}

func newSessionState(keepAlive uint16, cleanStart bool, timerFactory func() Timer) *sessionState {
	return &sessionState{
		keepAlive:    keepAlive,
		cleanStart:   cleanStart,
		lastSent:     timerFactory(),
		lastReceived: timerFactory(),
	}
}

// resetSendTimer is called after every successful write.
func (s *sessionState) resetSendTimer() {
	s.lastSent.Reset()
}

// resetReceiveTimer is called after every successful frame read.
func (s *sessionState) resetReceiveTimer() {
	s.lastReceived.Reset()
}

// reset clears connection state, called on disconnect or any I/O
// failure inside a command.
func (s *sessionState) reset() {
	s.connected = false
	s.pingOut = false
}
