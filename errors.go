package mqttcore

import "errors"

// Sentinel errors for client command failures - check with errors.Is().
var (
	// ErrNotConnected is returned when a command requires an active session.
	ErrNotConnected = errors.New("mqttcore: not connected")

	// ErrAlreadyConnected is returned when Connect is called on a session
	// that is already connected.
	ErrAlreadyConnected = errors.New("mqttcore: already connected")

	// ErrBufferOverflow is returned when a packet would not fit in the
	// client's fixed send or receive buffer.
	ErrBufferOverflow = errors.New("mqttcore: buffer overflow")

	// ErrCommandTimeout is returned when a blocking command does not see
	// its matching acknowledgement before the configured timer expires.
	ErrCommandTimeout = errors.New("mqttcore: command timed out")

	// ErrHandlerTableFull is returned when Subscribe cannot allocate a
	// local handler slot, even though the broker may already have
	// accepted the subscription.
	ErrHandlerTableFull = errors.New("mqttcore: handler table full")

	// ErrQoS2TableFull names the condition of a full QoS 2 receive-id set.
	// The engine does not return it: an inbound QoS 2 PUBLISH that cannot
	// be tracked is acknowledged with PUBREC but not delivered.
	ErrQoS2TableFull = errors.New("mqttcore: qos2 receive table full")

	// ErrMalformedPacket is returned when a packet read from the
	// transport fails to decode.
	ErrMalformedPacket = errors.New("mqttcore: malformed packet")

	// ErrUnexpectedPacket is returned when the engine is asked to send an
	// acknowledgement of a packet type that is not an ack. Inbound packets
	// with no dispatch rule are ignored, not reported with this error.
	ErrUnexpectedPacket = errors.New("mqttcore: unexpected packet")

	// ErrKeepAliveTimeout names a broker that did not answer a PINGREQ.
	// The engine enforces no ping timeout and does not return it; a
	// missing PINGRESP surfaces only as a later read or command failure.
	ErrKeepAliveTimeout = errors.New("mqttcore: keep-alive timeout")

	// ErrServerDisconnect is what ConnectError and SubscribeError unwrap
	// to when the broker refuses a CONNECT or a subscription. A
	// connection closed by the broker surfaces as the transport's error.
	ErrServerDisconnect = errors.New("mqttcore: server disconnect")

	// ErrInflightBusy is returned when Publish at QoS 1 or 2 is called
	// while the single outbound inflight slot is already occupied.
	ErrInflightBusy = errors.New("mqttcore: inflight slot busy")

	// ErrInvalidTopic is a generic invalid-topic error. Topic validation
	// does not return it; it reports ErrEmptyTopic, ErrInvalidTopicName
	// or ErrInvalidTopicFilter (topic.go).
	ErrInvalidTopic = errors.New("mqttcore: invalid topic")

	// ErrClosed names a client that has been closed. The engine does not
	// return it: Close resets the session, so later commands report
	// ErrNotConnected.
	ErrClosed = errors.New("mqttcore: client closed")
)

// ConnectError reports a CONNACK return code other than accepted.
// Extract with errors.As.
type ConnectError struct {
	ReasonCode byte
}

func (e *ConnectError) Error() string {
	return "mqttcore: connect refused: " + connackReturnCodeString(e.ReasonCode)
}

func (e *ConnectError) Unwrap() error { return ErrServerDisconnect }

// PublishError reports a failed QoS 1/2 publish: the transport broke, or
// the command timer expired before the matching ack arrived.
// Extract with errors.As.
type PublishError struct {
	Topic    string
	PacketID uint16
	Cause    error
}

func (e *PublishError) Error() string {
	return "mqttcore: publish to " + e.Topic + " failed: " + e.Cause.Error()
}

func (e *PublishError) Unwrap() error { return e.Cause }

// SubscribeError reports a SUBSCRIBE whose SUBACK carried a failure code
// (0x80) for one or more filters.
// Extract with errors.As.
type SubscribeError struct {
	Filter string
}

func (e *SubscribeError) Error() string {
	return "mqttcore: subscribe to " + e.Filter + " refused by server"
}

func (e *SubscribeError) Unwrap() error { return ErrServerDisconnect }
