package mqttcore

// WillMessage is the last-will message carried opaquely in CONNECT
// (spec.md §1: "last-will configuration ... passed through the Connect
// options struct opaquely"). Trimmed from the teacher's v5 WillMessage:
// MQTT 3.1.1 has no will properties (delay interval, payload format,
// message expiry, content type, correlation data, user properties) —
// those are v5-only and dropped here.
type WillMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// ToMessage converts a WillMessage to a Message, e.g. for a local
// handler that wants to observe the will configured for this session.
func (w *WillMessage) ToMessage() *Message {
	return &Message{
		Topic:   w.Topic,
		Payload: w.Payload,
		QoS:     w.QoS,
		Retain:  w.Retain,
	}
}

// Validate validates the will message against the same rules a PUBLISH
// payload must satisfy.
func (w *WillMessage) Validate() error {
	if err := ValidateTopicName(w.Topic); err != nil {
		return err
	}
	if w.QoS > 2 {
		return ErrInvalidQoS
	}
	return nil
}
