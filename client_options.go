package mqttcore

import (
	"time"
)

// Default construction parameters, used when the corresponding Option is
// not supplied.
const (
	DefaultBufferSize     = 1024 // C: send/recv buffer capacity in bytes
	DefaultHandlerSlots   = 16   // H: handler table capacity
	DefaultQoS2Slots      = 8    // Q: QoS 2 receive-id set capacity
	DefaultKeepAlive      = 60   // seconds
	DefaultCommandTimeout = 10 * time.Second
)

// clientOptions holds the construction parameters for a Client. All fields
// are fixed for the lifetime of the Client; there is no reconfiguration
// after Dial.
type clientOptions struct {
	clientID   string
	username   string
	password   []byte
	keepAlive  uint16
	cleanStart bool

	bufferSize   int
	handlerSlots int
	qos2Slots    int

	commandTimeout time.Duration

	will *WillMessage

	logger  Logger
	metrics Metrics

	timerFactory func() Timer

	authProvider AuthProvider

	producerInterceptors []ProducerInterceptor
	consumerInterceptors []ConsumerInterceptor
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		keepAlive:      DefaultKeepAlive,
		cleanStart:     true,
		bufferSize:     DefaultBufferSize,
		handlerSlots:   DefaultHandlerSlots,
		qos2Slots:      DefaultQoS2Slots,
		commandTimeout: DefaultCommandTimeout,
		logger:         NewNoOpLogger(),
		metrics:        &NoOpMetrics{},
		timerFactory:   func() Timer { return NewMonotonicTimer() },
	}
}

// Option configures a Client. Options are applied in order at construction
// time only.
type Option func(*clientOptions)

// WithClientID sets the MQTT client identifier sent in CONNECT.
func WithClientID(id string) Option {
	return func(o *clientOptions) { o.clientID = id }
}

// WithCredentials sets the username/password carried in CONNECT. password
// may be an opaque byte blob, e.g. the output of a SCRAM derivation (see
// auth.go).
func WithCredentials(username string, password []byte) Option {
	return func(o *clientOptions) {
		o.username = username
		o.password = password
	}
}

// WithKeepAlive sets the keep-alive interval in seconds (§4.6).
func WithKeepAlive(seconds uint16) Option {
	return func(o *clientOptions) { o.keepAlive = seconds }
}

// WithCleanStart sets the CONNECT clean-session flag.
func WithCleanStart(clean bool) Option {
	return func(o *clientOptions) { o.cleanStart = clean }
}

// WithBufferSize sets the fixed send/receive buffer capacity C in bytes
// (§3). A PUBLISH whose encoded form exceeds C fails locally with
// ErrBufferOverflow rather than ever being partially sent.
func WithBufferSize(size int) Option {
	return func(o *clientOptions) { o.bufferSize = size }
}

// WithHandlerSlots sets the handler table capacity H (§3, §4.3). Subscribe
// beyond this many distinct filters fails with ErrHandlerTableFull.
func WithHandlerSlots(n int) Option {
	return func(o *clientOptions) { o.handlerSlots = n }
}

// WithQoS2Slots sets the QoS 2 receive-id set capacity Q (§3, §4.5). An
// inbound QoS 2 PUBLISH beyond this many concurrently unreleased packet
// IDs is still acknowledged with PUBREC but is not delivered to any
// handler; no error is returned.
func WithQoS2Slots(n int) Option {
	return func(o *clientOptions) { o.qos2Slots = n }
}

// WithCommandTimeout sets how long a blocking command (Connect, Subscribe,
// Unsubscribe, Publish at QoS 1/2) waits for its matching acknowledgement
// before returning ErrCommandTimeout (§4.7).
func WithCommandTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.commandTimeout = d }
}

// WithWill sets the last-will message carried in CONNECT.
func WithWill(will *WillMessage) Option {
	return func(o *clientOptions) { o.will = will }
}

// WithLogger sets the Logger used for the engine's log sites.
func WithLogger(l Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the Metrics sink used for engine instrumentation.
func WithMetrics(m Metrics) Option {
	return func(o *clientOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTimerFactory overrides how the engine constructs its countdown Timer
// (§6.3). Tests substitute a fake-clock Timer here.
func WithTimerFactory(f func() Timer) Option {
	return func(o *clientOptions) {
		if f != nil {
			o.timerFactory = f
		}
	}
}

// WithAuthProvider sets the AuthProvider used to construct the CONNECT
// username/password pair (e.g. SCRAM; see scram.go), overriding
// WithCredentials.
func WithAuthProvider(p AuthProvider) Option {
	return func(o *clientOptions) { o.authProvider = p }
}

// WithProducerInterceptors sets the interceptors run over an outbound
// message before PUBLISH is framed.
func WithProducerInterceptors(interceptors ...ProducerInterceptor) Option {
	return func(o *clientOptions) {
		o.producerInterceptors = append(o.producerInterceptors, interceptors...)
	}
}

// WithConsumerInterceptors sets the interceptors run over an inbound
// message before it reaches a handler.
func WithConsumerInterceptors(interceptors ...ConsumerInterceptor) Option {
	return func(o *clientOptions) {
		o.consumerInterceptors = append(o.consumerInterceptors, interceptors...)
	}
}

// commandTimeoutMs returns the configured command timeout in
// milliseconds, the unit the engine's deadline plumbing uses.
func (o *clientOptions) commandTimeoutMs() int {
	return int(o.commandTimeout.Milliseconds())
}

func applyOptions(opts ...Option) *clientOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
