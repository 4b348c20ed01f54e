package mqttcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyOptions_Defaults(t *testing.T) {
	o := applyOptions()

	assert.Equal(t, uint16(DefaultKeepAlive), o.keepAlive)
	assert.True(t, o.cleanStart)
	assert.Equal(t, DefaultBufferSize, o.bufferSize)
	assert.Equal(t, DefaultHandlerSlots, o.handlerSlots)
	assert.Equal(t, DefaultQoS2Slots, o.qos2Slots)
	assert.Equal(t, DefaultCommandTimeout, o.commandTimeout)
	assert.NotNil(t, o.logger)
	assert.NotNil(t, o.metrics)
	assert.NotNil(t, o.timerFactory)
}

func TestApplyOptions_OverridesApplyInOrder(t *testing.T) {
	o := applyOptions(
		WithClientID("dev-1"),
		WithCredentials("alice", []byte("pw")),
		WithKeepAlive(30),
		WithCleanStart(false),
		WithBufferSize(256),
		WithHandlerSlots(4),
		WithQoS2Slots(2),
		WithCommandTimeout(5*time.Second),
	)

	assert.Equal(t, "dev-1", o.clientID)
	assert.Equal(t, "alice", o.username)
	assert.Equal(t, []byte("pw"), o.password)
	assert.Equal(t, uint16(30), o.keepAlive)
	assert.False(t, o.cleanStart)
	assert.Equal(t, 256, o.bufferSize)
	assert.Equal(t, 4, o.handlerSlots)
	assert.Equal(t, 2, o.qos2Slots)
	assert.Equal(t, 5*time.Second, o.commandTimeout)
}

func TestApplyOptions_CommandTimeoutMs(t *testing.T) {
	o := applyOptions(WithCommandTimeout(1500 * time.Millisecond))
	assert.Equal(t, 1500, o.commandTimeoutMs())
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	o := applyOptions(WithLogger(nil))
	assert.NotNil(t, o.logger)
}

func TestWithMetrics_IgnoresNil(t *testing.T) {
	o := applyOptions(WithMetrics(nil))
	assert.NotNil(t, o.metrics)
}

func TestWithTimerFactory_IgnoresNil(t *testing.T) {
	o := applyOptions(WithTimerFactory(nil))
	assert.NotNil(t, o.timerFactory)
}

func TestWithTimerFactory_OverridesDefault(t *testing.T) {
	called := false
	o := applyOptions(WithTimerFactory(func() Timer {
		called = true
		return &fakeTimer{}
	}))

	o.timerFactory()
	assert.True(t, called)
}

func TestWithProducerConsumerInterceptors_Accumulate(t *testing.T) {
	o := applyOptions(
		WithProducerInterceptors(dropAllProducerInterceptor{}),
		WithProducerInterceptors(dropAllProducerInterceptor{}),
		WithConsumerInterceptors(dropAllConsumerInterceptor{}),
	)

	assert.Len(t, o.producerInterceptors, 2)
	assert.Len(t, o.consumerInterceptors, 1)
}

func TestWithAuthProvider_OverridesCredentials(t *testing.T) {
	provider := &StaticAuthProvider{Username: "bob"}
	o := applyOptions(WithCredentials("alice", nil), WithAuthProvider(provider))

	assert.Equal(t, "alice", o.username, "WithCredentials still sets the plain fields")
	assert.Equal(t, provider, o.authProvider)
}
