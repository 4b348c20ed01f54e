package mqttcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckKeepalive_DisabledWhenZero(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)
	c.session.keepAlive = 0

	require.NoError(t, c.checkKeepalive())
	assert.Empty(t, transport.written)
}

func TestCheckKeepalive_SendsPingOnceIdleExceeded(t *testing.T) {
	transport := &fakeTransport{}
	sendTimer := &fakeTimer{elapsed: 120 * time.Second}
	recvTimer := &fakeTimer{elapsed: 120 * time.Second}

	c := newTestClient(transport, WithKeepAlive(60))
	c.session.lastSent = sendTimer
	c.session.lastReceived = recvTimer

	require.NoError(t, c.checkKeepalive())
	assert.NotEmpty(t, transport.written)
	assert.True(t, c.session.pingOut)

	// a second call while a ping is already outstanding must not send
	// another PINGREQ.
	transport.written = nil
	require.NoError(t, c.checkKeepalive())
	assert.Empty(t, transport.written)
}

func TestCheckKeepalive_NoPingWhileWithinIdleWindow(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, WithKeepAlive(60))
	c.session.lastSent = &fakeTimer{elapsed: 1 * time.Second}
	c.session.lastReceived = &fakeTimer{elapsed: 1 * time.Second}

	require.NoError(t, c.checkKeepalive())
	assert.Empty(t, transport.written)
}

func TestHandlePingresp_ClearsOutstandingFlag(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)
	c.session.pingOut = true

	c.handlePingresp()
	assert.False(t, c.session.pingOut)
}
