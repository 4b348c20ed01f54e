package mqttcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPublish_QoS0_NoAck(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)

	var got *Message
	c.handlers.setDefault(func(msg *Message) { got = msg })

	err := c.dispatchPublish(&PublishPacket{Topic: "a/b", Payload: []byte("x"), QoS: 0})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a/b", got.Topic)
	assert.Empty(t, transport.written)
}

func TestDispatchPublish_QoS1_SendsPuback(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)

	called := false
	c.handlers.setDefault(func(*Message) { called = true })

	err := c.dispatchPublish(&PublishPacket{Topic: "a/b", QoS: 1, ID: 9})
	require.NoError(t, err)
	assert.True(t, called)

	decoded, _, err := ReadPacket(newBytesReader(transport.written), 0)
	require.NoError(t, err)
	ack := decoded.(*PubackPacket)
	assert.Equal(t, uint16(9), ack.ID)
}

func TestDispatchPublish_QoS2_DedupsSecondDelivery(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)

	calls := 0
	c.handlers.setDefault(func(*Message) { calls++ })

	require.NoError(t, c.dispatchPublish(&PublishPacket{Topic: "a/b", QoS: 2, ID: 3}))
	assert.Equal(t, 1, calls)

	transport.written = nil
	require.NoError(t, c.dispatchPublish(&PublishPacket{Topic: "a/b", QoS: 2, ID: 3}))
	assert.Equal(t, 1, calls, "duplicate qos2 delivery must not reach the handler again")

	decoded, _, err := ReadPacket(newBytesReader(transport.written), 0)
	require.NoError(t, err)
	assert.Equal(t, PacketPUBREC, decoded.Type(), "duplicate must still be acked")
}

func TestDispatchPublish_QoS2_TableFullStillAcks(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, WithQoS2Slots(0))

	called := false
	c.handlers.setDefault(func(*Message) { called = true })

	err := c.dispatchPublish(&PublishPacket{Topic: "a/b", QoS: 2, ID: 1})
	require.NoError(t, err)
	assert.False(t, called, "a qos2 delivery that can't be tracked is not delivered to the handler")

	decoded, _, err := ReadPacket(newBytesReader(transport.written), 0)
	require.NoError(t, err)
	assert.Equal(t, PacketPUBREC, decoded.Type())
}

type dropAllConsumerInterceptor struct{}

func (dropAllConsumerInterceptor) OnConsume(*Message) *Message { return nil }

func TestDispatchPublish_ConsumerInterceptorDropsButStillAcks(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, WithConsumerInterceptors(dropAllConsumerInterceptor{}))

	called := false
	c.handlers.setDefault(func(*Message) { called = true })

	err := c.dispatchPublish(&PublishPacket{Topic: "a/b", QoS: 1, ID: 4})
	require.NoError(t, err)
	assert.False(t, called, "a dropped message must never reach a handler")

	decoded, _, err := ReadPacket(newBytesReader(transport.written), 0)
	require.NoError(t, err)
	ack := decoded.(*PubackPacket)
	assert.Equal(t, uint16(4), ack.ID, "the wire handshake still completes even when the message is dropped")
}

func TestDispatchPubrec_MarksPubrelPendingAndSendsPubrel(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)
	c.inflight.set(11, 2, []byte{0x01})

	err := c.dispatchPubrec(&PubrecPacket{ID: 11})
	require.NoError(t, err)
	assert.True(t, c.inflight.pubrelPending)

	decoded, _, err := ReadPacket(newBytesReader(transport.written), 0)
	require.NoError(t, err)
	assert.Equal(t, PacketPUBREL, decoded.Type())
}

func TestDispatchPubrel_RemovesFromRxSetAndSendsPubcomp(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport)
	c.qos2Rx.insert(22)

	err := c.dispatchPubrel(&PubrelPacket{ID: 22})
	require.NoError(t, err)
	assert.False(t, c.qos2Rx.contains(22))

	decoded, _, err := ReadPacket(newBytesReader(transport.written), 0)
	require.NoError(t, err)
	assert.Equal(t, PacketPUBCOMP, decoded.Type())
}

func TestWaitFor_DispatchesUnrelatedPacketsWhileWaiting(t *testing.T) {
	var publishBuf bytesBuffer
	_, err := (&PublishPacket{Topic: "x/y", QoS: 0, Payload: []byte("z")}).Encode(&publishBuf)
	require.NoError(t, err)

	var subackBuf bytesBuffer
	_, err = (&SubackPacket{ID: 1, ReturnCodes: []byte{SubackMaxQoS0}}).Encode(&subackBuf)
	require.NoError(t, err)

	transport := &fakeTransport{data: append(publishBuf.Bytes(), subackBuf.Bytes()...)}
	c := newTestClient(transport)

	var delivered *Message
	c.handlers.setDefault(func(msg *Message) { delivered = msg })

	packet, err := c.waitFor(PacketSUBACK, 1000)
	require.NoError(t, err)
	assert.Equal(t, PacketSUBACK, packet.Type())
	require.NotNil(t, delivered)
	assert.Equal(t, "x/y", delivered.Topic)
}

func TestYield_ReturnsAfterTimeoutWithNoData(t *testing.T) {
	transport := &fakeTransport{} // empty reads queue: every Read reports idle immediately
	c := newTestClient(transport)

	err := c.Yield(20)
	assert.NoError(t, err)
}
