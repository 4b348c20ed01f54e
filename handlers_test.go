package mqttcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerTable_AddAndDispatch(t *testing.T) {
	table := newHandlerTable(2)

	var got *Message
	require.True(t, table.add("a/b", SubackMaxQoS0, func(msg *Message) { got = msg }))

	table.dispatch(&Message{Topic: "a/b", Payload: []byte("x")})
	require.NotNil(t, got)
	assert.Equal(t, "a/b", got.Topic)
}

func TestHandlerTable_FullTableRejectsAdd(t *testing.T) {
	table := newHandlerTable(1)

	assert.True(t, table.add("a/b", 0, func(*Message) {}))
	assert.False(t, table.add("c/d", 0, func(*Message) {}))
}

func TestHandlerTable_RemoveFreesSlot(t *testing.T) {
	table := newHandlerTable(1)
	require.True(t, table.add("a/b", 0, func(*Message) {}))

	table.remove("a/b")
	assert.True(t, table.add("c/d", 0, func(*Message) {}))
}

func TestHandlerTable_RemoveUnknownFilterIsNoop(t *testing.T) {
	table := newHandlerTable(1)
	table.remove("does/not/exist")
}

func TestHandlerTable_FanOutMultipleMatches(t *testing.T) {
	table := newHandlerTable(4)

	var calls []string
	record := func(name string) MessageHandler {
		return func(*Message) { calls = append(calls, name) }
	}

	require.True(t, table.add("a/#", 0, record("wildcard")))
	require.True(t, table.add("a/b", 0, record("exact")))

	table.dispatch(&Message{Topic: "a/b"})
	assert.ElementsMatch(t, []string{"wildcard", "exact"}, calls)
}

func TestHandlerTable_DefaultHandlerFiresOnNoMatch(t *testing.T) {
	table := newHandlerTable(2)

	var fallbackTopic string
	table.setDefault(func(msg *Message) { fallbackTopic = msg.Topic })
	require.True(t, table.add("a/b", 0, func(*Message) {}))

	table.dispatch(&Message{Topic: "x/y"})
	assert.Equal(t, "x/y", fallbackTopic)
}

func TestHandlerTable_DefaultHandlerSkippedOnMatch(t *testing.T) {
	table := newHandlerTable(2)

	fallbackCalled := false
	table.setDefault(func(*Message) { fallbackCalled = true })
	require.True(t, table.add("a/b", 0, func(*Message) {}))

	table.dispatch(&Message{Topic: "a/b"})
	assert.False(t, fallbackCalled)
}
