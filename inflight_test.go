package mqttcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflightPublish_SetMatchesClear(t *testing.T) {
	f := &inflightPublish{}
	assert.False(t, f.occupied)

	f.set(5, 1, []byte{0xAA, 0xBB})
	assert.True(t, f.occupied)
	assert.True(t, f.matches(5))
	assert.False(t, f.matches(6))
	assert.Equal(t, []byte{0xAA, 0xBB}, f.data)

	f.clear()
	assert.False(t, f.occupied)
	assert.False(t, f.matches(5))
}

func TestInflightPublish_SetCopiesBytes(t *testing.T) {
	f := &inflightPublish{}
	src := []byte{0x01, 0x02}
	f.set(1, 1, src)

	src[0] = 0xFF
	assert.Equal(t, byte(0x01), f.data[0], "inflight record must not alias the caller's buffer")
}

func TestInflightPublish_PubrelPendingResetOnSet(t *testing.T) {
	f := &inflightPublish{}
	f.set(1, 2, []byte{0x01})
	f.pubrelPending = true

	f.set(2, 2, []byte{0x02})
	assert.False(t, f.pubrelPending)
}

func TestQoS2RxSet_InsertContainsRemove(t *testing.T) {
	s := newQoS2RxSet(2)

	assert.False(t, s.contains(10))
	require.True(t, s.insert(10))
	assert.True(t, s.contains(10))

	s.remove(10)
	assert.False(t, s.contains(10))
}

func TestQoS2RxSet_FullSetRejectsInsert(t *testing.T) {
	s := newQoS2RxSet(1)

	require.True(t, s.insert(1))
	assert.False(t, s.insert(2))
}

func TestQoS2RxSet_RemoveUntrackedIsNoop(t *testing.T) {
	s := newQoS2RxSet(1)
	s.remove(99)
	assert.False(t, s.contains(99))
}
