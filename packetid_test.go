package mqttcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPacketIDAllocator_Sequential(t *testing.T) {
	a := newPacketIDAllocator()

	assert.Equal(t, uint16(1), a.Next())
	assert.Equal(t, uint16(2), a.Next())
	assert.Equal(t, uint16(3), a.Next())
}

func TestPacketIDAllocator_NeverReturnsZero(t *testing.T) {
	a := newPacketIDAllocator()
	a.next = 65535

	assert.Equal(t, uint16(65535), a.Next())
	assert.Equal(t, uint16(1), a.Next())
}
