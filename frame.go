package mqttcore

import (
	"errors"
	"fmt"
)

// ErrReadTimeout is returned when the transport's deadline elapsed
// before any byte of a new frame arrived — an idle read, not a
// failure. Cycle and waitFor treat it as "nothing to do this round".
var ErrReadTimeout = errors.New("mqttcore: read timed out")

// ErrShortRead is returned when the deadline elapses partway through a
// frame — header or varint bytes arrived but the rest didn't. Unlike
// ErrReadTimeout this is a genuine framing failure: the transport is
// presumed to be delivering a corrupt or truncated stream.
var ErrShortRead = errors.New("mqttcore: short read before deadline")

// readFrame implements spec.md §4.1's read_packet: read exactly one
// fixed header, decode its remaining-length varint, re-encode that
// varint back into recvBuf immediately after the header byte so the
// buffer holds a contiguous wire-format packet, then read the body
// directly into the tail of recvBuf. The frame bytes are read without
// allocating, since recvBuf is the Client's own fixed buffer (spec.md §3);
// decoding then allocates the Packet and its topic and payload copies.
// A decode failure is reported as ErrMalformedPacket wrapping the cause.
func (c *Client) readFrame(deadlineMs int) (Packet, error) {
	timer := c.options.timerFactory()
	timer.Reset()

	var headerByte [1]byte
	if err := c.readFull(headerByte[:], remainingMs(timer, deadlineMs)); err != nil {
		return nil, err
	}

	packetType := PacketType(headerByte[0] >> 4)
	flags := headerByte[0] & 0x0F

	remaining, varintLen, err := c.readVarint(timer, deadlineMs)
	if err != nil {
		return nil, demoteTimeout(err)
	}

	headerBytes := 1 + varintLen
	if int(remaining) > len(c.recvBuf)-headerBytes {
		return nil, ErrBufferOverflow
	}

	c.recvBuf[0] = headerByte[0]
	vw := &sliceWriter{buf: c.recvBuf[1:]}
	if _, err := encodeVarint(vw, remaining); err != nil {
		return nil, err
	}

	body := c.recvBuf[headerBytes : headerBytes+int(remaining)]
	if remaining > 0 {
		if err := c.readFull(body, remainingMs(timer, deadlineMs)); err != nil {
			return nil, demoteTimeout(err)
		}
	}

	header := FixedHeader{PacketType: packetType, Flags: flags, RemainingLength: remaining}
	packet, err := decodePayload(header, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
	}

	c.session.resetReceiveTimer()
	c.metrics.PacketReceived(packetType, headerBytes+int(remaining))
	return packet, nil
}

// readVarint decodes the MQTT remaining-length varint directly off the
// transport, one byte at a time, per §4.1 step 2 (max 4 bytes). timer
// tracks elapsed time against the caller's overall deadlineMs so each
// byte read draws against the shrinking remainder, not a fresh window.
func (c *Client) readVarint(timer Timer, deadlineMs int) (uint32, int, error) {
	var value uint32
	var multiplier uint32 = 1
	var n int

	for n < 4 {
		var b [1]byte
		if err := c.readFull(b[:], remainingMs(timer, deadlineMs)); err != nil {
			return 0, 0, demoteTimeout(err)
		}
		n++

		value += uint32(b[0]&0x7F) * multiplier
		if b[0]&0x80 == 0 {
			return value, n, nil
		}
		multiplier *= 128
	}

	return 0, 0, ErrVarintMalformed
}

// readFull loops reading from the transport until dst is full, the
// deadline expires, or the transport errors, tolerating partial reads
// (§4.1, §6.1). Each retry draws against the remainder of deadlineMs,
// not a fresh window per call.
func (c *Client) readFull(dst []byte, deadlineMs int) error {
	timer := c.options.timerFactory()
	timer.Reset()

	read := 0
	for read < len(dst) {
		remaining := remainingMs(timer, deadlineMs)
		if remaining <= 0 {
			if read == 0 {
				return ErrReadTimeout
			}
			return ErrShortRead
		}

		n, err := c.transport.Read(dst[read:], remaining)
		if err != nil {
			return err
		}
		if n == 0 {
			if read == 0 {
				return ErrReadTimeout
			}
			return ErrShortRead
		}
		read += n
	}
	return nil
}

// writeFrame loops writing src to the transport until it is fully sent,
// the deadline expires, or the transport errors (§4.2). Each retry draws
// against the remainder of deadlineMs, not a fresh window. On success it
// resets the send keepalive timer.
func (c *Client) writeFrame(src []byte, deadlineMs int) error {
	timer := c.options.timerFactory()
	timer.Reset()

	written := 0
	for written < len(src) {
		remaining := remainingMs(timer, deadlineMs)
		if remaining <= 0 {
			return ErrShortRead
		}

		n, err := c.transport.Write(src[written:], remaining)
		if n > 0 {
			written += n
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrShortRead
		}
	}

	if c.session.keepAlive > 0 {
		c.session.resetSendTimer()
	}
	return nil
}

// sliceWriter is an io.Writer over a fixed destination slice, used to
// re-encode the remaining-length varint in place inside recvBuf without
// allocating a growable buffer.
type sliceWriter struct {
	buf []byte
	pos int
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

// demoteTimeout converts ErrReadTimeout into ErrShortRead: once the
// header byte of a frame has been consumed, a deadline hit partway
// through the varint or body is a framing failure, not an idle cycle.
func demoteTimeout(err error) error {
	if err == ErrReadTimeout {
		return ErrShortRead
	}
	return err
}
