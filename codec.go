package mqttcore

import (
	"errors"
	"io"
)

var (
	ErrPacketTooLarge    = errors.New("mqttcore: packet exceeds maximum size")
	ErrUnknownPacketType = errors.New("mqttcore: unknown packet type")
)

// newPacketForType allocates the zero-value Packet for a given type, so
// the caller can Decode into it.
func newPacketForType(t PacketType) (Packet, error) {
	switch t {
	case PacketCONNECT:
		return &ConnectPacket{}, nil
	case PacketCONNACK:
		return &ConnackPacket{}, nil
	case PacketPUBLISH:
		return &PublishPacket{}, nil
	case PacketPUBACK:
		return &PubackPacket{}, nil
	case PacketPUBREC:
		return &PubrecPacket{}, nil
	case PacketPUBREL:
		return &PubrelPacket{}, nil
	case PacketPUBCOMP:
		return &PubcompPacket{}, nil
	case PacketSUBSCRIBE:
		return &SubscribePacket{}, nil
	case PacketSUBACK:
		return &SubackPacket{}, nil
	case PacketUNSUBSCRIBE:
		return &UnsubscribePacket{}, nil
	case PacketUNSUBACK:
		return &UnsubackPacket{}, nil
	case PacketPINGREQ:
		return &PingreqPacket{}, nil
	case PacketPINGRESP:
		return &PingrespPacket{}, nil
	case PacketDISCONNECT:
		return &DisconnectPacket{}, nil
	default:
		return nil, ErrUnknownPacketType
	}
}

// decodePayload decodes a packet whose fixed header has already been read
// and whose RemainingLength bytes are already sitting in payload (a
// sub-slice of the caller's own buffer, not copied first). This is
// what the cycle engine's frame reader (frame.go) calls.
func decodePayload(header FixedHeader, payload []byte) (Packet, error) {
	packet, err := newPacketForType(header.PacketType)
	if err != nil {
		return nil, err
	}

	reader := newBytesReader(payload)
	if _, err := packet.Decode(reader, header); err != nil {
		return nil, err
	}

	return packet, nil
}

// encodeInto encodes a packet into dst, a caller-owned fixed buffer,
// returning the number of bytes written or ErrBufferOverflow if it
// wouldn't fit. This is the send-path counterpart to decodePayload: no
// allocation beyond what Packet.Encode itself needs for variable-length
// framing internals.
func encodeInto(dst []byte, packet Packet) (int, error) {
	buf := &boundedBuffer{data: dst[:0], limit: len(dst)}
	n, err := packet.Encode(buf)
	if err != nil {
		if errors.Is(err, errBoundedBufferFull) {
			return 0, ErrBufferOverflow
		}
		return 0, err
	}
	return n, nil
}

// ReadPacket reads a complete MQTT packet from the reader. If maxSize is
// greater than 0, packets larger than maxSize return ErrPacketTooLarge.
// This is the convenience path used by tests and tooling; the engine's
// hot path uses frame.go directly against its own fixed recvBuf.
func ReadPacket(r io.Reader, maxSize uint32) (Packet, int, error) {
	var header FixedHeader
	n, err := header.Decode(r)
	if err != nil {
		return nil, n, err
	}

	if maxSize > 0 && header.RemainingLength > maxSize {
		return nil, n, ErrPacketTooLarge
	}

	remaining := make([]byte, header.RemainingLength)
	if header.RemainingLength > 0 {
		rn, err := io.ReadFull(r, remaining)
		n += rn
		if err != nil {
			return nil, n, err
		}
	}

	packet, err := decodePayload(header, remaining)
	if err != nil {
		return nil, n, err
	}

	return packet, n, nil
}

// WritePacket writes a complete MQTT packet to the writer. If maxSize is
// greater than 0, packets larger than maxSize return ErrPacketTooLarge.
func WritePacket(w io.Writer, packet Packet, maxSize uint32) (int, error) {
	if err := packet.Validate(); err != nil {
		return 0, err
	}

	if maxSize > 0 {
		var buf bytesBuffer
		n, err := packet.Encode(&buf)
		if err != nil {
			return 0, err
		}
		if uint32(n) > maxSize {
			return 0, ErrPacketTooLarge
		}
		return w.Write(buf.Bytes())
	}

	return packet.Encode(w)
}

// bytesReader wraps a byte slice for the io.Reader interface without
// copying it.
type bytesReader struct {
	data []byte
	pos  int
}

func newBytesReader(data []byte) *bytesReader {
	return &bytesReader{data: data}
}

func (r *bytesReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// bytesBuffer is a simple growable buffer for encoding, used by the
// maxSize-checked WritePacket path and in tests.
type bytesBuffer struct {
	data []byte
}

func (b *bytesBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bytesBuffer) Bytes() []byte {
	return b.data
}

var errBoundedBufferFull = errors.New("mqttcore: bounded buffer full")

// boundedBuffer is an io.Writer over a caller-owned fixed-capacity slice.
// It never grows past cap(data); writes past the limit fail instead of
// reallocating, which is how the send path enforces the client's fixed
// buffer size C without ever touching the heap.
type boundedBuffer struct {
	data  []byte
	limit int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if len(b.data)+len(p) > b.limit {
		return 0, errBoundedBufferFull
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *boundedBuffer) Bytes() []byte {
	return b.data
}
