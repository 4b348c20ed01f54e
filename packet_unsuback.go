package mqttcore

import "io"

// UnsubackPacket represents an MQTT UNSUBACK packet: a fixed header plus
// the 2-byte packet identifier being acknowledged, nothing else.
type UnsubackPacket struct {
	ID uint16
}

// Type returns the packet type.
func (p *UnsubackPacket) Type() PacketType { return PacketUNSUBACK }

// PacketID returns the packet identifier.
func (p *UnsubackPacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *UnsubackPacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *UnsubackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	header := FixedHeader{
		PacketType:      PacketUNSUBACK,
		Flags:           0x00,
		RemainingLength: 2,
	}

	total, err := header.Encode(w)
	if err != nil {
		return total, err
	}

	n, err := w.Write([]byte{byte(p.ID >> 8), byte(p.ID)})
	return total + n, err
}

// Decode reads the packet from the reader.
func (p *UnsubackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketUNSUBACK {
		return 0, ErrInvalidPacketType
	}

	var idBuf [2]byte
	n, err := io.ReadFull(r, idBuf[:])
	if err != nil {
		return n, err
	}
	p.ID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	return n, p.Validate()
}

// Validate validates the packet contents.
func (p *UnsubackPacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	return nil
}
