package mqttcore

import "io"

// PubrelPacket represents an MQTT PUBREL packet: QoS 2 step two.
type PubrelPacket struct {
	ID uint16
}

// Type returns the packet type.
func (p *PubrelPacket) Type() PacketType { return PacketPUBREL }

// PacketID returns the packet identifier.
func (p *PubrelPacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *PubrelPacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *PubrelPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	// PUBREL must have flags = 0x02
	return encodeAck(w, PacketPUBREL, 0x02, &ackPacket{PacketID: p.ID})
}

// Decode reads the packet from the reader.
func (p *PubrelPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketPUBREL {
		return 0, ErrInvalidPacketType
	}
	if header.Flags != 0x02 {
		return 0, ErrInvalidPacketFlags
	}
	var ack ackPacket
	n, err := decodeAck(r, header, &ack)
	p.ID = ack.PacketID
	return n, err
}

// Validate validates the packet contents.
func (p *PubrelPacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	return nil
}
