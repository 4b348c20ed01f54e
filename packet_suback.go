package mqttcore

import (
	"bytes"
	"io"
)

// SUBACK return codes, MQTT 3.1.1 section 3.9.3.
const (
	SubackMaxQoS0 byte = 0x00
	SubackMaxQoS1 byte = 0x01
	SubackMaxQoS2 byte = 0x02
	SubackFailure byte = 0x80
)

func subackCodeValid(code byte) bool {
	switch code {
	case SubackMaxQoS0, SubackMaxQoS1, SubackMaxQoS2, SubackFailure:
		return true
	default:
		return false
	}
}

// SubackPacket represents an MQTT SUBACK packet.
type SubackPacket struct {
	ID          uint16
	ReturnCodes []byte
}

// Type returns the packet type.
func (p *SubackPacket) Type() PacketType { return PacketSUBACK }

// PacketID returns the packet identifier.
func (p *SubackPacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *SubackPacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *SubackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	if _, err := buf.Write([]byte{byte(p.ID >> 8), byte(p.ID)}); err != nil {
		return 0, err
	}

	for _, rc := range p.ReturnCodes {
		if err := buf.WriteByte(rc); err != nil {
			return 0, err
		}
	}

	header := FixedHeader{
		PacketType:      PacketSUBACK,
		Flags:           0x00,
		RemainingLength: uint32(buf.Len()),
	}

	total, err := header.Encode(w)
	if err != nil {
		return total, err
	}

	n, err := w.Write(buf.Bytes())
	return total + n, err
}

// Decode reads the packet from the reader.
func (p *SubackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketSUBACK {
		return 0, ErrInvalidPacketType
	}

	var totalRead int

	var idBuf [2]byte
	n, err := io.ReadFull(r, idBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	p.ID = uint16(idBuf[0])<<8 | uint16(idBuf[1])

	p.ReturnCodes = nil
	for totalRead < int(header.RemainingLength) {
		var rcBuf [1]byte
		n, err = io.ReadFull(r, rcBuf[:])
		totalRead += n
		if err != nil {
			return totalRead, err
		}
		p.ReturnCodes = append(p.ReturnCodes, rcBuf[0])
	}

	return totalRead, p.Validate()
}

// Validate validates the packet contents.
func (p *SubackPacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	if len(p.ReturnCodes) == 0 {
		return ErrProtocolViolation
	}
	for _, rc := range p.ReturnCodes {
		if !subackCodeValid(rc) {
			return ErrInvalidReasonCode
		}
	}
	return nil
}
