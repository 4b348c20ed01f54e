package mqttcore

import (
	"bytes"
	"errors"
	"io"
)

// CONNECT packet constants.
const (
	protocolName    = "MQTT"
	protocolVersion = 4 // MQTT 3.1.1
)

// Connect flag bit positions.
const (
	connectFlagCleanStart   = 0x02
	connectFlagWillFlag     = 0x04
	connectFlagWillRetain   = 0x20
	connectFlagPasswordFlag = 0x40
	connectFlagUsernameFlag = 0x80
)

// CONNECT packet errors.
var (
	ErrInvalidProtocolName    = errors.New("invalid protocol name")
	ErrInvalidProtocolVersion = errors.New("unsupported protocol version")
	ErrInvalidConnectFlags    = errors.New("invalid connect flags")
	ErrClientIDTooLong        = errors.New("client ID too long")
	ErrClientIDRequired       = errors.New("client ID required with clean start false")
)

// ConnectPacket represents an MQTT 3.1.1 CONNECT packet.
type ConnectPacket struct {
	// ClientID is the client identifier.
	ClientID string

	// CleanStart indicates whether the session should start clean.
	CleanStart bool

	// KeepAlive is the keep alive interval in seconds.
	KeepAlive uint16

	// Username for authentication.
	Username string

	// Password for authentication, opaque bytes (e.g. a SCRAM blob).
	Password []byte

	// Will message configuration.
	WillFlag    bool
	WillRetain  bool
	WillQoS     byte
	WillTopic   string
	WillPayload []byte
}

// Type returns the packet type.
func (p *ConnectPacket) Type() PacketType {
	return PacketCONNECT
}

// connectFlags returns the connect flags byte.
func (p *ConnectPacket) connectFlags() byte {
	var flags byte

	if p.CleanStart {
		flags |= connectFlagCleanStart
	}

	if p.WillFlag {
		flags |= connectFlagWillFlag
		flags |= (p.WillQoS & 0x03) << 3
		if p.WillRetain {
			flags |= connectFlagWillRetain
		}
	}

	if len(p.Password) > 0 {
		flags |= connectFlagPasswordFlag
	}

	if p.Username != "" {
		flags |= connectFlagUsernameFlag
	}

	return flags
}

// setConnectFlags parses the connect flags byte.
func (p *ConnectPacket) setConnectFlags(flags byte) error {
	// Reserved bit must be 0
	if flags&0x01 != 0 {
		return ErrInvalidConnectFlags
	}

	p.CleanStart = flags&connectFlagCleanStart != 0
	p.WillFlag = flags&connectFlagWillFlag != 0
	p.WillQoS = (flags >> 3) & 0x03
	p.WillRetain = flags&connectFlagWillRetain != 0

	if !p.WillFlag && p.WillQoS != 0 {
		return ErrInvalidConnectFlags
	}

	if !p.WillFlag && p.WillRetain {
		return ErrInvalidConnectFlags
	}

	if p.WillQoS > 2 {
		return ErrInvalidConnectFlags
	}

	return nil
}

// Encode writes the packet to the writer.
func (p *ConnectPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	n, err := encodeString(&buf, protocolName)
	if err != nil {
		return 0, err
	}

	if err := buf.WriteByte(protocolVersion); err != nil {
		return n, err
	}
	n++

	if err := buf.WriteByte(p.connectFlags()); err != nil {
		return n, err
	}
	n++

	n2, err := buf.Write([]byte{byte(p.KeepAlive >> 8), byte(p.KeepAlive)})
	n += n2
	if err != nil {
		return n, err
	}

	// Payload: Client ID
	n3, err := encodeString(&buf, p.ClientID)
	n += n3
	if err != nil {
		return n, err
	}

	// Will Topic, Payload
	if p.WillFlag {
		n4, err := encodeString(&buf, p.WillTopic)
		n += n4
		if err != nil {
			return n, err
		}

		n5, err := encodeBinary(&buf, p.WillPayload)
		n += n5
		if err != nil {
			return n, err
		}
	}

	if p.Username != "" {
		n6, err := encodeString(&buf, p.Username)
		n += n6
		if err != nil {
			return n, err
		}
	}

	if len(p.Password) > 0 {
		n7, err := encodeBinary(&buf, p.Password)
		n += n7
		if err != nil {
			return n, err
		}
	}

	header := FixedHeader{
		PacketType:      PacketCONNECT,
		Flags:           0x00,
		RemainingLength: uint32(buf.Len()),
	}

	total, err := header.Encode(w)
	if err != nil {
		return total, err
	}

	n8, err := w.Write(buf.Bytes())
	return total + n8, err
}

// Decode reads the packet from the reader.
func (p *ConnectPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketCONNECT {
		return 0, ErrInvalidPacketType
	}

	var totalRead int

	protoName, n, err := decodeString(r)
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	if protoName != protocolName {
		return totalRead, ErrInvalidProtocolName
	}

	var versionBuf [1]byte
	n, err = io.ReadFull(r, versionBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	if versionBuf[0] != protocolVersion {
		return totalRead, ErrInvalidProtocolVersion
	}

	var flagsBuf [1]byte
	n, err = io.ReadFull(r, flagsBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	if err := p.setConnectFlags(flagsBuf[0]); err != nil {
		return totalRead, err
	}

	usernameFlag := flagsBuf[0]&connectFlagUsernameFlag != 0
	passwordFlag := flagsBuf[0]&connectFlagPasswordFlag != 0

	var keepAliveBuf [2]byte
	n, err = io.ReadFull(r, keepAliveBuf[:])
	totalRead += n
	if err != nil {
		return totalRead, err
	}
	p.KeepAlive = uint16(keepAliveBuf[0])<<8 | uint16(keepAliveBuf[1])

	p.ClientID, n, err = decodeString(r)
	totalRead += n
	if err != nil {
		return totalRead, err
	}

	if p.WillFlag {
		p.WillTopic, n, err = decodeString(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}

		p.WillPayload, n, err = decodeBinary(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	if usernameFlag {
		p.Username, n, err = decodeString(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	if passwordFlag {
		p.Password, n, err = decodeBinary(r)
		totalRead += n
		if err != nil {
			return totalRead, err
		}
	}

	return totalRead, nil
}

// Validate validates the packet contents.
func (p *ConnectPacket) Validate() error {
	if len(p.ClientID) > 65535 {
		return ErrClientIDTooLong
	}

	if !p.CleanStart && p.ClientID == "" {
		return ErrClientIDRequired
	}

	if p.WillQoS > 2 {
		return ErrInvalidConnectFlags
	}

	if !p.WillFlag && (p.WillRetain || p.WillQoS != 0) {
		return ErrInvalidConnectFlags
	}

	return nil
}
