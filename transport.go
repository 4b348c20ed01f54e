package mqttcore

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"
)

// Transport is the engine's blocking, deadline-scoped connection contract
// (§6.1). Every Read/Write call carries its own timeout instead of a
// persistent connection-level deadline, so the cycle engine can bound
// exactly one frame read or one frame write at a time without leaking
// state across calls.
type Transport interface {
	// Read blocks until at least one byte is available, dst is full, the
	// timeout elapses, or the connection fails. timeoutMs <= 0 means no
	// deadline.
	Read(dst []byte, timeoutMs int) (int, error)

	// Write blocks until all of src has been written, the timeout
	// elapses, or the connection fails. timeoutMs <= 0 means no deadline.
	Write(src []byte, timeoutMs int) (int, error)

	// Close closes the underlying connection.
	Close() error
}

// Conn is the net.Conn-shaped connection a Dialer produces; every
// transport variant (TCP, TLS, WebSocket, QUIC, Unix domain socket,
// proxy-wrapped) implements it, and connTransport adapts any of them to
// the Transport contract above.
type Conn interface {
	net.Conn
}

// Dialer establishes a Conn to an address.
type Dialer interface {
	Dial(ctx context.Context, address string) (Conn, error)
}

// connTransport adapts a net.Conn to the deadline-per-call Transport
// contract by setting a fresh read or write deadline on every call.
type connTransport struct {
	conn Conn
}

// NewConnTransport wraps conn as a Transport. Use this directly when a
// Conn was established outside of Dial (e.g. a custom TLS config or a
// dialer behind a proxy) and needs to be handed to NewClient.
func NewConnTransport(conn Conn) Transport {
	return &connTransport{conn: conn}
}

// newConnTransport wraps conn as a Transport.
func newConnTransport(conn Conn) Transport {
	return NewConnTransport(conn)
}

func deadlineFor(timeoutMs int) time.Time {
	if timeoutMs <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
}

func (c *connTransport) Read(dst []byte, timeoutMs int) (int, error) {
	if err := c.conn.SetReadDeadline(deadlineFor(timeoutMs)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(dst)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

func (c *connTransport) Write(src []byte, timeoutMs int) (int, error) {
	if err := c.conn.SetWriteDeadline(deadlineFor(timeoutMs)); err != nil {
		return 0, err
	}
	return c.conn.Write(src)
}

func (c *connTransport) Close() error {
	return c.conn.Close()
}

// TCPDialer connects to MQTT brokers over plain TCP.
type TCPDialer struct {
	// Timeout is the maximum time to wait for a connection. Zero means
	// no timeout.
	Timeout time.Duration
}

// Dial connects to the address.
func (d *TCPDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}
	return dialer.DialContext(ctx, "tcp", address)
}

// TLSDialer connects to MQTT brokers over TLS.
type TLSDialer struct {
	// Config is the TLS configuration.
	Config *tls.Config

	// Timeout is the maximum time to wait for a connection. Zero means
	// no timeout.
	Timeout time.Duration
}

// Dial connects to the address.
func (d *TLSDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: d.Timeout},
		Config:    d.Config,
	}
	return dialer.DialContext(ctx, "tcp", address)
}
