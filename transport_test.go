package mqttcore

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnTransport_ReadTimeoutIsNotAnError is a regression test: a real
// net.Conn deadline expiring with nothing to read must surface as the
// Transport contract's idle signal - (n, nil) - not a timeout error,
// since readFull only tolerates the former.
func TestConnTransport_ReadTimeoutIsNotAnError(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	transport := newConnTransport(clientConn)

	buf := make([]byte, 8)
	n, err := transport.Read(buf, 50)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestConnTransport_ReadReturnsAvailableData(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	transport := newConnTransport(clientConn)

	go func() {
		serverConn.Write([]byte{0x01, 0x02, 0x03})
	}()

	buf := make([]byte, 8)
	n, err := transport.Read(buf, 1000)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, buf[:n])
}

func TestConnTransport_WriteTimeoutIsAHardFailure(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	transport := newConnTransport(clientConn)

	// net.Pipe is unbuffered and nothing reads the other end, so the
	// write deadline must expire as a genuine error - unlike Read, a
	// write-side timeout always means the bytes were not delivered.
	_, err := transport.Write([]byte{0x01}, 20)
	assert.Error(t, err)
}

func TestConnTransport_CloseClosesUnderlyingConn(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	transport := newConnTransport(clientConn)
	require.NoError(t, transport.Close())

	_, err := clientConn.Write([]byte{0x01})
	assert.Error(t, err)
}

func TestTCPDialer_DialsListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	dialer := &TCPDialer{Timeout: time.Second}
	conn, err := dialer.Dial(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	server := <-accepted
	defer server.Close()
}

func TestTCPDialer_DialFailsOnRefusedConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	dialer := &TCPDialer{Timeout: 500 * time.Millisecond}
	_, err = dialer.Dial(context.Background(), addr)
	assert.Error(t, err)
}
