package transport

import (
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"
)

// TCPLink is a Link over a single TCP connection.
type TCPLink struct {
	id   string
	conn net.Conn
}

// NewTCPLink wraps an established connection. Tests use this with
// net.Pipe ends.
func NewTCPLink(conn net.Conn) *TCPLink {
	return &TCPLink{
		id:   "tcp-" + uuid.NewString(),
		conn: conn,
	}
}

// Dial connects to addr and wraps the connection in a TCPLink.
func Dial(addr string) (*TCPLink, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewTCPLink(conn), nil
}

// DialDevice connects to an emulated device on the loopback interface.
// The local end binds to an ephemeral loopback port, so controller and
// devices never leave 127.0.0.1.
func DialDevice(port uint16) (*TCPLink, error) {
	dialer := net.Dialer{
		LocalAddr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0},
	}
	conn, err := dialer.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("dial device port %d: %w", port, err)
	}
	return NewTCPLink(conn), nil
}

func (l *TCPLink) SendExact(buf []byte) error {
	if _, err := l.conn.Write(buf); err != nil {
		return fmt.Errorf("send %d bytes: %w", len(buf), err)
	}
	return nil
}

func (l *TCPLink) ReceiveExact(buf []byte) error {
	if _, err := io.ReadFull(l.conn, buf); err != nil {
		return fmt.Errorf("receive %d bytes: %w", len(buf), err)
	}
	return nil
}

func (l *TCPLink) Close() error {
	return l.conn.Close()
}

func (l *TCPLink) ID() string {
	return l.id
}

func (l *TCPLink) RemoteAddr() string {
	return l.conn.RemoteAddr().String()
}
