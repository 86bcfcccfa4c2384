// Package transport provides byte stream links between the controller
// and its peer devices. The wire protocol is fixed-length binary, so
// every read and write is for an exact number of bytes.
package transport

// Link is a full-duplex byte stream to one peer device.
type Link interface {
	// SendExact writes all of buf to the peer.
	SendExact(buf []byte) error
	// ReceiveExact blocks until buf is completely filled from the peer.
	ReceiveExact(buf []byte) error
	Close() error
	ID() string
	RemoteAddr() string
}
