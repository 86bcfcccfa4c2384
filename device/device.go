// Package device emulates the grow-system firmware devices so the
// controller can be exercised without ARM FastModels.
package device

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/mbocsi/growlink/proto"
)

// garbage mirrors the console noise a FastModels UART bridge emits
// before the firmware starts speaking the protocol.
var garbage = []byte("FastModels v11\n")

// Script is the firmware behavior an emulator runs once a controller
// connects. Run should return io.EOF when the controller disconnects.
type Script interface {
	Run(conn net.Conn) error
}

// Emulator accepts controller connections on a loopback port and hands
// each one to its device script, one session at a time.
type Emulator struct {
	name     string
	script   Script
	listener net.Listener
}

// Listen binds the emulator to a loopback port. Port 0 picks an
// ephemeral port; use Port to discover it.
func Listen(name string, port uint16, script Script) (*Emulator, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen for %s device: %w", name, err)
	}
	slog.Info("Device emulator listening", "device", name, "addr", listener.Addr().String())
	return &Emulator{name: name, script: script, listener: listener}, nil
}

// Port returns the TCP port the emulator accepts the controller on.
func (e *Emulator) Port() uint16 {
	return uint16(e.listener.Addr().(*net.TCPAddr).Port)
}

// Run accepts one controller connection, emits the startup garbage, and
// runs the device script until the controller disconnects.
func (e *Emulator) Run() error {
	conn, err := e.listener.Accept()
	if err != nil {
		return fmt.Errorf("%s device accept: %w", e.name, err)
	}
	defer conn.Close()

	slog.Info("Controller connected", "device", e.name, "remote", conn.RemoteAddr().String())

	if _, err := conn.Write(garbage); err != nil {
		return fmt.Errorf("%s device garbage: %w", e.name, err)
	}

	if err := e.script.Run(conn); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s device script: %w", e.name, err)
	}
	slog.Info("Controller disconnected", "device", e.name)
	return nil
}

func (e *Emulator) Close() error {
	return e.listener.Close()
}

func readMessage(conn net.Conn) (proto.Message, error) {
	buf := make([]byte, proto.MessageSize)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return proto.Message{}, err
	}
	return proto.Decode(buf)
}

func writeMessage(conn net.Conn, msg proto.Message) error {
	_, err := conn.Write(msg.Encode())
	return err
}
