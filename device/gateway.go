package device

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/mbocsi/growlink/proto"
)

// Gateway emulates the CoAP to HTTP gateway firmware. It reads
// fixed-size CoAP probe requests and answers each one with the HTTP
// request text it would forward upstream.
type Gateway struct{}

func NewGateway() *Gateway {
	return &Gateway{}
}

func (g *Gateway) Run(conn net.Conn) error {
	request := make([]byte, proto.ProbeRequestSize)
	for {
		if _, err := io.ReadFull(conn, request); err != nil {
			return err
		}

		if request[0] != 0x50 {
			slog.Warn("Gateway received unexpected CoAP header", "header", fmt.Sprintf("0x%02x", request[0]))
		}
		moisture := binary.BigEndian.Uint32(request[proto.ProbeRequestSize-4:])
		slog.Info("Gateway translating probe", "moisture", moisture)

		response := fmt.Sprintf("POST /moisture HTTP/1.1\r\nHost: localhost:10086\r\n\r\n%d\n", moisture)
		if _, err := conn.Write([]byte(response)); err != nil {
			return err
		}
	}
}
