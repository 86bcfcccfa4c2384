package proto

import (
	"encoding/binary"
	"fmt"
)

// The gateway device speaks a one-request-at-a-time CoAP subset: the
// controller sends a fixed 32-byte POST and reads back the 54-byte HTTP
// request the gateway translated it into.
const (
	ProbeRequestSize  = 32
	ProbeResponseSize = 54
)

const (
	coapVersion        = 0x01
	coapNonConfirmable = 0x01
	coapCodePost       = 0x02

	// Option numbers from RFC 7252. Options are written in ascending
	// order, so each delta nibble is the distance from the previous one.
	optURIHost = 3
	optURIPort = 7
	optURIPath = 11

	endOfOptions = 0xFF
)

// The probe always targets the gateway's HTTP translation endpoint.
const (
	probeHost = "localhost"
	probePort = 10086
	probePath = "/moisture"
)

// probeMessageID doubles as the relay magic word; the gateway firmware
// keys on the same sentinel.
const probeMessageID = MagicWord

// ProbeRequest builds the 32-byte CoAP request reporting the given
// moisture level. Field offsets are cumulative: each option is a
// delta/length byte followed by its value, so nothing past the 4-byte
// header sits at a fixed offset.
func ProbeRequest(moisture uint32) []byte {
	buf := make([]byte, 0, ProbeRequestSize)

	// Header: Ver=1, Type=NON, TKL=0, then the code and message ID.
	buf = append(buf, coapVersion<<6|coapNonConfirmable<<4)
	buf = append(buf, coapCodePost)
	buf = binary.BigEndian.AppendUint16(buf, probeMessageID)

	// URI-Host option.
	buf = append(buf, optURIHost<<4|byte(len(probeHost)))
	buf = append(buf, probeHost...)

	// URI-Port option.
	buf = append(buf, (optURIPort-optURIHost)<<4|2)
	buf = binary.BigEndian.AppendUint16(buf, probePort)

	// URI-Path option.
	buf = append(buf, (optURIPath-optURIPort)<<4|byte(len(probePath)))
	buf = append(buf, probePath...)

	// Payload marker and the moisture reading.
	buf = append(buf, endOfOptions)
	buf = binary.BigEndian.AppendUint32(buf, moisture)

	if len(buf) != ProbeRequestSize {
		panic(fmt.Sprintf("coap: probe request is %d bytes, want %d", len(buf), ProbeRequestSize))
	}
	return buf
}
