package proto

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MagicWord opens every record exchanged with the emulated devices
// ("FW" in ASCII). A record whose first two bytes differ is corrupt.
const MagicWord uint16 = 0x4657

// MessageSize is the fixed on-wire size of every Message. There is no
// length prefix; peers always read exactly this many bytes per record.
const MessageSize = 7

var (
	ErrBadMagic     = errors.New("magic word mismatch")
	ErrShortMessage = errors.New("short message")
)

// Type identifies the semantic kind of a Message.
type Type uint8

const (
	TypeSetSoilMoisture Type = iota // controller -> monitor: Data is the new moisture level
	TypeSetWaterStatus              // controller -> actuator: Data is 1 (water present) or 0 (bottle empty)
	TypeMonitorStack                // monitor -> controller: Data is the shared user stack address
	TypeActuatorStack               // actuator -> controller: Data is the shared user stack address
	TypeGatewayStack                // gateway -> controller: Data is a thread stack address
	TypeSoilDryAlert                // monitor -> controller -> actuator
	TypeSoilWetAlert                // monitor -> controller -> actuator
	TypeAckSoilWet                  // actuator -> controller -> monitor
	TypeOutOfWaterAlert             // actuator -> controller: terminal notification, never relayed
)

func (t Type) String() string {
	switch t {
	case TypeSetSoilMoisture:
		return "set-soil-moisture"
	case TypeSetWaterStatus:
		return "set-water-status"
	case TypeMonitorStack:
		return "monitor-stack-report"
	case TypeActuatorStack:
		return "actuator-stack-report"
	case TypeGatewayStack:
		return "gateway-stack-report"
	case TypeSoilDryAlert:
		return "soil-dry-alert"
	case TypeSoilWetAlert:
		return "soil-wet-alert"
	case TypeAckSoilWet:
		return "ack-soil-wet"
	case TypeOutOfWaterAlert:
		return "out-of-water-alert"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Message is the fixed-size binary record exchanged with the devices.
// Messages are value types: they are copied into commands and never
// mutated after construction.
type Message struct {
	Magic uint16 // must equal MagicWord on every inbound record
	Type  Type   // semantic kind
	Data  uint32 // interpretation depends on Type (level, 0/1 flag, or a reported address)
}

// Encode renders the message as its fixed 7-byte wire record.
// Multi-byte fields are big-endian.
func (m Message) Encode() []byte {
	buf := make([]byte, MessageSize)
	binary.BigEndian.PutUint16(buf[0:2], m.Magic)
	buf[2] = byte(m.Type)
	binary.BigEndian.PutUint32(buf[3:7], m.Data)
	return buf
}

// Decode parses one wire record. The magic word is validated before the
// type field is interpreted; a mismatch fails with ErrBadMagic.
func Decode(buf []byte) (Message, error) {
	if len(buf) < MessageSize {
		return Message{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortMessage, len(buf), MessageSize)
	}
	magic := binary.BigEndian.Uint16(buf[0:2])
	if magic != MagicWord {
		return Message{}, fmt.Errorf("%w: 0x%04x", ErrBadMagic, magic)
	}
	return Message{
		Magic: magic,
		Type:  Type(buf[2]),
		Data:  binary.BigEndian.Uint32(buf[3:7]),
	}, nil
}

// SetSoilMoisture builds the record that tells the monitor device to
// change its simulated moisture level. The level is not range-checked
// here; the command layers decide what values to accept.
func SetSoilMoisture(level uint32) Message {
	return Message{Magic: MagicWord, Type: TypeSetSoilMoisture, Data: level}
}

// SetWaterStatus builds the record that fills (true) or empties (false)
// the actuator's water bottle.
func SetWaterStatus(hasWater bool) Message {
	var flag uint32
	if hasWater {
		flag = 1
	}
	return Message{Magic: MagicWord, Type: TypeSetWaterStatus, Data: flag}
}

// SoilDryAlert builds a dry-soil alert as the monitor device would send it.
func SoilDryAlert() Message {
	return Message{Magic: MagicWord, Type: TypeSoilDryAlert}
}

// SoilWetAlert builds a wet-soil alert as the monitor device would send it.
func SoilWetAlert() Message {
	return Message{Magic: MagicWord, Type: TypeSoilWetAlert}
}

// AckSoilWet builds the acknowledgement the actuator sends after watering.
func AckSoilWet() Message {
	return Message{Magic: MagicWord, Type: TypeAckSoilWet}
}

// OutOfWaterAlert builds the actuator's empty-bottle notification.
func OutOfWaterAlert() Message {
	return Message{Magic: MagicWord, Type: TypeOutOfWaterAlert}
}

// StackReport builds a diagnostic stack-address report of the given kind.
func StackReport(t Type, addr uint32) Message {
	return Message{Magic: MagicWord, Type: t, Data: addr}
}
