package device

import (
	"log/slog"
	"net"

	"github.com/mbocsi/growlink/proto"
)

// Monitor emulates the soil moisture monitor firmware. It announces
// its stack address on boot and raises soil alerts when the moisture
// level crosses its thresholds.
type Monitor struct {
	StackAddr uint32
	DryBelow  uint32 // levels below this raise a dry alert
	WetAbove  uint32 // levels above this raise a wet alert
}

func NewMonitor() *Monitor {
	return &Monitor{
		StackAddr: 0x20002000,
		DryBelow:  30,
		WetAbove:  70,
	}
}

func (m *Monitor) Run(conn net.Conn) error {
	if err := writeMessage(conn, proto.StackReport(proto.TypeMonitorStack, m.StackAddr)); err != nil {
		return err
	}

	for {
		msg, err := readMessage(conn)
		if err != nil {
			return err
		}

		switch msg.Type {
		case proto.TypeSetSoilMoisture:
			slog.Info("Monitor moisture level set", "level", msg.Data)
			if msg.Data < m.DryBelow {
				if err := writeMessage(conn, proto.SoilDryAlert()); err != nil {
					return err
				}
			} else if msg.Data > m.WetAbove {
				if err := writeMessage(conn, proto.SoilWetAlert()); err != nil {
					return err
				}
			}

		case proto.TypeAckSoilWet:
			slog.Info("Monitor received wet acknowledgement, pump stopped")

		default:
			slog.Warn("Monitor ignoring message", "type", msg.Type.String(), "data", msg.Data)
		}
	}
}
