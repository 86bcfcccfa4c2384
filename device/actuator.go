package device

import (
	"log/slog"
	"net"
	"sync"

	"github.com/mbocsi/growlink/proto"
)

// Actuator emulates the water pump firmware. It waters the plant on
// dry alerts while the bottle holds water, acknowledges wet alerts,
// and reports an empty bottle.
type Actuator struct {
	StackAddr uint32

	mu       sync.Mutex
	hasWater bool
}

func NewActuator() *Actuator {
	return &Actuator{
		StackAddr: 0x20004000,
		hasWater:  true,
	}
}

// HasWater reports whether the bottle currently holds water.
func (a *Actuator) HasWater() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasWater
}

func (a *Actuator) setWater(present bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hasWater = present
}

func (a *Actuator) Run(conn net.Conn) error {
	if err := writeMessage(conn, proto.StackReport(proto.TypeActuatorStack, a.StackAddr)); err != nil {
		return err
	}

	for {
		msg, err := readMessage(conn)
		if err != nil {
			return err
		}

		switch msg.Type {
		case proto.TypeSetWaterStatus:
			a.setWater(msg.Data != 0)
			slog.Info("Actuator water bottle updated", "present", msg.Data != 0)

		case proto.TypeSoilDryAlert:
			if a.HasWater() {
				slog.Info("Actuator watering the plant")
			} else {
				slog.Info("Actuator cannot water, bottle is empty")
				if err := writeMessage(conn, proto.OutOfWaterAlert()); err != nil {
					return err
				}
			}

		case proto.TypeSoilWetAlert:
			slog.Info("Actuator stopping the pump")
			if err := writeMessage(conn, proto.AckSoilWet()); err != nil {
				return err
			}

		default:
			slog.Warn("Actuator ignoring message", "type", msg.Type.String(), "data", msg.Data)
		}
	}
}
