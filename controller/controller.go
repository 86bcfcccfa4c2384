// Package controller relays fixed-size binary messages between the
// grow-system devices and carries out operator commands. Each connected
// messaging device gets its own receive loop; a single sender loop
// drains the command queue, so writes to any one device never
// interleave.
package controller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mbocsi/growlink/proto"
	"github.com/mbocsi/growlink/queue"
	"github.com/mbocsi/growlink/transport"
)

// Role identifies which device a link or command belongs to.
type Role int

const (
	RoleMonitor Role = iota
	RoleActuator
	RoleGateway
)

func (r Role) String() string {
	switch r {
	case RoleMonitor:
		return "monitor"
	case RoleActuator:
		return "actuator"
	case RoleGateway:
		return "gateway"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Command pairs a wire message with the device role it is addressed to.
type Command struct {
	Message proto.Message
	Target  Role
}

// FastModels bridges emit console noise before the firmware starts
// speaking the protocol.
const garbageSize = 15

type Options struct {
	Monitor  transport.Link // Optional soil moisture monitor
	Actuator transport.Link // Optional water pump actuator
	Gateway  transport.Link // Optional CoAP gateway
}

type Controller struct {
	links    map[Role]transport.Link // read-only after New
	commands *queue.Blocking[Command]
	events   *eventLog

	mu     sync.RWMutex
	stacks map[string]uint32 // last stack pointer per report type
}

func New(opts Options) *Controller {
	links := make(map[Role]transport.Link)
	if opts.Monitor != nil {
		links[RoleMonitor] = opts.Monitor
	}
	if opts.Actuator != nil {
		links[RoleActuator] = opts.Actuator
	}
	if opts.Gateway != nil {
		links[RoleGateway] = opts.Gateway
	}

	return &Controller{
		links:    links,
		commands: queue.NewBlocking[Command](),
		events:   newEventLog(),
		stacks:   make(map[string]uint32),
	}
}

// Start launches the sender loop and one receive loop per messaging
// device. The gateway only speaks the probe protocol, so its startup
// garbage is drained here instead of in a receive loop.
func (c *Controller) Start() {
	go c.sendLoop()

	if link, ok := c.links[RoleMonitor]; ok {
		go c.receiveLoop(RoleMonitor, link)
	}
	if link, ok := c.links[RoleActuator]; ok {
		go c.receiveLoop(RoleActuator, link)
	}
	if link, ok := c.links[RoleGateway]; ok {
		c.drainGarbage(RoleGateway, link)
	}
}

func (c *Controller) drainGarbage(role Role, link transport.Link) {
	garbage := make([]byte, garbageSize)
	if err := link.ReceiveExact(garbage); err != nil {
		slog.Warn("Failed to drain startup garbage", "role", role.String(), "id", link.ID(), "error", err.Error())
		return
	}
	slog.Debug("Drained startup garbage", "role", role.String(), "bytes", garbageSize)
}

func (c *Controller) receiveLoop(role Role, link transport.Link) {
	c.drainGarbage(role, link)

	buf := make([]byte, proto.MessageSize)
	for {
		if err := link.ReceiveExact(buf); err != nil {
			slog.Error("Receive loop terminated", "role", role.String(), "id", link.ID(), "error", err.Error())
			c.events.Record(Event{Kind: EventLoopExit, Role: role.String(), Detail: err.Error()})
			return
		}

		msg, err := proto.Decode(buf)
		if err != nil {
			slog.Error("Discarding malformed message", "role", role.String(), "error", err.Error())
			c.events.Record(Event{Kind: EventMalformed, Role: role.String(), Detail: err.Error()})
			continue
		}

		c.dispatch(role, msg)
	}
}

// dispatch applies the relay decision table to one received message.
// It keys on the message type alone; the receiving role only provides
// log context.
func (c *Controller) dispatch(role Role, msg proto.Message) {
	c.events.Record(Event{Kind: EventReceived, Role: role.String(), Type: msg.Type.String(), Data: msg.Data})

	switch msg.Type {
	case proto.TypeMonitorStack, proto.TypeActuatorStack, proto.TypeGatewayStack:
		slog.Info("Device stack report", "role", role.String(), "type", msg.Type.String(), "sp", fmt.Sprintf("0x%08x", msg.Data))
		c.mu.Lock()
		c.stacks[msg.Type.String()] = msg.Data
		c.mu.Unlock()
		c.events.Record(Event{Kind: EventStack, Role: role.String(), Type: msg.Type.String(), Data: msg.Data})

	case proto.TypeSoilDryAlert, proto.TypeSoilWetAlert:
		slog.Debug("Relaying soil alert to actuator", "role", role.String(), "type", msg.Type.String())
		c.commands.Offer(Command{Message: msg, Target: RoleActuator})
		c.events.Record(Event{Kind: EventRelayed, Role: RoleActuator.String(), Type: msg.Type.String()})

	case proto.TypeAckSoilWet:
		slog.Debug("Relaying wet acknowledgement to monitor", "role", role.String())
		c.commands.Offer(Command{Message: msg, Target: RoleMonitor})
		c.events.Record(Event{Kind: EventRelayed, Role: RoleMonitor.String(), Type: msg.Type.String()})

	case proto.TypeOutOfWaterAlert:
		slog.Info("Water bottle is empty, refill required", "role", role.String())

	default:
		slog.Warn("Ignoring message with unknown type", "role", role.String(), "type", uint8(msg.Type), "data", msg.Data)
	}
}

func (c *Controller) sendLoop() {
	for {
		c.deliver(c.commands.Poll())
	}
}

func (c *Controller) deliver(cmd Command) {
	link, ok := c.links[cmd.Target]
	if !ok {
		slog.Warn("Dropping command for unconfigured device", "target", cmd.Target.String(), "type", cmd.Message.Type.String())
		c.events.Record(Event{Kind: EventDropped, Role: cmd.Target.String(), Type: cmd.Message.Type.String()})
		return
	}

	if err := link.SendExact(cmd.Message.Encode()); err != nil {
		slog.Warn("Failed to send command", "target", cmd.Target.String(), "type", cmd.Message.Type.String(), "error", err.Error())
		return
	}

	slog.Debug("Command sent", "target", cmd.Target.String(), "type", cmd.Message.Type.String(), "data", cmd.Message.Data)
	c.events.Record(Event{Kind: EventSent, Role: cmd.Target.String(), Type: cmd.Message.Type.String(), Data: cmd.Message.Data})
}

// SetSoilMoisture queues a moisture level update for the monitor.
func (c *Controller) SetSoilMoisture(level uint32) {
	slog.Debug("Queueing soil moisture update", "level", level)
	c.commands.Offer(Command{Message: proto.SetSoilMoisture(level), Target: RoleMonitor})
}

// SetWaterStatus queues a water bottle presence update for the actuator.
func (c *Controller) SetWaterStatus(present bool) {
	slog.Debug("Queueing water status update", "present", present)
	c.commands.Offer(Command{Message: proto.SetWaterStatus(present), Target: RoleActuator})
}

// InjectDryAlert queues a soil dry alert as if the monitor had raised it.
func (c *Controller) InjectDryAlert() {
	slog.Debug("Queueing injected dry alert")
	c.commands.Offer(Command{Message: proto.SoilDryAlert(), Target: RoleActuator})
}

// InjectWetAlert queues a soil wet alert as if the monitor had raised it.
func (c *Controller) InjectWetAlert() {
	slog.Debug("Queueing injected wet alert")
	c.commands.Offer(Command{Message: proto.SoilWetAlert(), Target: RoleActuator})
}

// OnEvent registers fn to be called for every relay engine event.
// Callbacks run inline on the loop goroutines and must not block.
func (c *Controller) OnEvent(fn func(Event)) {
	c.events.Subscribe(fn)
}

// Events returns the most recent relay engine events, oldest first.
func (c *Controller) Events() []Event {
	return c.events.Recent()
}

type LinkStatus struct {
	ID         string `json:"id"`
	RemoteAddr string `json:"remoteAddr"`
}

type Status struct {
	Links         map[string]LinkStatus `json:"links"`
	QueueDepth    int                   `json:"queueDepth"`
	Counters      Counters              `json:"counters"`
	StackPointers map[string]uint32     `json:"stackPointers"`
}

// Status reports a point-in-time snapshot of the relay engine.
func (c *Controller) Status() Status {
	c.mu.RLock()
	stacks := make(map[string]uint32, len(c.stacks))
	for k, v := range c.stacks {
		stacks[k] = v
	}
	c.mu.RUnlock()

	links := make(map[string]LinkStatus, len(c.links))
	for role, link := range c.links {
		links[role.String()] = LinkStatus{ID: link.ID(), RemoteAddr: link.RemoteAddr()}
	}

	return Status{
		Links:         links,
		QueueDepth:    c.commands.Len(),
		Counters:      c.events.Counters(),
		StackPointers: stacks,
	}
}

// Shutdown closes every device link. Blocked receive loops unwind with
// read errors; the sender loop stays parked on the queue until the
// process exits.
func (c *Controller) Shutdown() {
	for role, link := range c.links {
		if err := link.Close(); err != nil {
			slog.Warn("Failed to close link", "role", role.String(), "error", err.Error())
		}
	}
}
