package controller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mbocsi/growlink/measure"
	"github.com/mbocsi/growlink/proto"
)

// probeMoisture is the fixed reading carried in every gateway probe.
const probeMoisture = 100

// ProbeOnce sends a single CoAP probe to the gateway and returns the
// translated HTTP request text the gateway answers with. Probing a
// controller that was built without a gateway link is a programming
// error and panics.
func (c *Controller) ProbeOnce() ([]byte, error) {
	link, ok := c.links[RoleGateway]
	if !ok {
		panic("controller: probe requires a gateway link")
	}

	if err := link.SendExact(proto.ProbeRequest(probeMoisture)); err != nil {
		return nil, fmt.Errorf("probe request: %w", err)
	}

	response := make([]byte, proto.ProbeResponseSize)
	if err := link.ReceiveExact(response); err != nil {
		return nil, fmt.Errorf("probe response: %w", err)
	}

	slog.Debug("Gateway probe complete", "response", len(response))
	c.events.Record(Event{Kind: EventProbe, Role: RoleGateway.String()})
	return response, nil
}

// ProbeExperiment times trials consecutive probe exchanges, pausing
// delay between them, and returns the collected samples.
func (c *Controller) ProbeExperiment(trials int, delay time.Duration) (*measure.Result, error) {
	if _, ok := c.links[RoleGateway]; !ok {
		panic("controller: probe requires a gateway link")
	}

	slog.Info("Starting gateway experiment", "trials", trials, "delay", delay)
	result, err := measure.Run(trials, delay, func() error {
		_, err := c.ProbeOnce()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("gateway experiment: %w", err)
	}

	slog.Info("Gateway experiment complete",
		"trials", trials,
		"min", result.Min(),
		"max", result.Max(),
		"median", result.Median(),
		"mean", result.Mean(),
		"stddev", result.StdDev(),
	)
	return result, nil
}
