package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mbocsi/growlink/controller"
)

func (s *Server) registerTools() {
	soilTool := mcp.NewTool("set_soil_moisture",
		mcp.WithDescription("Set the soil moisture level reported by the monitor device"),
		mcp.WithNumber("level",
			mcp.Required(),
			mcp.Description("Moisture level in percent (0-100)"),
		),
	)
	s.server.AddTool(soilTool, s.handleSetSoilMoisture)

	waterTool := mcp.NewTool("set_water_status",
		mcp.WithDescription("Fill or empty the actuator's water bottle"),
		mcp.WithBoolean("present",
			mcp.Required(),
			mcp.Description("true to fill the bottle, false to empty it"),
		),
	)
	s.server.AddTool(waterTool, s.handleSetWaterStatus)

	alertTool := mcp.NewTool("inject_alert",
		mcp.WithDescription("Inject a soil alert as if the monitor device had raised it"),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Alert kind"),
			mcp.Enum("dry", "wet"),
		),
	)
	s.server.AddTool(alertTool, s.handleInjectAlert)

	probeTool := mcp.NewTool("probe_gateway",
		mcp.WithDescription("Send one CoAP probe to the gateway and return the translated HTTP request"),
	)
	s.server.AddTool(probeTool, s.handleProbeGateway)

	experimentTool := mcp.NewTool("run_gateway_experiment",
		mcp.WithDescription("Measure gateway round-trip time over repeated CoAP probes"),
		mcp.WithNumber("trials",
			mcp.Required(),
			mcp.Description("Number of probe exchanges"),
		),
		mcp.WithNumber("delay_ms",
			mcp.Description("Milliseconds to wait between trials"),
		),
	)
	s.server.AddTool(experimentTool, s.handleRunExperiment)

	statusTool := mcp.NewTool("controller_status",
		mcp.WithDescription("Get the relay engine status snapshot"),
	)
	s.server.AddTool(statusTool, s.handleStatus)
}

func (s *Server) handleSetSoilMoisture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, err := request.RequireFloat("level")
	if err != nil {
		return mcp.NewToolResultError("level is required and must be a number"), err
	}
	if level < 0 || level > math.MaxUint32 {
		return mcp.NewToolResultError("level is out of range"), fmt.Errorf("level %v out of range", level)
	}

	s.controller.SetSoilMoisture(uint32(level))
	return mcp.NewToolResultText(fmt.Sprintf("Queued soil moisture update to %d", uint32(level))), nil
}

func (s *Server) handleSetWaterStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	present, err := request.RequireBool("present")
	if err != nil {
		return mcp.NewToolResultError("present is required and must be a boolean"), err
	}

	s.controller.SetWaterStatus(present)
	if present {
		return mcp.NewToolResultText("Queued water status update: bottle filled"), nil
	}
	return mcp.NewToolResultText("Queued water status update: bottle emptied"), nil
}

func (s *Server) handleInjectAlert(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind is required and must be a string"), err
	}

	switch kind {
	case "dry":
		s.controller.InjectDryAlert()
	case "wet":
		s.controller.InjectWetAlert()
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Unknown alert kind: %s", kind)), fmt.Errorf("unknown alert kind %q", kind)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Queued %s soil alert for the actuator", kind)), nil
}

func (s *Server) handleProbeGateway(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.hasGateway() {
		return mcp.NewToolResultError("No gateway device is connected"), nil
	}

	response, err := s.controller.ProbeOnce()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Probe failed: %v", err)), err
	}

	return mcp.NewToolResultText(string(response)), nil
}

func (s *Server) handleRunExperiment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trials, err := request.RequireInt("trials")
	if err != nil {
		return mcp.NewToolResultError("trials is required and must be a number"), err
	}
	if trials < 1 {
		return mcp.NewToolResultError("trials must be at least 1"), fmt.Errorf("trials %d out of range", trials)
	}
	delayMS := request.GetInt("delay_ms", 0)

	if !s.hasGateway() {
		return mcp.NewToolResultError("No gateway device is connected"), nil
	}

	result, err := s.controller.ProbeExperiment(trials, time.Duration(delayMS)*time.Millisecond)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Experiment failed: %v", err)), err
	}

	stats := map[string]any{
		"trials":    len(result.Samples),
		"min_ns":    result.Min().Nanoseconds(),
		"max_ns":    result.Max().Nanoseconds(),
		"median_ns": result.Median().Nanoseconds(),
		"mean_ns":   result.Mean(),
		"stddev_ns": result.StdDev(),
	}
	jsonBytes, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(s.controller.Status(), "", "  ")
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) hasGateway() bool {
	_, ok := s.controller.Status().Links[controller.RoleGateway.String()]
	return ok
}
