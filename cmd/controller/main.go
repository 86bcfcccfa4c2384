package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbocsi/growlink/controller"
	"github.com/mbocsi/growlink/mcp"
	"github.com/mbocsi/growlink/shell"
	"github.com/mbocsi/growlink/transport"
	"github.com/mbocsi/growlink/web"
)

func main() {
	monitorPort := flag.Uint("monitor", 0, "Port of the emulated monitor device (0 = not connected)")
	actuatorPort := flag.Uint("actuator", 0, "Port of the emulated actuator device (0 = not connected)")
	gatewayPort := flag.Uint("gateway", 0, "Port of the emulated gateway device (0 = not connected)")
	discover := flag.Bool("discover", false, "Find advertised device emulators over mDNS for ports left unset")
	webAddr := flag.String("web", "", "Address for the web control surface (empty = disabled)")
	mcpMode := flag.Bool("mcp", false, "Serve MCP on stdio instead of the interactive commander")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	setupLogger(*verbose)

	// Explicit port flags win; discovery only fills the gaps.
	if *discover {
		found, err := transport.DiscoverDevices(3 * time.Second)
		if err != nil {
			slog.Error("Device discovery failed", "error", err.Error())
			os.Exit(1)
		}
		if *monitorPort == 0 {
			*monitorPort = uint(found["monitor"])
		}
		if *actuatorPort == 0 {
			*actuatorPort = uint(found["actuator"])
		}
		if *gatewayPort == 0 {
			*gatewayPort = uint(found["gateway"])
		}
	}

	if *monitorPort == 0 && *actuatorPort == 0 && *gatewayPort == 0 {
		fmt.Fprintln(os.Stderr, "Must provide at least one port number.")
		flag.Usage()
		os.Exit(1)
	}

	opts := controller.Options{}
	if *monitorPort != 0 {
		opts.Monitor = dialDevice("monitor", *monitorPort)
	}
	if *actuatorPort != 0 {
		opts.Actuator = dialDevice("actuator", *actuatorPort)
	}
	if *gatewayPort != 0 {
		opts.Gateway = dialDevice("gateway", *gatewayPort)
	}

	ctrl := controller.New(opts)
	ctrl.Start()

	var webServer *web.Server
	if *webAddr != "" {
		webServer = web.NewServer(*webAddr, ctrl)
		go func() {
			if err := webServer.Start(); err != nil {
				slog.Error("Web server stopped", "error", err.Error())
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The commander and the MCP server both own stdin, so only one runs.
	done := make(chan error, 1)
	go func() {
		if *mcpMode {
			done <- mcp.NewServer(ctrl).Run()
		} else {
			done <- shell.New(ctrl, os.Stdin, os.Stdout).Run()
		}
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Error("Command surface stopped", "error", err.Error())
		}
	case <-ctx.Done():
		slog.Info("Interrupt received, shutting down")
	}

	if webServer != nil {
		if err := webServer.Shutdown(); err != nil {
			slog.Error("There was an error when shutting down the web server", "error", err.Error())
		}
	}
	ctrl.Shutdown()
}

func dialDevice(name string, port uint) transport.Link {
	link, err := transport.DialDevice(uint16(port))
	if err != nil {
		slog.Error("Failed to connect to device", "device", name, "port", port, "error", err.Error())
		os.Exit(1)
	}
	slog.Info("Connected to device", "device", name, "port", port, "id", link.ID())
	return link
}

// setupLogger sends logs to stderr so MCP stdio framing on stdout
// stays clean.
func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
