package main

import (
	"flag"
	"log/slog"
	"os"
	"sync"

	"github.com/mbocsi/growlink/device"
)

func main() {
	monitorPort := flag.Uint("monitor", 9000, "Port for the monitor emulator (0 = disabled)")
	actuatorPort := flag.Uint("actuator", 9001, "Port for the actuator emulator (0 = disabled)")
	gatewayPort := flag.Uint("gateway", 9002, "Port for the gateway emulator (0 = disabled)")
	advertise := flag.Bool("advertise", false, "Advertise the emulators over mDNS")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if *monitorPort == 0 && *actuatorPort == 0 && *gatewayPort == 0 {
		slog.Error("All emulators disabled, nothing to run")
		os.Exit(1)
	}

	var wg sync.WaitGroup
	if *monitorPort != 0 {
		serve(&wg, "monitor", uint16(*monitorPort), device.NewMonitor(), *advertise)
	}
	if *actuatorPort != 0 {
		serve(&wg, "actuator", uint16(*actuatorPort), device.NewActuator(), *advertise)
	}
	if *gatewayPort != 0 {
		serve(&wg, "gateway", uint16(*gatewayPort), device.NewGateway(), *advertise)
	}
	wg.Wait()
}

// serve runs one emulator, accepting a fresh controller session each
// time the previous one ends.
func serve(wg *sync.WaitGroup, name string, port uint16, script device.Script, advertise bool) {
	em, err := device.Listen(name, port, script)
	if err != nil {
		slog.Error("Failed to start device emulator", "device", name, "error", err.Error())
		os.Exit(1)
	}

	if advertise {
		// The responder answers queries for the life of the process.
		if _, err := device.Advertise(name, em.Port()); err != nil {
			slog.Error("Failed to advertise device emulator", "device", name, "error", err.Error())
			os.Exit(1)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			if err := em.Run(); err != nil {
				slog.Error("Device emulator stopped", "device", name, "error", err.Error())
				return
			}
		}
	}()
}
