// Package shell implements the interactive commander that drives the
// controller from a terminal.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mbocsi/growlink/controller"
)

const prompt = "Commander > "

// Shell reads operator commands line by line and applies them to the
// controller.
type Shell struct {
	controller *controller.Controller
	in         io.Reader
	out        io.Writer
}

func New(ctrl *controller.Controller, in io.Reader, out io.Writer) *Shell {
	return &Shell{controller: ctrl, in: in, out: out}
}

// Run loops on the prompt until the operator types exit or the input
// stream ends.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		}
		s.execute(args)
	}
}

func (s *Shell) execute(args []string) {
	switch args[0] {
	case "soil":
		s.cmdSoil(args)
	case "water":
		s.cmdWater(args)
	case "dry":
		s.controller.InjectDryAlert()
	case "wet":
		s.controller.InjectWetAlert()
	case "coap":
		s.cmdCoap()
	case "gateway":
		s.cmdGateway(args)
	case "help":
		s.printHelp()
	default:
		fmt.Fprintf(s.out, "Unknown command: [%s].\n", args[0])
	}
}

func (s *Shell) cmdSoil(args []string) {
	usage := func() {
		fmt.Fprintln(s.out, "Usage: soil level")
		fmt.Fprintln(s.out, "e.g. `soil 30` to set the moisture level to 30%.")
	}
	if len(args) != 2 {
		usage()
		return
	}
	level, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		usage()
		return
	}
	s.controller.SetSoilMoisture(uint32(level))
}

func (s *Shell) cmdWater(args []string) {
	usage := func() {
		fmt.Fprintln(s.out, "Usage: water status")
		fmt.Fprintln(s.out, "e.g. `water 1` to fill the bottle with water.")
		fmt.Fprintln(s.out, "     `water 0` to empty the bottle.")
	}
	if len(args) != 2 {
		usage()
		return
	}
	status, err := strconv.Atoi(args[1])
	if err != nil {
		usage()
		return
	}
	s.controller.SetWaterStatus(status != 0)
}

func (s *Shell) cmdCoap() {
	if !s.hasGateway() {
		fmt.Fprintln(s.out, "No gateway device is connected.")
		return
	}

	response, err := s.controller.ProbeOnce()
	if err != nil {
		fmt.Fprintf(s.out, "Probe failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Received a HTTP request message:")
	fmt.Fprintf(s.out, "%s\n", response)
}

func (s *Shell) cmdGateway(args []string) {
	usage := func() {
		fmt.Fprintln(s.out, "Usage: gateway trials delay")
		fmt.Fprintln(s.out, "where `trials` specify the number of trials;")
		fmt.Fprintln(s.out, "      `delay` specify the amount of time in milliseconds between each trial.")
	}
	if len(args) != 3 {
		usage()
		return
	}
	trials, err := strconv.Atoi(args[1])
	if err != nil || trials < 1 {
		usage()
		return
	}
	delay, err := strconv.Atoi(args[2])
	if err != nil || delay < 0 {
		usage()
		return
	}
	if !s.hasGateway() {
		fmt.Fprintln(s.out, "No gateway device is connected.")
		return
	}

	fmt.Fprintln(s.out, "Running the gateway experiment...")
	fmt.Fprintf(s.out, "\tTrials = %d; Delay = %d milliseconds.\n", trials, delay)

	result, err := s.controller.ProbeExperiment(trials, time.Duration(delay)*time.Millisecond)
	if err != nil {
		fmt.Fprintf(s.out, "Experiment failed: %v\n", err)
		return
	}

	fmt.Fprintln(s.out, "Execution time:")
	fmt.Fprintf(s.out, "- Min = %d nanoseconds.\n", result.Min().Nanoseconds())
	fmt.Fprintf(s.out, "- Max = %d nanoseconds.\n", result.Max().Nanoseconds())
	fmt.Fprintf(s.out, "- Med = %d nanoseconds.\n", result.Median().Nanoseconds())
	fmt.Fprintf(s.out, "- Avg = %.2f nanoseconds.\n", result.Mean())
	fmt.Fprintf(s.out, "- Std = %.2f nanoseconds.\n", result.StdDev())
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Available commands:")
	fmt.Fprintln(s.out, "  soil <level>             Set the soil moisture level on the monitor.")
	fmt.Fprintln(s.out, "  water <0|1>              Empty or fill the actuator's water bottle.")
	fmt.Fprintln(s.out, "  dry                      Send a dry soil alert to the actuator.")
	fmt.Fprintln(s.out, "  wet                      Send a wet soil alert to the actuator.")
	fmt.Fprintln(s.out, "  coap                     Probe the gateway with a single CoAP request.")
	fmt.Fprintln(s.out, "  gateway <trials> <delay> Run the gateway round-trip experiment.")
	fmt.Fprintln(s.out, "  help                     Show this message.")
	fmt.Fprintln(s.out, "  exit                     Quit the commander.")
}

func (s *Shell) hasGateway() bool {
	_, ok := s.controller.Status().Links[controller.RoleGateway.String()]
	return ok
}
