package shell

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/mbocsi/growlink/controller"
	"github.com/mbocsi/growlink/proto"
	"github.com/mbocsi/growlink/transport"
)

func runScript(t *testing.T, ctrl *controller.Controller, script string) string {
	t.Helper()
	var out bytes.Buffer
	if err := New(ctrl, strings.NewReader(script), &out).Run(); err != nil {
		t.Fatalf("Expected shell to finish cleanly, got error: %v", err)
	}
	return out.String()
}

// gatewayPipe returns a controller wired to a fake gateway that answers
// count probe requests with the translated HTTP request text.
func gatewayPipe(t *testing.T, count int) *controller.Controller {
	t.Helper()
	local, remote := net.Pipe()
	t.Cleanup(func() {
		local.Close()
		remote.Close()
	})

	go func() {
		request := make([]byte, proto.ProbeRequestSize)
		response := []byte("POST /moisture HTTP/1.1\r\nHost: localhost:10086\r\n\r\n100\n")
		for i := 0; i < count; i++ {
			if _, err := io.ReadFull(remote, request); err != nil {
				return
			}
			if _, err := remote.Write(response); err != nil {
				return
			}
		}
	}()

	return controller.New(controller.Options{Gateway: transport.NewTCPLink(local)})
}

func TestRun_ExitPrintsGoodbye(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "exit\n")

	if !strings.Contains(out, "Commander > ") {
		t.Errorf("Expected prompt in output, got %q", out)
	}
	if !strings.Contains(out, "Goodbye.") {
		t.Errorf("Expected goodbye message, got %q", out)
	}
}

func TestRun_ReturnsOnInputEnd(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "")

	if !strings.Contains(out, "Commander > ") {
		t.Errorf("Expected at least one prompt, got %q", out)
	}
}

func TestRun_EmptyLineRepromptsWithoutError(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "\n\nexit\n")

	if got := strings.Count(out, "Commander > "); got != 3 {
		t.Errorf("Expected 3 prompts, got %d in %q", got, out)
	}
	if strings.Contains(out, "Unknown command") {
		t.Errorf("Expected empty lines to be ignored, got %q", out)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "bogus\nexit\n")

	if !strings.Contains(out, "Unknown command: [bogus].") {
		t.Errorf("Expected unknown command message, got %q", out)
	}
}

func TestRun_SoilQueuesCommand(t *testing.T) {
	ctrl := controller.New(controller.Options{})

	runScript(t, ctrl, "soil 30\nexit\n")

	if depth := ctrl.Status().QueueDepth; depth != 1 {
		t.Errorf("Expected one queued command, got %d", depth)
	}
}

func TestRun_SoilUsageOnBadArgs(t *testing.T) {
	ctrl := controller.New(controller.Options{})

	out := runScript(t, ctrl, "soil\nsoil abc\nsoil 1 2\nexit\n")

	if got := strings.Count(out, "Usage: soil level"); got != 3 {
		t.Errorf("Expected usage printed 3 times, got %d in %q", got, out)
	}
	if depth := ctrl.Status().QueueDepth; depth != 0 {
		t.Errorf("Expected no queued commands, got %d", depth)
	}
}

func TestRun_WaterUsageOnBadArgs(t *testing.T) {
	ctrl := controller.New(controller.Options{})

	out := runScript(t, ctrl, "water\nwater full\nexit\n")

	if got := strings.Count(out, "Usage: water status"); got != 2 {
		t.Errorf("Expected usage printed twice, got %d in %q", got, out)
	}
}

func TestRun_AlertCommandsQueue(t *testing.T) {
	ctrl := controller.New(controller.Options{})

	runScript(t, ctrl, "dry\nwet\nwater 1\nexit\n")

	if depth := ctrl.Status().QueueDepth; depth != 3 {
		t.Errorf("Expected three queued commands, got %d", depth)
	}
}

func TestRun_CoapWithoutGateway(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "coap\nexit\n")

	if !strings.Contains(out, "No gateway device is connected.") {
		t.Errorf("Expected missing gateway message, got %q", out)
	}
}

func TestRun_CoapPrintsTranslatedRequest(t *testing.T) {
	ctrl := gatewayPipe(t, 1)

	out := runScript(t, ctrl, "coap\nexit\n")

	if !strings.Contains(out, "Received a HTTP request message:") {
		t.Errorf("Expected response header line, got %q", out)
	}
	if !strings.Contains(out, "POST /moisture HTTP/1.1") {
		t.Errorf("Expected translated HTTP request in output, got %q", out)
	}
}

func TestRun_GatewayUsageOnBadArgs(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "gateway\ngateway 5\ngateway x y\nexit\n")

	if got := strings.Count(out, "Usage: gateway trials delay"); got != 3 {
		t.Errorf("Expected usage printed 3 times, got %d in %q", got, out)
	}
}

func TestRun_GatewayExperimentPrintsStatistics(t *testing.T) {
	ctrl := gatewayPipe(t, 2)

	out := runScript(t, ctrl, "gateway 2 0\nexit\n")

	if !strings.Contains(out, "Running the gateway experiment...") {
		t.Errorf("Expected experiment banner, got %q", out)
	}
	for _, label := range []string{"- Min = ", "- Max = ", "- Med = ", "- Avg = ", "- Std = "} {
		if !strings.Contains(out, label) {
			t.Errorf("Expected %q in experiment output, got %q", label, out)
		}
	}
}

func TestRun_HelpListsCommands(t *testing.T) {
	out := runScript(t, controller.New(controller.Options{}), "help\nexit\n")

	for _, cmd := range []string{"soil", "water", "dry", "wet", "coap", "gateway", "exit"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("Expected help to mention %q, got %q", cmd, out)
		}
	}
}
