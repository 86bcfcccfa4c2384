package integration

import (
	"testing"
	"time"

	"github.com/mbocsi/growlink/device"
	"github.com/mbocsi/growlink/transport"
)

// startDevice runs script behind an emulator on an ephemeral port and
// returns a link dialed to it.
func startDevice(t *testing.T, name string, script device.Script) transport.Link {
	t.Helper()

	em, err := device.Listen(name, 0, script)
	if err != nil {
		t.Fatalf("Failed to start %s emulator: %v", name, err)
	}
	t.Cleanup(func() { em.Close() })

	go em.Run()

	link, err := transport.DialDevice(em.Port())
	if err != nil {
		t.Fatalf("Failed to dial %s emulator: %v", name, err)
	}
	t.Cleanup(func() { link.Close() })
	return link
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}
