package device

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/hashicorp/mdns"
	"github.com/mbocsi/growlink/transport"
)

// Advertise publishes an mDNS service instance for one emulated device
// so controllers can discover its port instead of configuring it. The
// returned responder answers queries until Shutdown is called.
func Advertise(role string, port uint16) (*mdns.Server, error) {
	service, err := mdns.NewMDNSService(
		"growlink-"+role,
		transport.DeviceService,
		"", "",
		int(port),
		[]net.IP{net.IPv4(127, 0, 0, 1)},
		[]string{"role=" + role},
	)
	if err != nil {
		return nil, fmt.Errorf("mdns service for %s: %w", role, err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns responder for %s: %w", role, err)
	}

	slog.Info("Advertising device emulator", "role", role, "port", port)
	return server, nil
}
