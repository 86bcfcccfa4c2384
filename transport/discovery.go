package transport

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// DeviceService is the mDNS service type the device simulator
// advertises, one instance per emulated role.
const DeviceService = "_growlink._tcp"

// DiscoverDevices browses mDNS for advertised device emulators and
// returns the listening port per discovered role. Browsing stops when
// the underlying lookup finishes or timeout elapses; finding nothing
// leaves the map empty without an error.
func DiscoverDevices(timeout time.Duration) (map[string]uint16, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	entriesCh := make(chan *mdns.ServiceEntry, 8)

	var lookupErr error
	go func() {
		defer close(entriesCh)
		lookupErr = mdns.Lookup(DeviceService, entriesCh)
	}()

	ports := make(map[string]uint16)
	deadline := time.After(timeout)
	for {
		select {
		case entry, ok := <-entriesCh:
			if !ok {
				// The goroutine wrote lookupErr before closing the channel.
				if lookupErr != nil && len(ports) == 0 {
					return nil, fmt.Errorf("mdns lookup: %w", lookupErr)
				}
				return ports, nil
			}

			role, ok := entryRole(entry)
			if !ok {
				slog.Warn("Ignoring mDNS entry without a role", "name", entry.Name)
				continue
			}
			if entry.Port <= 0 || entry.Port > 65535 {
				slog.Warn("Ignoring mDNS entry with an invalid port", "name", entry.Name, "port", entry.Port)
				continue
			}

			slog.Info("Discovered device emulator", "role", role, "port", entry.Port)
			ports[role] = uint16(entry.Port)

		case <-deadline:
			return ports, nil
		}
	}
}

// entryRole extracts the role from an entry's TXT records.
func entryRole(entry *mdns.ServiceEntry) (string, bool) {
	for _, field := range entry.InfoFields {
		if role, ok := strings.CutPrefix(field, "role="); ok && role != "" {
			return role, true
		}
	}
	return "", false
}
