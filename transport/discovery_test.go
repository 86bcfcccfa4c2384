package transport

import (
	"testing"

	"github.com/hashicorp/mdns"
)

func TestEntryRole(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		role   string
		found  bool
	}{
		{"role only", []string{"role=monitor"}, "monitor", true},
		{"role among other records", []string{"ver=1", "role=gateway"}, "gateway", true},
		{"empty role", []string{"role="}, "", false},
		{"no role record", []string{"ver=1"}, "", false},
		{"no records", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, found := entryRole(&mdns.ServiceEntry{Name: tt.name, InfoFields: tt.fields})
			if found != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, found)
			}
			if role != tt.role {
				t.Errorf("Expected role %q, got %q", tt.role, role)
			}
		})
	}
}
