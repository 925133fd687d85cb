// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager setup and service entry conversion
package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "Test Scope", Port: 8928})
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	mgr.Stop()

	select {
	case <-mgr.ctx.Done():
	default:
		t.Error("expected Stop to cancel the manager context")
	}
}

func TestAdvertiseRejectsInvalidPort(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "bad", Port: 0})
	defer mgr.Stop()
	if err := mgr.Advertise(); err == nil {
		t.Error("expected error for port 0")
	}
}

func TestToServerInfo(t *testing.T) {
	tests := []struct {
		name     string
		entry    *mdns.ServiceEntry
		expected string
	}{
		{"nil", nil, ""},
		{"no address", &mdns.ServiceEntry{Name: "a", Port: 8928}, ""},
		{"no port", &mdns.ServiceEntry{Name: "a", AddrV4: net.IPv4(10, 0, 0, 2)}, ""},
		{"complete", &mdns.ServiceEntry{Name: "lab", AddrV4: net.IPv4(10, 0, 0, 2), Port: 8928}, "10.0.0.2:8928"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := toServerInfo(tt.entry)
			if tt.expected == "" {
				if info != nil {
					t.Errorf("expected nil, got %+v", info)
				}
				return
			}
			if info == nil || info.Addr() != tt.expected {
				t.Errorf("expected %s, got %+v", tt.expected, info)
			}
		})
	}
}

func TestLookupHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if _, err := Lookup(ctx); err == nil {
		t.Error("expected error from cancelled lookup")
	}
	if time.Since(start) > time.Second {
		t.Error("lookup should return as soon as the context is done")
	}
}
