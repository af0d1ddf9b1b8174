package backend

import (
	"strings"
	"testing"

	"github.com/spec-kit/staff-policy-service/internal/config"
)

func TestNewSelectsProxy(t *testing.T) {
	be, err := New(config.BackendConfig{Mode: ModeProxy, BaseURL: "http://localhost:3000"}, Dependencies{})
	if err != nil {
		t.Fatalf("proxy selection: %v", err)
	}
	if _, ok := be.(*proxyBackend); !ok {
		t.Fatalf("expected proxy strategy, got %T", be)
	}
}

func TestNewRejectsDirectInProxyOnlyEnvironment(t *testing.T) {
	_, err := New(config.BackendConfig{Mode: ModeDirect, ProxyOnly: true}, Dependencies{})
	if err == nil {
		t.Fatalf("direct mode must fail in a proxy-only environment")
	}
	if !strings.Contains(err.Error(), "proxy-only") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsDirectWithoutPool(t *testing.T) {
	_, err := New(config.BackendConfig{Mode: ModeDirect}, Dependencies{})
	if err == nil {
		t.Fatalf("direct mode without a pool must fail")
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := New(config.BackendConfig{Mode: "auto"}, Dependencies{})
	if err == nil {
		t.Fatalf("unknown mode must fail")
	}
}
