package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/localnerve/aptwatch/internal/utils"
)

func TestPingServiceReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	if err := utils.PingService(server.URL, time.Second); err != nil {
		t.Errorf("Expected listening server to be reachable, got %v", err)
	}
}

func TestPingServiceUnreachable(t *testing.T) {
	// A closed port on loopback refuses quickly
	if err := utils.PingService("http://127.0.0.1:1", 200*time.Millisecond); err == nil {
		t.Error("Expected a closed port to be unreachable")
	}
}

func TestPingServiceBadURL(t *testing.T) {
	if err := utils.PingService("://not-a-url", time.Second); err == nil {
		t.Error("Expected an error for a malformed URL")
	}
}
