package probe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/calibremcp/ctxhost/internal/resolver"
)

// fakeServer builds a LaunchSpec that runs a shell script standing in for a
// context server speaking line-delimited JSON-RPC on stdio.
func fakeServer(script string) resolver.LaunchSpec {
	return resolver.LaunchSpec{Command: "sh", Args: []string{"-c", script}}
}

func TestInitializeSuccess(t *testing.T) {
	spec := fakeServer(`read line; printf '%s\n' '{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","serverInfo":{"name":"fake-mcp","version":"1.2.3"}}}'`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := Initialize(ctx, "fake-mcp", spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ServerName != "fake-mcp" {
		t.Errorf("server name: got %q, want %q", result.ServerName, "fake-mcp")
	}
	if result.ServerVersion != "1.2.3" {
		t.Errorf("server version: got %q, want %q", result.ServerVersion, "1.2.3")
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocol version: got %q, want %q", result.ProtocolVersion, "2024-11-05")
	}
}

func TestInitializeSkipsNotifications(t *testing.T) {
	spec := fakeServer(`read line
printf '%s\n' '{"jsonrpc":"2.0","method":"notifications/message","params":{}}'
printf '%s\n' '{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","serverInfo":{"name":"chatty","version":"0.1"}}}'`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := Initialize(ctx, "chatty", spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ServerName != "chatty" {
		t.Errorf("server name: got %q, want %q", result.ServerName, "chatty")
	}
}

func TestInitializeServerRejects(t *testing.T) {
	spec := fakeServer(`read line; printf '%s\n' '{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"unsupported protocol"}}'`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Initialize(ctx, "rejecting", spec)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported protocol") {
		t.Errorf("expected server error message, got %q", err.Error())
	}
}

func TestInitializeServerExitsEarly(t *testing.T) {
	spec := fakeServer(`exit 0`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Initialize(ctx, "quitter", spec)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "exited before responding") {
		t.Errorf("expected early-exit error, got %q", err.Error())
	}
}

func TestInitializeTimeout(t *testing.T) {
	spec := fakeServer(`sleep 30`)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Initialize(ctx, "silent", spec)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("probe took %v, should respect the context deadline", elapsed)
	}
}

func TestInitializeStartFailure(t *testing.T) {
	spec := resolver.LaunchSpec{Command: "definitely-not-a-real-binary-ctxhost"}

	_, err := Initialize(context.Background(), "missing", spec)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
