// Package probe verifies that a resolved context server actually starts and
// speaks JSON-RPC by spawning it and performing a single MCP initialize
// round-trip over stdio.
package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/calibremcp/ctxhost/internal/launcher"
	"github.com/calibremcp/ctxhost/internal/logger"
	"github.com/calibremcp/ctxhost/internal/resolver"
)

// protocolVersion is the MCP protocol revision offered in the initialize
// request. Servers negotiate down from it if needed.
const protocolVersion = "2024-11-05"

// Result summarizes what the server reported during initialize.
type Result struct {
	ServerName      string
	ServerVersion   string
	ProtocolVersion string
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	ServerInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

// Initialize spawns the server described by spec, sends an initialize
// request on its stdin, and reads responses from its stdout until the
// initialize reply arrives or ctx ends. The subprocess is terminated before
// returning; the probe never leaves a server running.
func Initialize(ctx context.Context, serverID string, spec resolver.LaunchSpec) (*Result, error) {
	log := logger.WithServer(serverID).With("component", "probe")

	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()

	l := launcher.New(serverID, spec, launcher.WithStdio(stdinR, stdoutW, io.Discard))
	if err := l.Start(ctx); err != nil {
		return nil, err
	}
	defer func() {
		stdinW.Close()
		// Close the read side first so a server still streaming output
		// cannot block the stdout copy and stall Stop.
		stdoutR.Close()
		l.Stop()
		stdoutW.Close()
	}()

	// Unblock the response scanner if the server exits without answering.
	go func() {
		l.Wait()
		stdoutW.Close()
	}()

	req := request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{},
			"clientInfo": map[string]any{
				"name":    "ctxhost",
				"version": "probe",
			},
		},
	}

	type outcome struct {
		result *Result
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		r, err := roundTrip(req, stdinW, stdoutR)
		ch <- outcome{r, err}
	}()

	select {
	case <-ctx.Done():
		log.Warn("probe cancelled", "error", ctx.Err())
		return nil, fmt.Errorf("probe %s: %w", serverID, ctx.Err())
	case out := <-ch:
		if out.err != nil {
			log.Warn("probe failed", "error", out.err)
			return nil, fmt.Errorf("probe %s: %w", serverID, out.err)
		}
		log.Info("probe succeeded",
			"name", out.result.ServerName,
			"version", out.result.ServerVersion,
			"protocol", out.result.ProtocolVersion)
		return out.result, nil
	}
}

// roundTrip writes the initialize request as a single line and scans stdout
// for the matching response, skipping notifications and unparseable lines.
func roundTrip(req request, stdin io.Writer, stdout io.Reader) (*Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if _, err := stdin.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write initialize request: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if string(resp.ID) != "1" {
			continue
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("initialize rejected: %s (code %d)", resp.Error.Message, resp.Error.Code)
		}
		var ir initializeResult
		if err := json.Unmarshal(resp.Result, &ir); err != nil {
			return nil, fmt.Errorf("parse initialize result: %w", err)
		}
		return &Result{
			ServerName:      ir.ServerInfo.Name,
			ServerVersion:   ir.ServerInfo.Version,
			ProtocolVersion: ir.ProtocolVersion,
		}, nil
	}
	if err := scanner.Err(); err != nil && err != io.ErrClosedPipe {
		return nil, fmt.Errorf("read initialize response: %w", err)
	}
	return nil, fmt.Errorf("server exited before responding to initialize")
}
