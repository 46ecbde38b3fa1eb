package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/keuhdall/termfolio/api"
	"github.com/keuhdall/termfolio/game/shell"
	"github.com/keuhdall/termfolio/transport/mcp"
	"github.com/keuhdall/termfolio/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "termfolio" {
		t.Errorf("Expected app name termfolio, got %s", AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	var got options
	app := newApp()
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		got = optionsFrom(cmd)
		return nil
	}

	if err := app.Run(context.Background(), []string{AppName}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.host != "localhost" || got.port != "8080" {
		t.Errorf("Expected localhost:8080, got %s", got.addr())
	}
	if got.latency != shell.DefaultLatency {
		t.Errorf("Expected latency %v, got %v", shell.DefaultLatency, got.latency)
	}
	if got.sessionTTL != 24*time.Hour {
		t.Errorf("Expected session TTL 24h, got %v", got.sessionTTL)
	}
	if got.contentDir != "content" {
		t.Errorf("Expected content dir %q by default, got %q", "content", got.contentDir)
	}
}

func TestFlagOverrides(t *testing.T) {
	var got options
	app := newApp()
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		got = optionsFrom(cmd)
		return nil
	}

	t.Setenv("TERMFOLIO_PORT", "9090")
	args := []string{AppName, "--host", "0.0.0.0", "--latency", "50ms", "--debug"}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.addr() != "0.0.0.0:9090" {
		t.Errorf("Expected 0.0.0.0:9090, got %s", got.addr())
	}
	if got.latency != 50*time.Millisecond {
		t.Errorf("Expected latency 50ms, got %v", got.latency)
	}
	if !got.debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestInitializeServices(t *testing.T) {
	portfolioService, sessions, err := initializeServices(options{latency: time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if portfolioService == nil || sessions == nil {
		t.Fatal("Expected services to be initialized")
	}

	snap, err := portfolioService.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", sessions.Count())
	}
	if len(snap.Transcript) != 1 {
		t.Errorf("Expected welcome entry, got %d entries", len(snap.Transcript))
	}
}

func TestInitializeServices_MissingContentDir(t *testing.T) {
	portfolioService, _, err := initializeServices(options{contentDir: "/non/existent/path"}, nil)
	if err != nil {
		t.Fatalf("Expected fallback to built-in content, got %v", err)
	}

	text, err := portfolioService.GetContent(context.Background(), "about")
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if text == "" {
		t.Error("Expected built-in about text")
	}
}

func TestInitializeServices_ContentPathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := initializeServices(options{contentDir: path}, nil); err == nil {
		t.Error("Expected error when the content path is a file")
	}
}

func TestSessionCleanupRoutine_StopsOnCancel(t *testing.T) {
	_, sessions, err := initializeServices(options{}, nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, sessions, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup routine did not stop")
	}
}

func TestMCPEndpoint(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()

	portfolioService, _, err := initializeServices(options{latency: time.Millisecond}, hub)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	router := newRouter(api.NewServer(portfolioService, hub), mcp.NewClient("http://127.0.0.1:0"))

	t.Run("Rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("Lists tools", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "tools/list",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", bytes.NewReader(body)))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if !bytes.Contains(w.Body.Bytes(), []byte("run_command")) {
			t.Errorf("Expected run_command tool in response, got %s", w.Body.String())
		}
	})

	t.Run("API is mounted", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})
}
