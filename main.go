// Command termfolio serves a terminal-style portfolio.
//
// It runs in three modes:
//   - serve (default): HTTP server with the browser terminal, REST API,
//     WebSocket snapshot stream and an /mcp endpoint, optionally tunnelled
//     through ngrok
//   - mcp: MCP over stdio for AI agents, reusing a running server or starting
//     an internal one
//   - tui: the same shell in the local terminal via Bubble Tea
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/keuhdall/termfolio/api"
	"github.com/keuhdall/termfolio/game/content"
	"github.com/keuhdall/termfolio/game/service"
	"github.com/keuhdall/termfolio/game/session"
	"github.com/keuhdall/termfolio/game/shell"
	"github.com/keuhdall/termfolio/transport/mcp"
	"github.com/keuhdall/termfolio/transport/websocket"
	"github.com/keuhdall/termfolio/tui"
)

const (
	AppName = "termfolio"
	Version = "1.0.0"
)

// options holds the resolved command-line configuration
type options struct {
	host            string
	port            string
	contentDir      string
	latency         time.Duration
	sessionTTL      time.Duration
	cleanupInterval time.Duration
	debug           bool

	ngrokEnabled bool
	ngrokAuth    string
	ngrokDomain  string
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		host:            cmd.String("host"),
		port:            cmd.String("port"),
		contentDir:      cmd.String("content-dir"),
		latency:         cmd.Duration("latency"),
		sessionTTL:      cmd.Duration("session-ttl"),
		cleanupInterval: cmd.Duration("cleanup-interval"),
		debug:           cmd.Bool("debug"),
		ngrokEnabled:    cmd.Bool("ngrok"),
		ngrokAuth:       cmd.String("ngrok-auth"),
		ngrokDomain:     cmd.String("ngrok-domain"),
	}
}

func (o options) addr() string {
	return net.JoinHostPort(o.host, o.port)
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Every flag can also be set from the
// environment.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "a portfolio you browse like a shell",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("TERMFOLIO_HOST"),
			},
			&cli.StringFlag{
				Name:    "port",
				Value:   "8080",
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("TERMFOLIO_PORT"),
			},
			&cli.StringFlag{
				Name:    "content-dir",
				Value:   "content",
				Usage:   "Directory with .txt files overriding the built-in content (built-in only when missing)",
				Sources: cli.EnvVars("TERMFOLIO_CONTENT_DIR"),
			},
			&cli.DurationFlag{
				Name:    "latency",
				Value:   shell.DefaultLatency,
				Usage:   "Delay before command output appears",
				Sources: cli.EnvVars("TERMFOLIO_LATENCY"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "Remove sessions idle for longer than this",
				Sources: cli.EnvVars("TERMFOLIO_SESSION_TTL"),
			},
			&cli.DurationFlag{
				Name:    "cleanup-interval",
				Value:   time.Hour,
				Usage:   "How often idle sessions are pruned",
				Sources: cli.EnvVars("TERMFOLIO_CLEANUP_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("TERMFOLIO_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serveAction,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server over stdio",
				Action: mcpAction,
			},
			{
				Name:   "tui",
				Usage:  "Open the terminal in this terminal",
				Action: tuiAction,
			},
		},
		Action: serveAction,
	}
}

func setupLogging(opts options) {
	if opts.debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	setupLogging(opts)
	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	hub := websocket.NewHub()
	go hub.Run()

	portfolioService, sessions, err := initializeServices(opts, hub)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	return runHTTPServer(ctx, opts, portfolioService, sessions, hub)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	setupLogging(opts)
	log.Printf("Starting %s v%s (mode: mcp)", AppName, Version)

	return runStdioMCPWithInternalServer(ctx, opts)
}

func tuiAction(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)

	// The alternate screen owns stdout, so logs go to a file or nowhere.
	if opts.debug {
		f, err := tea.LogToFile("termfolio-debug.log", "tui")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	contents, err := content.NewManager(opts.contentDir)
	if err != nil {
		return fmt.Errorf("failed to create content manager: %w", err)
	}
	logContentSource(opts.contentDir, contents)

	return tui.Run(ctx, tui.New(contents, tui.WithLatency(opts.latency)))
}

// initializeServices wires the content and session managers into the
// portfolio service. Snapshots are published through hub when it is set.
func initializeServices(opts options, hub *websocket.Hub) (service.PortfolioService, *session.Manager, error) {
	contents, err := content.NewManager(opts.contentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create content manager: %w", err)
	}
	logContentSource(opts.contentDir, contents)

	sessions := session.NewManager()

	svcOpts := []service.Option{service.WithLatency(opts.latency)}
	if hub != nil {
		svcOpts = append(svcOpts,
			service.WithNotifier(hub.PublishSnapshot),
			service.WithEventNotifier(hub.BroadcastEvent),
		)
	}

	return service.NewPortfolioService(sessions, contents, svcOpts...), sessions, nil
}

func logContentSource(requested string, contents *content.Manager) {
	switch {
	case contents.Dir() != "":
		log.Printf("Serving content from %s (built-in content as fallback)", contents.Dir())
	case requested != "":
		log.Printf("Content directory %s not found, serving built-in content", requested)
	}
}

// newRouter mounts the API server and the /mcp proxy endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer serves the terminal page, REST API, WebSocket hub and /mcp
// until SIGINT or SIGTERM. With ngrok enabled the same router is also
// served through a public tunnel.
func runHTTPServer(ctx context.Context, opts options, portfolioService service.PortfolioService, sessions *session.Manager, hub *websocket.Hub) error {
	addr := opts.addr()
	apiServer := api.NewServer(portfolioService, hub, api.WithSessionListing(opts.debug))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, sessions, opts.cleanupInterval, opts.sessionTTL)
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("Terminal: http://%s/", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	if opts.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter)
		}()
	}

	var runErr error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case runErr = <-serverErr:
		log.Printf("HTTP server failed: %v", runErr)
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrokTunnel serves handler through ngrok until ctx is cancelled
func runNgrokTunnel(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  Terminal (ngrok): %s/", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// already listening on the configured address, or starts an internal one on
// a random loopback port.
func runStdioMCPWithInternalServer(ctx context.Context, opts options) error {
	externalURL := fmt.Sprintf("http://%s", opts.addr())
	baseURL := externalURL

	log.Printf("Checking for external API server at %s...", externalURL)
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/healthz")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		internalURL, shutdown, err := startInternalServer(opts)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// startInternalServer serves the API on a random loopback port
func startInternalServer(opts options) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	portfolioService, _, err := initializeServices(opts, hub)
	if err != nil {
		listener.Close()
		return "", nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Loopback only and owned by this MCP process, so listing is safe here.
	httpServer := &http.Server{Handler: api.NewServer(portfolioService, hub, api.WithSessionListing(true))}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	addr := listener.Addr().String()
	log.Printf("Started internal HTTP server on %s for MCP stdio", addr)

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}
	return fmt.Sprintf("http://%s", addr), shutdown, nil
}
