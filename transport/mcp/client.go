package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/keuhdall/termfolio/game/content"
	"github.com/keuhdall/termfolio/game/engine"
	"github.com/keuhdall/termfolio/game/service"
	"github.com/keuhdall/termfolio/game/shell"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultPollTimeout  = 5 * time.Second
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer

	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"termfolio",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(`termfolio - MCP Interface

A portfolio presented as a terminal. Each session is one visitor's shell.
This is a thin client that proxies all requests to the REST API server.

SHELL COMMANDS:
help, about, skills, projects, experience, contact, clear, whoami, date,
uptime, ls, cat <file>, echo <text>, welcome, 2048

Command output arrives after a short delay; run_command waits for it.

2048:
Running the 2048 command starts a game in the session. Combine tiles to reach
the target. While a game runs, shell commands are refused until game_exit.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: Session management
- run_command: Run a shell command line and return its output
- complete_command: Tab completion for a partial command line
- navigate_history: Walk the command history (up/down)
- game_state / game_move / game_restart / game_exit: Play 2048
- list_content / read_content: Read the portfolio text files directly`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new terminal session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active terminal sessions (the server must allow session listing)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Show the transcript and state of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Shell
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_command",
		Description: "Run a command line in the session's shell and wait for its output",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"line": map[string]interface{}{
					"type":        "string",
					"description": "Command line, e.g. 'cat about.txt'",
				},
			},
			Required: []string{"session_id", "line"},
		},
	}, c.handleRunCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "complete_command",
		Description: "Tab-complete a partial command line",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"input": map[string]interface{}{
					"type":        "string",
					"description": "Partial command line, e.g. 'ab' or 'cat sk'",
				},
			},
			Required: []string{"session_id", "input"},
		},
	}, c.handleComplete)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "navigate_history",
		Description: "Move through the command history and return the recalled line",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "History direction",
					"enum":        []string{string(shell.HistoryUp), string(shell.HistoryDown)},
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleNavigate)

	// Game
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current 2048 board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_move",
		Description: "Slide all 2048 tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to slide",
					"enum":        []string{"up", "down", "left", "right"},
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleGameMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_restart",
		Description: "Start a fresh 2048 board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_exit",
		Description: "Leave 2048 and return to the shell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameExit)

	// Content
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_content",
		Description: "List the portfolio text files",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListContent)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "read_content",
		Description: "Read a portfolio text file without a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Content name, e.g. 'about' or 'contact.txt'",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleReadContent)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	reqURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// waitIdle polls the session until its pending output has landed
func (c *Client) waitIdle(ctx context.Context, snap *service.Snapshot) (*service.Snapshot, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for snap.Busy {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for command output")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		var next service.Snapshot
		if err := c.apiCall("GET", sessionPath(snap.SessionID, ""), nil, &next); err != nil {
			return nil, err
		}
		snap = &next
	}
	return snap, nil
}

// Tool handlers

// sessionArg returns the session_id argument, or a tool error when it is
// missing or empty
func sessionArg(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var snap service.Snapshot
	err := c.apiCall("POST", "/api/sessions", nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n\n%s", snap.SessionID, formatTranscript(&snap))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	err := c.apiCall("GET", "/api/sessions", nil, &resp)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Active sessions: %d\n", resp.Count))
	for _, info := range resp.Sessions {
		sb.WriteString(formatSessionInfo(info))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	var snap service.Snapshot
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTranscript(&snap)), nil
}

func (c *Client) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	line, err := request.RequireString("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snap service.Snapshot
	err = c.apiCall("POST", sessionPath(sessionID, "/execute"), map[string]string{"line": line}, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	done, err := c.waitIdle(ctx, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(done)), nil
}

func (c *Client) handleComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.CompletionResult
	err = c.apiCall("POST", sessionPath(sessionID, "/complete"), map[string]string{"input": input}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCompletion(&result)), nil
}

func (c *Client) handleNavigate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}
	direction, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snap service.Snapshot
	err = c.apiCall("POST", sessionPath(sessionID, "/navigate"), map[string]string{"direction": direction}, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if snap.Cursor == shell.NotBrowsing {
		return mcp.NewToolResultText("Not browsing history. Input: " + snap.Input), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("History [%d/%d]: %s", snap.Cursor+1, len(snap.History), snap.Input)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.gameCall(request, "GET", "", nil)
}

func (c *Client) handleGameMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	direction, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.gameCall(request, "POST", "/move", map[string]string{"direction": direction})
}

func (c *Client) handleGameRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.gameCall(request, "POST", "/restart", nil)
}

func (c *Client) gameCall(request mcp.CallToolRequest, method, suffix string, body interface{}) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	var result service.GameResult
	err := c.apiCall(method, sessionPath(sessionID, "/game"+suffix), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameResult(&result)), nil
}

func (c *Client) handleGameExit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := sessionArg(request)
	if errResult != nil {
		return errResult, nil
	}

	var snap service.Snapshot
	err := c.apiCall("POST", sessionPath(sessionID, "/game/exit"), nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Left 2048, back at " + snap.Prompt), nil
}

func (c *Client) handleListContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var infos []*content.Info
	err := c.apiCall("GET", "/api/content", nil, &infos)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Content files: %d\n", len(infos)))
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("- %s (%d bytes, %s)\n", info.Filename, info.Size, info.Source))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleReadContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("content name is required"), nil
	}

	var resp map[string]string
	err = c.apiCall("GET", "/api/content/"+url.PathEscape(name), nil, &resp)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(plainText(resp["content"])), nil
}

// Formatting helpers

// plainText flattens link markup to "text (url)"
func plainText(s string) string {
	var sb strings.Builder
	for _, seg := range shell.ParseLinks(s) {
		if seg.IsLink() && seg.Text != seg.URL {
			sb.WriteString(fmt.Sprintf("%s (%s)", seg.Text, seg.URL))
		} else {
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

func formatSessionInfo(info *service.SessionInfo) string {
	state := "idle"
	switch {
	case info.GameActive:
		state = "playing 2048"
	case info.Busy:
		state = "busy"
	}
	return fmt.Sprintf("- %s: %d commands, %s, last active %s\n",
		info.ID, info.Commands, state, info.LastAccessedAt.Format(time.RFC3339))
}

func formatTranscript(snap *service.Snapshot) string {
	var sb strings.Builder
	for _, entry := range snap.Transcript {
		if entry.Input != "" {
			sb.WriteString(fmt.Sprintf("%s %s\n", snap.Prompt, entry.Input))
		}
		if entry.Pending {
			sb.WriteString("...\n")
			continue
		}
		if entry.Output != "" {
			sb.WriteString(plainText(entry.Output))
			sb.WriteString("\n")
		}
	}
	if snap.GameActive {
		sb.WriteString("[2048 is running]\n")
	}
	return sb.String()
}

func formatCommandResult(snap *service.Snapshot) string {
	if len(snap.Transcript) == 0 {
		return "(screen cleared)"
	}

	last := snap.Transcript[len(snap.Transcript)-1]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", snap.Prompt, last.Input))
	sb.WriteString(plainText(last.Output))

	if snap.GameActive && snap.Game != nil {
		sb.WriteString(fmt.Sprintf("\n\n2048 started. Goal: %d. Use game_move to play.\n", snap.Game.Target))
	}
	return sb.String()
}

func formatCompletion(result *service.CompletionResult) string {
	switch {
	case len(result.Matches) == 0:
		return "No completions for: " + result.Input
	case result.Listed:
		return fmt.Sprintf("Candidates: %s", strings.Join(result.Matches, ", "))
	default:
		return "Completed: " + result.Input
	}
}

func formatGameResult(result *service.GameResult) string {
	var sb strings.Builder
	if result.State != nil {
		sb.WriteString(fmt.Sprintf("Score: %d   Goal: %d   Moves: %d\n", result.State.Score, result.State.Target, result.State.Moves))
	}
	sb.WriteString(result.Board)
	sb.WriteString("\n")
	if result.Banner != "" {
		sb.WriteString(result.Banner)
		sb.WriteString("\n")
	}
	if result.Action.Kind == engine.ActionMove && !result.Action.Moved {
		sb.WriteString("Nothing moved.\n")
	}
	if len(result.PossibleMoves) > 0 {
		moves := make([]string, len(result.PossibleMoves))
		for i, d := range result.PossibleMoves {
			moves[i] = string(d)
		}
		sb.WriteString("Possible moves: " + strings.Join(moves, ", ") + "\n")
	}
	if !result.GameActive {
		sb.WriteString("Game closed.\n")
	}
	return sb.String()
}
