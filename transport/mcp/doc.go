// Package mcp exposes the terminal portfolio to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes one or more REST calls
// against the api package, so agents and browsers share the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: Session management
//   - run_command: Execute a command line and wait for its deferred output
//   - complete_command: Tab completion
//   - navigate_history: Walk the command history
//   - game_state, game_move, game_restart, game_exit: Play 2048
//   - list_content, read_content: Read portfolio text without a session
//
// Link markup in command output is flattened to "text (url)" so agents see
// plain text.
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp, handled by GetMCPServer().HandleMessage
package mcp
