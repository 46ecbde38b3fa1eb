// Package api provides the HTTP REST API and the browser terminal page.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a new terminal session
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=N);
//     403 unless the server was built WithSessionListing(true)
//   - GET /api/sessions/{id} - Get a session snapshot
//   - DELETE /api/sessions/{id} - Delete a session
//
// Shell:
//   - POST /api/sessions/{id}/execute - Run a command line {"line": "help"}
//   - POST /api/sessions/{id}/complete - Tab completion {"input": "ab"}
//   - POST /api/sessions/{id}/navigate - History navigation {"direction": "up|down"}
//   - PUT /api/sessions/{id}/input - Replace the input line {"input": "..."}
//
// Execute answers 202 Accepted: command output lands after the session's
// latency and is pushed over the WebSocket as a fresh snapshot.
//
// Game:
//   - GET /api/sessions/{id}/game - Current 2048 state
//   - POST /api/sessions/{id}/game/move - {"direction": "up|down|left|right"}
//   - POST /api/sessions/{id}/game/key - Raw key press {"key": "w"}
//   - POST /api/sessions/{id}/game/restart - Start a new board
//   - POST /api/sessions/{id}/game/exit - Leave the game and return to the shell
//
// Content:
//   - GET /api/content - List content files
//   - GET /api/content/{name} - Read one file, with an HTML rendering
//
// Other:
//   - GET /ws?session={id} - WebSocket snapshot stream
//   - GET /healthz - Health check
//   - GET / - Terminal page
//
// Errors are returned as JSON:
//
//	{"error": "session not found"}
//
// with 403 when session listing is off, 404 for unknown sessions or content, 409 when the shell is busy or
// the game state does not allow the operation, and 400 for bad input.
package api
