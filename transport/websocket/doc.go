// Package websocket pushes terminal session updates to browsers.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines that read, write and clean up.
//
// Message Protocol:
//
// Every outgoing frame is one JSON Message. Session changes arrive as
//
//	{"session_id": "...", "event": "snapshot", "snapshot": {...}}
//
// where snapshot is the full service.Snapshot: transcript, input field,
// busy flag, history and, while a game runs, the 2048 board. The first
// frame after connecting carries the current snapshot. Incoming frames are
// ignored. Clients act through the REST API.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	svc := service.NewPortfolioService(sessions, contents,
//		service.WithNotifier(hub.PublishSnapshot))
package websocket
