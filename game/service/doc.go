// Package service provides the business logic layer for the terminal
// portfolio.
//
// The service package implements:
//   - Per-visitor sessions, each with its own shell and optional 2048 game
//   - Command execution with deferred output
//   - Tab completion and history navigation
//   - Game operations for the running 2048 board
//   - Access to the content resources
//
// Core Interfaces:
//
// PortfolioService is the main service interface used by every transport.
// SessionManager stores sessions. ContentManager serves the text blocks the
// shell prints.
//
// Concurrency:
//
// All operations on all sessions are serialised on one lock. Deferred shell
// output takes the same lock when it fires, so a session behaves like the
// single-threaded event loop it models. After every change the Notifier
// receives a Snapshot of the session, which the WebSocket hub pushes to
// connected browsers.
//
// Usage:
//
//	contents, _ := content.NewManager("")
//	svc := service.NewPortfolioService(session.NewManager(), contents,
//		service.WithNotifier(hub.PublishSnapshot))
//
//	snap, err := svc.CreateSession(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	snap, err = svc.Execute(ctx, snap.SessionID, "about")
package service
