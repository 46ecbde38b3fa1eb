// Package session stores the terminal sessions of portfolio visitors.
//
// Manager is a thread-safe map of service.Session values keyed by a
// case-insensitive ID. New sessions get a random UUID unless the caller
// chooses an ID. The manager never builds sessions itself: Create takes a
// builder so the service decides how a session's shell is wired.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", func(id string) (*service.Session, error) {
//		return &service.Session{ID: id, Shell: shell.New(registry)}, nil
//	})
//
// Sessions are not persisted. Idle ones are dropped by
// CleanupExpiredSessions, which the server runs on a ticker.
package session
