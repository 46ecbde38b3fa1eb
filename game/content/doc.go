// Package content serves the text blocks printed by the portfolio shell.
//
// Every resource has a fixed logical name (welcome, help, about, skills,
// projects, experience, contact, resume) and is stored as <name>.txt.
// Defaults are embedded in the binary. A Manager created with a directory
// serves files found there instead, which lets the text be edited without
// rebuilding:
//
//	manager, err := content.NewManager("content")
//	if err != nil {
//		log.Fatal(err)
//	}
//	about := manager.Get("about")
//
// Text is opaque except for the link markup <a href="URL">TEXT</a>.
// ValidateText reports anchors that do not follow it.
package content
