package shell

import (
	"fmt"
	"strings"
	"time"
)

// CommandID enumerates the commands the shell understands
type CommandID int

const (
	CmdHelp CommandID = iota
	CmdAbout
	CmdSkills
	CmdProjects
	CmdExperience
	CmdContact
	CmdClear
	CmdWhoami
	CmdDate
	CmdUptime
	CmdLs
	CmdCat
	CmdEcho
	CmdWelcome
	Cmd2048

	numCommands
)

// Order matters: completion candidates are listed in this order.
var commandNames = [numCommands]string{
	CmdHelp:       "help",
	CmdAbout:      "about",
	CmdSkills:     "skills",
	CmdProjects:   "projects",
	CmdExperience: "experience",
	CmdContact:    "contact",
	CmdClear:      "clear",
	CmdWhoami:     "whoami",
	CmdDate:       "date",
	CmdUptime:     "uptime",
	CmdLs:         "ls",
	CmdCat:        "cat",
	CmdEcho:       "echo",
	CmdWelcome:    "welcome",
	Cmd2048:       "2048",
}

func (id CommandID) String() string {
	if id < 0 || id >= numCommands {
		return fmt.Sprintf("CommandID(%d)", int(id))
	}
	return commandNames[id]
}

// Files is the fixed listing shown by ls and accepted by cat
var Files = []string{"about.txt", "skills.txt", "projects.txt", "experience.txt", "contact.txt"}

// Static messages
const (
	StartGameMessage = "Starting 2048 game..."
	FileNotFound     = "File not found. Available files: about.txt, skills.txt, projects.txt, experience.txt, contact.txt"
	NotFoundFormat   = "Command not found: %s. Type 'help' for available commands."
)

// Handler is a pure function of a command's argument string
type Handler func(args string) string

// ContentSource provides the text blocks for the static commands
type ContentSource interface {
	Get(name string) string
}

// Registry maps each CommandID to its handler
type Registry struct {
	handlers [numCommands]Handler
}

// NewRegistry builds the fixed command set. Static commands read from
// content at call time so reloaded text shows up without a restart.
func NewRegistry(content ContentSource, clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}
	static := func(name string) Handler {
		return func(string) string { return content.Get(name) }
	}

	r := &Registry{}
	for _, id := range []CommandID{CmdWelcome, CmdHelp, CmdAbout, CmdSkills, CmdProjects, CmdExperience, CmdContact} {
		r.handlers[id] = static(id.String())
	}
	r.handlers[CmdWhoami] = func(string) string { return Identity }
	r.handlers[CmdDate] = func(string) string { return FormatDate(clock()) }
	r.handlers[CmdUptime] = func(string) string { return Uptime(clock()) }
	r.handlers[CmdLs] = func(string) string { return strings.Join(Files, "  ") }
	r.handlers[CmdCat] = func(args string) string { return cat(content, args) }
	r.handlers[CmdEcho] = func(args string) string { return args }
	r.handlers[CmdClear] = func(string) string { return "" }
	r.handlers[Cmd2048] = func(string) string { return StartGameMessage }
	return r
}

// Lookup resolves a command name. Names are matched exactly.
func (r *Registry) Lookup(name string) (CommandID, bool) {
	for id, n := range commandNames {
		if n == name {
			return CommandID(id), true
		}
	}
	return 0, false
}

// Run dispatches name with args, falling back to the not-found message
func (r *Registry) Run(name, args string) string {
	id, ok := r.Lookup(name)
	if !ok {
		return fmt.Sprintf(NotFoundFormat, name)
	}
	return r.handlers[id](args)
}

// Names returns every command name in completion order
func (r *Registry) Names() []string {
	names := make([]string, len(commandNames))
	copy(names, commandNames[:])
	return names
}

// cat matches the first known file name contained in args, so
// "cat ./about.txt" still works.
func cat(content ContentSource, args string) string {
	for _, file := range Files {
		if strings.Contains(args, file) {
			return content.Get(strings.TrimSuffix(file, ".txt"))
		}
	}
	return FileNotFound
}
