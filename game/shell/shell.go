package shell

import (
	"strings"
	"time"
)

// Shell is the terminal state machine
type Shell struct {
	registry  *Registry
	scheduler Scheduler
	latency   time.Duration
	clock     func() time.Time
	launch    func()
	onUpdate  func()

	transcript []Entry
	history    []string
	cursor     int
	input      string
	busy       bool
	gameActive bool
}

// Option configures a Shell
type Option func(*Shell)

// WithScheduler sets where deferred output runs (default TimerScheduler)
func WithScheduler(s Scheduler) Option {
	return func(sh *Shell) { sh.scheduler = s }
}

// WithLatency overrides DefaultLatency
func WithLatency(d time.Duration) Option {
	return func(sh *Shell) { sh.latency = d }
}

// WithClock sets the time source used for transcript timestamps
func WithClock(clock func() time.Time) Option {
	return func(sh *Shell) { sh.clock = clock }
}

// WithGameLauncher is called when the 2048 command completes
func WithGameLauncher(launch func()) Option {
	return func(sh *Shell) { sh.launch = launch }
}

// WithUpdateHook is called after every deferred output lands
func WithUpdateHook(hook func()) Option {
	return func(sh *Shell) { sh.onUpdate = hook }
}

// New creates a shell whose transcript starts with the welcome banner
func New(registry *Registry, opts ...Option) *Shell {
	sh := &Shell{
		registry:  registry,
		scheduler: TimerScheduler,
		latency:   DefaultLatency,
		clock:     time.Now,
		cursor:    NotBrowsing,
	}
	for _, opt := range opts {
		opt(sh)
	}

	sh.transcript = []Entry{{
		Input:     CmdWelcome.String(),
		Output:    registry.Run(CmdWelcome.String(), ""),
		Timestamp: sh.clock(),
	}}
	return sh
}

// Execute runs one input line. The prompt line is appended at once and
// the output follows after the shell's latency. clear is the exception: it
// wipes the transcript synchronously.
func (sh *Shell) Execute(line string) error {
	if sh.busy {
		return ErrBusy
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	name, args, _ := strings.Cut(trimmed, " ")
	isClear := name == CmdClear.String()

	sh.transcript = append(sh.transcript, Entry{
		Input:     trimmed,
		Timestamp: sh.clock(),
		Pending:   !isClear,
	})

	if !isClear {
		if n := len(sh.history); n == 0 || sh.history[n-1] != trimmed {
			sh.history = append(sh.history, trimmed)
		}
	}
	sh.cursor = NotBrowsing

	if isClear {
		sh.transcript = nil
		return nil
	}

	sh.busy = true
	sh.scheduler.AfterFunc(sh.latency, func() {
		sh.finish(name, args)
	})
	return nil
}

// Submit executes the current input field and empties it
func (sh *Shell) Submit() error {
	if sh.busy {
		return ErrBusy
	}
	line := sh.input
	sh.input = ""
	return sh.Execute(line)
}

func (sh *Shell) finish(name, args string) {
	output := sh.registry.Run(name, args)

	// Output goes to the newest entry. Nothing can be appended while busy.
	if n := len(sh.transcript); n > 0 {
		sh.transcript[n-1].Output = output
		sh.transcript[n-1].Pending = false
	}
	sh.busy = false

	if id, ok := sh.registry.Lookup(name); ok && id == Cmd2048 {
		sh.gameActive = true
		if sh.launch != nil {
			sh.launch()
		}
	}

	if sh.onUpdate != nil {
		sh.onUpdate()
	}
}

// ExitGame returns control from the game view to the shell
func (sh *Shell) ExitGame() {
	sh.gameActive = false
}

// SetInput replaces the input field. Ignored while busy.
func (sh *Shell) SetInput(input string) {
	if sh.busy {
		return
	}
	sh.input = input
}

func (sh *Shell) Input() string    { return sh.input }
func (sh *Shell) Busy() bool       { return sh.busy }
func (sh *Shell) GameActive() bool { return sh.gameActive }
func (sh *Shell) Cursor() int      { return sh.cursor }

// Transcript returns a copy of the transcript
func (sh *Shell) Transcript() []Entry {
	out := make([]Entry, len(sh.transcript))
	copy(out, sh.transcript)
	return out
}

// History returns a copy of the command history, oldest first
func (sh *Shell) History() []string {
	out := make([]string, len(sh.history))
	copy(out, sh.history)
	return out
}
