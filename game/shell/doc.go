// Package shell implements the simulated terminal behind the portfolio.
//
// A Shell owns the transcript of submitted commands, the command history
// with its browsing cursor, the current input field and two flags: busy,
// set while a command's output is pending, and game active, set once the
// 2048 command has completed.
//
// Command output is never produced inline. Execute appends the prompt line
// immediately and hands the lookup to a Scheduler, which runs it after a
// fixed latency. Callers pick the scheduler that matches their event loop:
//
//	q := &shell.Queue{}
//	sh := shell.New(registry, shell.WithScheduler(q))
//	_ = sh.Execute("about")
//	q.RunAll() // output is now filled in
//
// A Shell is not safe for concurrent use. The caller serialises every call,
// including the deferred tasks its scheduler runs.
package shell
