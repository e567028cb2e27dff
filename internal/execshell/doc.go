// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution (captured or streamed to the terminal), and defines
// the abstractions used throughout ghg to run git and gh in a testable manner.
package execshell
