package execshell

// CommandEventObserver is notified as git and gh invocations move through
// their lifecycle. The CLI installs a console implementation so users can
// follow multi-step workflows command by command.
type CommandEventObserver interface {
	// CommandStarted fires before the child process is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the child process has exited, whatever the
	// exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the child process could not be started
	// or produced no result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver keeps the executor silent until an observer is set.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
