package execshell

// CommandEventObserver is notified as commands start and finish.
type CommandEventObserver interface {
	// CommandStarted is called before the process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the process exited, regardless of exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when no exit status could be obtained.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
