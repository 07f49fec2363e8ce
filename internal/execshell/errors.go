package execshell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	commandFailedErrorTemplateConstant           = "%s exited with code %d"
	commandFailedWithOutputErrorTemplateConstant = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant        = "%s could not be executed: %v"
)

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New("shell executor logger not configured")
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New("shell executor command runner not configured")
	// ErrCommandTimedOut reports that a command exceeded its allotted time and was killed.
	ErrCommandTimedOut = errors.New("command timed out")
)

// CommandFailedError reports a process that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command together with its trimmed standard error.
func (failure CommandFailedError) Error() string {
	commandLabel := formatCommandLine(failure.Command)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, commandLabel, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputErrorTemplateConstant, commandLabel, failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a process that could not be started or was interrupted.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command and the underlying cause.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, formatCommandLine(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

func formatCommandLine(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}
