package execshell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant         = "Executing command"
	commandSucceededLogMessageConstant       = "Command completed"
	commandFailedLogMessageConstant          = "Command exited with non-zero status"
	commandExecutionFailedLogMessageConstant = "Command could not be executed"
	commandFieldNameConstant                 = "command"
	argumentsFieldNameConstant               = "arguments"
	workingDirectoryFieldNameConstant        = "working_directory"
	exitCodeFieldNameConstant                = "exit_code"
	standardErrorFieldNameConstant           = "stderr"
	durationFieldNameConstant                = "duration"
	timeoutFieldNameConstant                 = "timeout"
	timeoutCauseTemplateConstant             = "%w after %s"
)

// ShellExecutorOption customizes a ShellExecutor.
type ShellExecutorOption func(*ShellExecutor)

// WithCommandTimeout bounds every command run by the executor. A zero duration disables the bound.
func WithCommandTimeout(timeout time.Duration) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if timeout < 0 {
			timeout = 0
		}
		executor.commandTimeout = timeout
	}
}

// WithCommandEventObserver registers an observer notified about command lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if observer == nil {
			observer = noopCommandEventObserver{}
		}
		executor.eventObserver = observer
	}
}

// ShellExecutor runs commands through a CommandRunner and logs their lifecycle.
type ShellExecutor struct {
	logger         *zap.Logger
	runner         CommandRunner
	eventObserver  CommandEventObserver
	commandTimeout time.Duration
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, options ...ShellExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{
		logger:        logger,
		runner:        runner,
		eventObserver: noopCommandEventObserver{},
	}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}
	return executor, nil
}

// CommandTimeout reports the per-command bound applied by the executor.
func (executor *ShellExecutor) CommandTimeout() time.Duration {
	return executor.commandTimeout
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// Execute runs the command, returning CommandFailedError for non-zero exits and
// CommandExecutionError when the process could not run or exceeded the timeout.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(commandFieldNameConstant, string(command.Name)),
		zap.Strings(argumentsFieldNameConstant, command.Details.Arguments),
		zap.String(workingDirectoryFieldNameConstant, command.Details.WorkingDirectory),
	}
	if executor.commandTimeout > 0 {
		commandFields = append(commandFields, zap.Duration(timeoutFieldNameConstant, executor.commandTimeout))
	}

	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)
	executor.eventObserver.CommandStarted(command)

	runContext := executionContext
	cancelRun := func() {}
	if executor.commandTimeout > 0 {
		runContext, cancelRun = context.WithTimeout(executionContext, executor.commandTimeout)
	}
	defer cancelRun()

	startTime := time.Now()
	executionResult, runError := executor.runner.Run(runContext, command)
	elapsed := time.Since(startTime)

	if runError == nil && runContext.Err() != nil && executionContext.Err() == nil {
		runError = runContext.Err()
	}

	if runError != nil {
		cause := runError
		if errors.Is(runError, context.DeadlineExceeded) && executionContext.Err() == nil {
			cause = fmt.Errorf(timeoutCauseTemplateConstant, ErrCommandTimedOut, executor.commandTimeout)
		}
		executionFailure := CommandExecutionError{Command: command, Cause: cause}
		executor.logger.Error(commandExecutionFailedLogMessageConstant, append(commandFields, zap.Duration(durationFieldNameConstant, elapsed), zap.Error(cause))...)
		executor.eventObserver.CommandExecutionFailed(command, cause)
		return ExecutionResult{}, executionFailure
	}

	executionResult.Duration = elapsed
	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(commandFailedLogMessageConstant, append(commandFields,
			zap.Int(exitCodeFieldNameConstant, executionResult.ExitCode),
			zap.String(standardErrorFieldNameConstant, executionResult.StandardError),
			zap.Duration(durationFieldNameConstant, elapsed),
		)...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandSucceededLogMessageConstant, append(commandFields, zap.Duration(durationFieldNameConstant, elapsed))...)
	return executionResult, nil
}
