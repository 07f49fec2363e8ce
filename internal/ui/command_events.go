package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/recheckout/internal/execshell"
)

const gitConfigSubcommandConstant = "config"

// ConsoleCommandEventLogger renders git command lifecycle events as one-line messages.
// Remote lookups run once per candidate directory, so their outcomes are logged at debug
// level; a missing remote is an ordinary skip rather than a warning.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted logs the start of a command at debug level.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs fetches and checkouts at info level and their non-zero exits as warnings.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Log(eventLogger.completionLevel(command, zapcore.InfoLevel), eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Log(eventLogger.completionLevel(command, zapcore.WarnLevel), eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed logs commands that could not run, including timeouts.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) completionLevel(command execshell.ShellCommand, level zapcore.Level) zapcore.Level {
	arguments := command.Details.Arguments
	if command.Name == execshell.CommandGit && len(arguments) > 0 && arguments[0] == gitConfigSubcommandConstant {
		return zapcore.DebugLevel
	}
	return level
}
