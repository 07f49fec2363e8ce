package buildlog

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/recheckout/internal/actions"
	internalbuildlog "github.com/temirov/recheckout/internal/buildlog"
	pathutils "github.com/temirov/recheckout/internal/utils/path"
)

const (
	commandUseConstant              = "build-log"
	commandShortDescriptionConstant = "Convert a build log into a JUnit report"
	commandLongDescriptionConstant  = "build-log scans make and CMake output for built targets and targets that were not remade because of errors, and writes one JUnit test case per target."

	buildLogOptionNameConstant = "build-log"
	outputOptionNameConstant   = "output"
	buildLogFlagUsageConstant  = "Build log to read; standard input when empty"
	outputFlagUsageConstant    = "Report path; a temporary directory is used when empty"

	reportOutputNameConstant          = "build-junit-report"
	reportGeneratedTemplateConstant   = "JUnit report generated: %s\n"
	openLogErrorTemplateConstant      = "unable to open build log %s: %w"
	stepOutputErrorTemplateConstant   = "unable to set step output %s: %w"
	reportGeneratedLogMessageConstant = "Generated JUnit report"
	buildLogFieldNameConstant         = "build_log"
	reportPathFieldNameConstant       = "path"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the build-log command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Inputs                *actions.Inputs
	HomeExpander          *pathutils.HomeExpander
	// WorkingDirectory anchors relative paths; the process working directory when empty.
	WorkingDirectory string
}

// Build constructs the build-log command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	command.Flags().String(buildLogOptionNameConstant, "", buildLogFlagUsageConstant)
	command.Flags().String(outputOptionNameConstant, "", outputFlagUsageConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveSettings(command)
	logger := resolveLogger(builder.LoggerProvider)

	logReader := command.InOrStdin()
	if len(configuration.BuildLog) > 0 {
		logFile, openError := os.Open(configuration.BuildLog)
		if openError != nil {
			return fmt.Errorf(openLogErrorTemplateConstant, configuration.BuildLog, openError)
		}
		defer logFile.Close()
		logReader = logFile
	}

	reportPath, reportError := internalbuildlog.WriteReport(logReader, configuration.Output)
	if reportError != nil {
		return reportError
	}
	logger.Info(reportGeneratedLogMessageConstant,
		zap.String(buildLogFieldNameConstant, configuration.BuildLog),
		zap.String(reportPathFieldNameConstant, reportPath),
	)
	if _, printError := fmt.Fprintf(command.OutOrStdout(), reportGeneratedTemplateConstant, reportPath); printError != nil {
		return printError
	}

	outputError := actions.NewOutputWriter(nil).SetOutput(reportOutputNameConstant, reportPath)
	if outputError != nil && !errors.Is(outputError, actions.ErrOutputDestinationMissing) {
		return fmt.Errorf(stepOutputErrorTemplateConstant, reportOutputNameConstant, outputError)
	}
	return nil
}

func (builder *CommandBuilder) resolveSettings(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	inputs := builder.Inputs
	if inputs == nil {
		inputs = actions.NewInputs()
	}
	if value, provided := inputs.Lookup(buildLogOptionNameConstant); provided {
		configuration.BuildLog = value
	}
	if value, provided := inputs.Lookup(outputOptionNameConstant); provided {
		configuration.Output = value
	}
	if command.Flags().Changed(buildLogOptionNameConstant) {
		configuration.BuildLog, _ = command.Flags().GetString(buildLogOptionNameConstant)
	}
	if command.Flags().Changed(outputOptionNameConstant) {
		configuration.Output, _ = command.Flags().GetString(outputOptionNameConstant)
	}
	configuration = configuration.sanitize()

	expander := builder.HomeExpander
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	workingDirectory := builder.WorkingDirectory
	if len(workingDirectory) == 0 {
		workingDirectory, _ = os.Getwd()
	}
	configuration.BuildLog = expander.ResolveAgainst(workingDirectory, configuration.BuildLog)
	configuration.Output = expander.ResolveAgainst(workingDirectory, configuration.Output)
	return configuration
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
