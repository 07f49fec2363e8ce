package checkout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/recheckout/internal/actions"
	"github.com/temirov/recheckout/internal/dependencies"
	"github.com/temirov/recheckout/internal/gitrepo"
	"github.com/temirov/recheckout/internal/orchestrator"
	"github.com/temirov/recheckout/internal/utils"
	"github.com/temirov/recheckout/internal/utils/flags"
	pathutils "github.com/temirov/recheckout/internal/utils/path"
)

const (
	commandUseConstant              = "checkout"
	commandShortDescriptionConstant = "Check out mapped refs in nested repositories"
	commandLongDescriptionConstant  = "checkout walks the directories selected by glob patterns, identifies each git working copy by its remote, and fetches the ref mapped to that identity into a fresh local branch. Repositories missing from the ref map are left untouched."

	refsFlagUsageConstant                = "Repository refs, one \"owner/name:ref\" per line"
	refsFileFlagUsageConstant            = "Read repository refs from a file"
	pathsFlagUsageConstant               = "Glob patterns selecting candidate directories, one per line; prefix with ! to exclude"
	pathsFileFlagUsageConstant           = "Read path patterns from a file"
	rootFlagUsageConstant                = "Directory the patterns are evaluated against"
	fetchDepthFlagUsageConstant          = "Commits of history to fetch; 0 fetches everything"
	implicitDescendantsFlagUsageConstant = "Also select every directory below a matched directory"
	remoteFlagUsageConstant              = "Remote used to identify and fetch repositories"
	timeoutFlagUsageConstant             = "Time limit for each git command; 0 disables it"
	branchPrefixFlagUsageConstant        = "Prefix for generated local branch names"
	dryRunFlagUsageConstant              = "Report planned checkouts without fetching"
	failOnErrorFlagUsageConstant         = "Exit with an error when any repository fails"
	reportFileFlagUsageConstant          = "Write the run report as YAML to this file"

	checkedOutOutputNameConstant      = "checked-out"
	failedOutputNameConstant          = "failed"
	refsOutputNameConstant            = "refs"
	outputEntryTemplateConstant       = "%s: %s"
	outputEntrySeparatorConstant      = "\n"
	failureAnnotationTemplateConstant = "%s (%s): %v"
	identityWarningTemplateConstant   = "%s: unable to determine the repository from remote %s"
	reportFilePermissionsConstant     = 0o644

	settingsErrorTemplateConstant          = "unable to resolve checkout settings: %w"
	repositoryManagerErrorTemplateConstant = "unable to construct repository manager: %w"
	reportFileErrorTemplateConstant        = "unable to write report file %s: %w"
	stepOutputErrorTemplateConstant        = "unable to set step output %s: %w"
	failOnErrorTemplateConstant            = "%d repositories failed: %w"
	reportWrittenLogMessageConstant        = "Wrote checkout report"
	annotationFailedLogMessageConstant     = "Unable to write annotation"
	reportPathFieldNameConstant            = "path"
	settingsResolvedLogMessageConstant     = "Resolved checkout settings"
	configurationFileFieldNameConstant     = "config_file"
	rootFieldNameConstant                  = "root"
	fetchDepthFieldNameConstant            = "fetch_depth"
	remoteFieldNameConstant                = "remote"
	timeoutFieldNameConstant               = "timeout"
	dryRunFieldNameConstant                = "dry_run"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the checkout command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	// GitExecutor replaces the shell-backed git executor, mainly in tests.
	GitExecutor  gitrepo.GitExecutor
	Inputs       *actions.Inputs
	HomeExpander *pathutils.HomeExpander
}

// Build constructs the checkout command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagSet := command.Flags()
	flagSet.String(refsOptionNameConstant, "", refsFlagUsageConstant)
	flagSet.String(refsFileOptionNameConstant, "", refsFileFlagUsageConstant)
	flagSet.String(pathsOptionNameConstant, "", pathsFlagUsageConstant)
	flagSet.String(pathsFileOptionNameConstant, "", pathsFileFlagUsageConstant)
	flagSet.String(rootOptionNameConstant, defaults.Root, rootFlagUsageConstant)
	flagSet.Int(fetchDepthOptionNameConstant, defaults.FetchDepth, fetchDepthFlagUsageConstant)
	flags.AddToggleFlag(flagSet, nil, implicitDescendantsOptionNameConstant, "", defaults.ImplicitDescendants, implicitDescendantsFlagUsageConstant)
	flagSet.String(remoteOptionNameConstant, defaults.Remote, remoteFlagUsageConstant)
	flagSet.Duration(timeoutOptionNameConstant, defaults.Timeout, timeoutFlagUsageConstant)
	flagSet.String(branchPrefixOptionNameConstant, defaults.BranchPrefix, branchPrefixFlagUsageConstant)
	flags.AddToggleFlag(flagSet, nil, dryRunOptionNameConstant, "", defaults.DryRun, dryRunFlagUsageConstant)
	flags.AddToggleFlag(flagSet, nil, failOnErrorOptionNameConstant, "", defaults.FailOnError, failOnErrorFlagUsageConstant)
	flagSet.String(reportFileOptionNameConstant, "", reportFileFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, settingsError := ResolveConfiguration(builder.resolveConfiguration(), command.Flags(), builder.resolveInputs(), builder.HomeExpander)
	if settingsError != nil {
		return fmt.Errorf(settingsErrorTemplateConstant, settingsError)
	}

	logger := resolveLogger(builder.LoggerProvider)
	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	logger.Debug(settingsResolvedLogMessageConstant,
		zap.String(configurationFileFieldNameConstant, configurationFilePath),
		zap.String(rootFieldNameConstant, configuration.Root),
		zap.Int(fetchDepthFieldNameConstant, configuration.FetchDepth),
		zap.String(remoteFieldNameConstant, configuration.Remote),
		zap.Duration(timeoutFieldNameConstant, configuration.Timeout),
		zap.Bool(dryRunFieldNameConstant, configuration.DryRun),
	)

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, resolveLogger(builder.ConsoleLoggerProvider), configuration.Timeout)
	if executorError != nil {
		return executorError
	}
	repositoryManager, managerError := dependencies.ResolveRepositoryManager(gitExecutor)
	if managerError != nil {
		return fmt.Errorf(repositoryManagerErrorTemplateConstant, managerError)
	}

	output := utils.NewFlushingWriter(command.OutOrStdout())
	lineReporter := orchestrator.NewLineReporter(output, logger)
	runner, runnerError := orchestrator.New(orchestrator.Dependencies{
		Logger:        logger,
		Operations:    repositoryManager,
		RootDirectory: configuration.Root,
		Observer:      lineReporter,
	})
	if runnerError != nil {
		return runnerError
	}

	executionContext, stopSignals := signal.NotifyContext(commandContext(command), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	report, runError := runner.Run(executionContext, orchestrator.Options{
		Refs:                configuration.Refs,
		Paths:               configuration.Paths,
		FetchDepth:          configuration.FetchDepth,
		RemoteName:          configuration.Remote,
		BranchPrefix:        configuration.BranchPrefix,
		ImplicitDescendants: configuration.ImplicitDescendants,
		DryRun:              configuration.DryRun,
	})
	if runError != nil && len(report.Results) == 0 {
		return runError
	}

	lineReporter.PrintSummary(report)
	if publishError := builder.publish(command, configuration, report, logger); publishError != nil {
		return publishError
	}
	if runError != nil {
		return runError
	}

	if configuration.FailOnError && report.HasFailures() {
		return fmt.Errorf(failOnErrorTemplateConstant, len(report.Failed()), report.FailureError())
	}
	return nil
}

func (builder *CommandBuilder) publish(command *cobra.Command, configuration CommandConfiguration, report orchestrator.Report, logger *zap.Logger) error {
	if len(configuration.ReportFile) > 0 {
		if reportError := writeReportFile(configuration.ReportFile, report); reportError != nil {
			return fmt.Errorf(reportFileErrorTemplateConstant, configuration.ReportFile, reportError)
		}
		logger.Info(reportWrittenLogMessageConstant, zap.String(reportPathFieldNameConstant, configuration.ReportFile))
	}

	if actions.Enabled() {
		annotator := actions.NewAnnotator(command.OutOrStdout())
		for _, skipped := range report.Skipped() {
			if skipped.SkipReason != orchestrator.SkipReasonIdentityUnresolved {
				continue
			}
			if annotationError := annotator.Warning(fmt.Sprintf(identityWarningTemplateConstant, skipped.Directory, configuration.Remote)); annotationError != nil {
				logger.Warn(annotationFailedLogMessageConstant, zap.Error(annotationError))
			}
		}
		for _, failed := range report.Failed() {
			if annotationError := annotator.Error(fmt.Sprintf(failureAnnotationTemplateConstant, failed.Identity, failed.Directory, failed.Failure)); annotationError != nil {
				logger.Warn(annotationFailedLogMessageConstant, zap.Error(annotationError))
			}
		}
	}

	outputs := StepOutputs(report)
	outputWriter := actions.NewOutputWriter(nil)
	for _, outputName := range []string{checkedOutOutputNameConstant, failedOutputNameConstant, refsOutputNameConstant} {
		outputError := outputWriter.SetOutput(outputName, outputs[outputName])
		if errors.Is(outputError, actions.ErrOutputDestinationMissing) {
			return nil
		}
		if outputError != nil {
			return fmt.Errorf(stepOutputErrorTemplateConstant, outputName, outputError)
		}
	}
	return nil
}

// StepOutputs renders the Actions outputs: "identity: directory" lists for checked-out
// and failed repositories, and the normalized ref map.
func StepOutputs(report orchestrator.Report) map[string]string {
	return map[string]string{
		checkedOutOutputNameConstant: formatEntries(report.Succeeded()),
		failedOutputNameConstant:     formatEntries(report.Failed()),
		refsOutputNameConstant:       report.References.Format(),
	}
}

func formatEntries(results []orchestrator.RepositoryResult) string {
	entries := make([]string, 0, len(results))
	for _, result := range results {
		entries = append(entries, fmt.Sprintf(outputEntryTemplateConstant, result.Identity, result.Directory))
	}
	return strings.Join(entries, outputEntrySeparatorConstant)
}

func writeReportFile(reportPath string, report orchestrator.Report) error {
	reportFile, createError := os.OpenFile(reportPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, reportFilePermissionsConstant)
	if createError != nil {
		return createError
	}
	if writeError := report.WriteYAML(reportFile); writeError != nil {
		reportFile.Close()
		return writeError
	}
	return reportFile.Close()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveInputs() *actions.Inputs {
	if builder.Inputs != nil {
		return builder.Inputs
	}
	return actions.NewInputs()
}

func commandContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}
