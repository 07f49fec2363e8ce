package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/recheckout/internal/checkout"
	"github.com/temirov/recheckout/internal/pathselect"
	"github.com/temirov/recheckout/internal/refmap"
)

const (
	gitMetadataNameConstant           = ".git"
	currentDirectoryConstant          = "."
	negativeDepthTemplateConstant     = "fetch depth must not be negative: %d"
	runStartedLogMessageConstant      = "Starting recursive checkout"
	selectionLogMessageConstant       = "Selected candidate directories"
	skippedLogMessageConstant         = "Skipping directory"
	identityFailureLogMessageConstant = "Unable to identify repository"
	plannedLogMessageConstant         = "Planned checkout"
	runCompletedLogMessageConstant    = "Recursive checkout finished"
	runInterruptedLogMessageConstant  = "Recursive checkout interrupted"
	rootFieldNameConstant             = "root"
	directoryFieldNameConstant        = "directory"
	identityFieldNameConstant         = "identity"
	referenceFieldNameConstant        = "ref"
	reasonFieldNameConstant           = "reason"
	countFieldNameConstant            = "count"
	identitiesFieldNameConstant       = "identities"
	depthFieldNameConstant            = "depth"
	dryRunFieldNameConstant           = "dry_run"
	succeededFieldNameConstant        = "succeeded"
	failedFieldNameConstant           = "failed"
	skippedFieldNameConstant          = "skipped"
)

// RepositoryOperations is the git capability the orchestrator drives.
type RepositoryOperations interface {
	checkout.GitOperations
	ResolveRemoteIdentity(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// ResultObserver is notified as soon as each directory has been processed.
type ResultObserver interface {
	RepositoryProcessed(result RepositoryResult)
}

// Options describe a single run.
type Options struct {
	// Refs holds "identity:ref" lines.
	Refs string
	// Paths holds include and "!" exclusion glob patterns, one per line.
	Paths               string
	FetchDepth          int
	RemoteName          string
	BranchPrefix        string
	ImplicitDescendants bool
	DryRun              bool
}

// Dependencies enumerates the collaborators of an Orchestrator.
type Dependencies struct {
	Logger     *zap.Logger
	Operations RepositoryOperations
	// RootDirectory is where patterns are evaluated and git commands run; defaults to ".".
	RootDirectory string
	// FileSystem overrides the view of RootDirectory used for selection and marker checks.
	FileSystem fs.FS
	Observer   ResultObserver
}

// Orchestrator performs recursive checkout runs.
type Orchestrator struct {
	logger        *zap.Logger
	operations    RepositoryOperations
	rootDirectory string
	fileSystem    fs.FS
	observer      ResultObserver
}

// New constructs an Orchestrator.
func New(dependencies Dependencies) (*Orchestrator, error) {
	if dependencies.Operations == nil {
		return nil, ErrRepositoryOperationsNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rootDirectory := strings.TrimSpace(dependencies.RootDirectory)
	if len(rootDirectory) == 0 {
		rootDirectory = currentDirectoryConstant
	}
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = os.DirFS(rootDirectory)
	}
	return &Orchestrator{
		logger:        logger,
		operations:    dependencies.Operations,
		rootDirectory: rootDirectory,
		fileSystem:    fileSystem,
		observer:      dependencies.Observer,
	}, nil
}

// Run executes one pass. Configuration and traversal problems abort the run before or
// during selection; individual checkout failures are recorded in the Report. When the
// context is cancelled the partial Report is returned with the context error.
func (orchestrator *Orchestrator) Run(executionContext context.Context, options Options) (Report, error) {
	references, refsError := refmap.ParseText(options.Refs)
	if refsError != nil {
		return Report{}, ConfigurationError{Step: StepRefs, Cause: refsError}
	}
	if references.Len() == 0 {
		return Report{}, ConfigurationError{Step: StepRefs, Cause: ErrNoReferences}
	}
	if options.FetchDepth < 0 {
		return Report{}, ConfigurationError{Step: StepFetchDepth, Cause: fmt.Errorf(negativeDepthTemplateConstant, options.FetchDepth)}
	}
	namer, namerError := checkout.NewBranchNamer(options.BranchPrefix)
	if namerError != nil {
		return Report{}, ConfigurationError{Step: StepBranchPrefix, Cause: namerError}
	}
	engine, engineError := checkout.NewEngine(checkout.Dependencies{
		Logger:        orchestrator.logger,
		GitOperations: orchestrator.operations,
		BranchNamer:   namer,
	}, options.RemoteName)
	if engineError != nil {
		return Report{}, engineError
	}
	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = checkout.DefaultRemoteName
	}

	patterns := pathselect.ParsePatterns(options.Paths)
	if !hasIncludePattern(patterns) {
		return Report{}, ConfigurationError{Step: StepPaths, Cause: ErrNoPatterns}
	}

	orchestrator.logger.Info(runStartedLogMessageConstant,
		zap.String(rootFieldNameConstant, orchestrator.rootDirectory),
		zap.Strings(identitiesFieldNameConstant, references.Identities()),
		zap.Int(depthFieldNameConstant, options.FetchDepth),
		zap.Bool(dryRunFieldNameConstant, options.DryRun),
	)

	selector, selectorError := pathselect.NewSelectorWithFileSystem(orchestrator.fileSystem, pathselect.Options{ImplicitDescendants: options.ImplicitDescendants})
	if selectorError != nil {
		return Report{}, selectorError
	}
	pathSet, selectError := selector.Select(patterns)
	if selectError != nil {
		var patternError pathselect.PatternError
		if errors.As(selectError, &patternError) {
			return Report{}, ConfigurationError{Step: StepPaths, Cause: selectError}
		}
		return Report{}, TraversalError{Path: orchestrator.rootDirectory, Cause: selectError}
	}
	orchestrator.logger.Info(selectionLogMessageConstant, zap.Int(countFieldNameConstant, pathSet.Len()))

	report := Report{References: references, Results: make([]RepositoryResult, 0, pathSet.Len())}
	for _, selectedPath := range pathSet.Paths() {
		if contextError := executionContext.Err(); contextError != nil {
			orchestrator.logger.Warn(runInterruptedLogMessageConstant, zap.Error(contextError))
			return report, contextError
		}

		result, inspectError := orchestrator.processDirectory(executionContext, engine, references, remoteName, selectedPath, options)
		if inspectError != nil {
			return report, inspectError
		}
		report.Results = append(report.Results, result)
		if orchestrator.observer != nil {
			orchestrator.observer.RepositoryProcessed(result)
		}

		if contextError := executionContext.Err(); contextError != nil {
			orchestrator.logger.Warn(runInterruptedLogMessageConstant, zap.Error(contextError))
			return report, contextError
		}
	}

	orchestrator.logger.Info(runCompletedLogMessageConstant,
		zap.Int(succeededFieldNameConstant, len(report.Succeeded())),
		zap.Int(failedFieldNameConstant, len(report.Failed())),
		zap.Int(skippedFieldNameConstant, len(report.Skipped())),
	)
	return report, nil
}

func (orchestrator *Orchestrator) processDirectory(executionContext context.Context, engine *checkout.Engine, references refmap.RefMap, remoteName string, selectedPath string, options Options) (RepositoryResult, error) {
	candidate, skipReason, inspectError := orchestrator.identify(executionContext, remoteName, selectedPath)
	if inspectError != nil {
		return RepositoryResult{}, inspectError
	}
	if len(skipReason) > 0 {
		return orchestrator.skip(candidate, skipReason), nil
	}

	reference, mapped := references.Lookup(candidate.Identity)
	if !mapped {
		return orchestrator.skip(candidate, SkipReasonNotInRefMap), nil
	}

	result := RepositoryResult{Directory: candidate.Directory, Identity: candidate.Identity, Ref: reference}
	if options.DryRun {
		orchestrator.logger.Info(plannedLogMessageConstant,
			zap.String(directoryFieldNameConstant, candidate.Directory),
			zap.String(identityFieldNameConstant, candidate.Identity),
			zap.String(referenceFieldNameConstant, reference),
		)
		result.Status = StatusPlanned
		return result, nil
	}

	checkoutResult, checkoutError := engine.Checkout(executionContext, checkout.Request{
		Directory: orchestrator.workingDirectory(candidate.Directory),
		Reference: reference,
		Depth:     options.FetchDepth,
	})
	if checkoutError != nil {
		var failure checkout.Error
		if errors.As(checkoutError, &failure) {
			result.Branch = failure.Branch
		}
		result.Status = StatusFailed
		result.Failure = checkoutError
		return result, nil
	}

	result.Branch = checkoutResult.Branch
	result.Status = StatusSucceeded
	return result, nil
}

// identify returns a skip reason when the directory is not a resolvable working copy.
func (orchestrator *Orchestrator) identify(executionContext context.Context, remoteName string, selectedPath string) (Candidate, SkipReason, error) {
	candidate := Candidate{Directory: selectedPath}

	directoryInfo, statError := fs.Stat(orchestrator.fileSystem, selectedPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return candidate, SkipReasonNotDirectory, nil
		}
		return candidate, "", TraversalError{Path: selectedPath, Cause: statError}
	}
	if !directoryInfo.IsDir() {
		return candidate, SkipReasonNotDirectory, nil
	}

	if _, markerError := fs.Stat(orchestrator.fileSystem, path.Join(selectedPath, gitMetadataNameConstant)); markerError != nil {
		if errors.Is(markerError, fs.ErrNotExist) {
			return candidate, SkipReasonNoGit, nil
		}
		return candidate, "", TraversalError{Path: selectedPath, Cause: markerError}
	}

	identity, identityError := orchestrator.operations.ResolveRemoteIdentity(executionContext, orchestrator.workingDirectory(selectedPath), remoteName)
	if identityError != nil {
		orchestrator.logger.Debug(identityFailureLogMessageConstant, zap.String(directoryFieldNameConstant, selectedPath), zap.Error(identityError))
		return candidate, SkipReasonIdentityUnresolved, nil
	}
	candidate.Identity = identity
	return candidate, "", nil
}

func (orchestrator *Orchestrator) skip(candidate Candidate, reason SkipReason) RepositoryResult {
	orchestrator.logger.Debug(skippedLogMessageConstant,
		zap.String(directoryFieldNameConstant, candidate.Directory),
		zap.String(identityFieldNameConstant, candidate.Identity),
		zap.String(reasonFieldNameConstant, string(reason)),
	)
	return RepositoryResult{Directory: candidate.Directory, Identity: candidate.Identity, Status: StatusSkipped, SkipReason: reason}
}

func (orchestrator *Orchestrator) workingDirectory(selectedPath string) string {
	return filepath.Join(orchestrator.rootDirectory, filepath.FromSlash(selectedPath))
}

func hasIncludePattern(patterns []string) bool {
	for _, pattern := range patterns {
		if !strings.HasPrefix(pattern, pathselect.ExclusionPrefix) {
			return true
		}
	}
	return false
}
