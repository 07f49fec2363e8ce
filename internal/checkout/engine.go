package checkout

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/recheckout/internal/gitrepo"
)

const (
	// DefaultRemoteName is the remote fetched from when none is configured.
	DefaultRemoteName = "origin"

	fetchingLogMessageConstant       = "Fetching ref into local branch"
	checkoutFailedLogMessageConstant = "Checkout failed"
	checkedOutLogMessageConstant     = "Checked out ref"
	directoryFieldNameConstant       = "directory"
	referenceFieldNameConstant       = "ref"
	branchFieldNameConstant          = "branch"
	remoteFieldNameConstant          = "remote"
	depthFieldNameConstant           = "depth"
	stageFieldNameConstant           = "stage"
	negativeDepthTemplateConstant    = "%w: %d"
)

// GitOperations fetches refs and switches branches in a working copy.
type GitOperations interface {
	FetchRefToBranch(executionContext context.Context, request gitrepo.FetchRequest) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
}

// Request identifies one checkout.
type Request struct {
	Directory string
	Reference string
	// Depth bounds fetched history; zero fetches the full history.
	Depth int
}

// Result describes a completed checkout.
type Result struct {
	Directory string
	Reference string
	Branch    string
}

// Dependencies enumerates the collaborators of an Engine.
type Dependencies struct {
	Logger        *zap.Logger
	GitOperations GitOperations
	BranchNamer   *BranchNamer
}

// Engine performs shallow checkouts.
type Engine struct {
	logger     *zap.Logger
	operations GitOperations
	namer      *BranchNamer
	remoteName string
}

// NewEngine constructs an Engine fetching from remoteName.
func NewEngine(dependencies Dependencies, remoteName string) (*Engine, error) {
	if dependencies.GitOperations == nil {
		return nil, ErrGitOperationsNotConfigured
	}
	if dependencies.BranchNamer == nil {
		return nil, ErrBranchNamerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = DefaultRemoteName
	}
	return &Engine{
		logger:     logger,
		operations: dependencies.GitOperations,
		namer:      dependencies.BranchNamer,
		remoteName: trimmedRemoteName,
	}, nil
}

// Checkout fetches request.Reference into a newly named local branch and switches to it.
// Failures are returned as Error.
func (engine *Engine) Checkout(executionContext context.Context, request Request) (Result, error) {
	if request.Depth < 0 {
		return Result{}, fmt.Errorf(negativeDepthTemplateConstant, ErrNegativeDepth, request.Depth)
	}

	branchName := engine.namer.Next()
	fields := []zap.Field{
		zap.String(directoryFieldNameConstant, request.Directory),
		zap.String(referenceFieldNameConstant, request.Reference),
		zap.String(branchFieldNameConstant, branchName),
	}

	engine.logger.Debug(fetchingLogMessageConstant, append(fields,
		zap.String(remoteFieldNameConstant, engine.remoteName),
		zap.Int(depthFieldNameConstant, request.Depth),
	)...)

	fetchError := engine.operations.FetchRefToBranch(executionContext, gitrepo.FetchRequest{
		RepositoryPath: request.Directory,
		RemoteName:     engine.remoteName,
		Reference:      request.Reference,
		LocalBranch:    branchName,
		Depth:          request.Depth,
	})
	if fetchError != nil {
		return Result{}, engine.fail(StageFetch, request, branchName, fetchError, fields)
	}

	if checkoutError := engine.operations.CheckoutBranch(executionContext, request.Directory, branchName); checkoutError != nil {
		return Result{}, engine.fail(StageCheckout, request, branchName, checkoutError, fields)
	}

	engine.logger.Info(checkedOutLogMessageConstant, fields...)
	return Result{Directory: request.Directory, Reference: request.Reference, Branch: branchName}, nil
}

func (engine *Engine) fail(stage Stage, request Request, branchName string, cause error, fields []zap.Field) error {
	engine.logger.Error(checkoutFailedLogMessageConstant, append(fields, zap.String(stageFieldNameConstant, string(stage)), zap.Error(cause))...)
	return Error{Stage: stage, Directory: request.Directory, Ref: request.Reference, Branch: branchName, Cause: cause}
}
