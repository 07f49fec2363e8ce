package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/recheckout/internal/execshell"
)

const (
	gitConfigSubcommandConstant       = "config"
	gitGetFlagConstant                = "--get"
	gitRemoteURLKeyTemplateConstant   = "remote.%s.url"
	gitFetchSubcommandConstant        = "fetch"
	gitNoTagsFlagConstant             = "--no-tags"
	gitDepthFlagPrefixConstant        = "--depth="
	gitRefspecTemplateConstant        = "%s:%s"
	gitCheckoutSubcommandConstant     = "checkout"
	gitTerminalPromptVariableConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant = "0"

	remoteLookupErrorTemplateConstant     = "unable to read remote %s in %s: %w"
	remoteMissingErrorTemplateConstant    = "remote %s is not configured in %s: %w"
	remoteParseErrorTemplateConstant      = "unable to identify remote %s in %s: %w"
	fetchErrorTemplateConstant            = "unable to fetch %s from %s into %s: %w"
	checkoutErrorTemplateConstant         = "unable to check out %s: %w"
	negativeDepthErrorTemplateConstant    = "fetch depth must not be negative: %d"
	requiredArgumentErrorTemplateConstant = "%s is required"

	repositoryPathArgumentNameConstant = "repository path"
	remoteNameArgumentNameConstant     = "remote name"
	referenceArgumentNameConstant      = "ref"
	branchArgumentNameConstant         = "branch name"
)

var (
	// ErrGitExecutorNotConfigured indicates the manager was built without an executor.
	ErrGitExecutorNotConfigured = errors.New("git executor not configured")
	// ErrRemoteNotConfigured indicates the working copy has no URL for the requested remote.
	ErrRemoteNotConfigured = errors.New("remote not configured")
)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FetchRequest describes fetching one remote ref into a new local branch.
type FetchRequest struct {
	RepositoryPath string
	RemoteName     string
	Reference      string
	LocalBranch    string
	// Depth bounds the fetched history; zero fetches everything.
	Depth int
}

// RepositoryManager runs git against individual working copies.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// GetRemoteURL returns the configured URL of remoteName. A missing remote yields an
// error wrapping ErrRemoteNotConfigured.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if validationError := requireArguments(repositoryPathArgumentNameConstant, repositoryPath, remoteNameArgumentNameConstant, remoteName); validationError != nil {
		return "", validationError
	}

	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitConfigSubcommandConstant, gitGetFlagConstant, fmt.Sprintf(gitRemoteURLKeyTemplateConstant, remoteName)},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: gitEnvironment(),
	})
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == 1 {
			return "", fmt.Errorf(remoteMissingErrorTemplateConstant, remoteName, repositoryPath, ErrRemoteNotConfigured)
		}
		return "", fmt.Errorf(remoteLookupErrorTemplateConstant, remoteName, repositoryPath, executionError)
	}

	remoteURL := strings.TrimSpace(result.StandardOutput)
	if len(remoteURL) == 0 {
		return "", fmt.Errorf(remoteMissingErrorTemplateConstant, remoteName, repositoryPath, ErrRemoteNotConfigured)
	}
	return remoteURL, nil
}

// ResolveRemoteIdentity reads remoteName's URL and returns its owner/name identity.
func (manager *RepositoryManager) ResolveRemoteIdentity(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	remoteURL, lookupError := manager.GetRemoteURL(executionContext, repositoryPath, remoteName)
	if lookupError != nil {
		return "", lookupError
	}

	parsedRemote, parseError := ParseRemoteURL(remoteURL)
	if parseError != nil {
		return "", fmt.Errorf(remoteParseErrorTemplateConstant, remoteName, repositoryPath, parseError)
	}
	return parsedRemote.Identity(), nil
}

// FetchRefToBranch fetches request.Reference from the remote directly into
// request.LocalBranch, letting the remote resolve branch names, tags, SHAs, and
// synthetic refs alike.
func (manager *RepositoryManager) FetchRefToBranch(executionContext context.Context, request FetchRequest) error {
	if validationError := requireArguments(
		repositoryPathArgumentNameConstant, request.RepositoryPath,
		remoteNameArgumentNameConstant, request.RemoteName,
		referenceArgumentNameConstant, request.Reference,
		branchArgumentNameConstant, request.LocalBranch,
	); validationError != nil {
		return validationError
	}
	if request.Depth < 0 {
		return fmt.Errorf(negativeDepthErrorTemplateConstant, request.Depth)
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            BuildFetchArguments(request.RemoteName, request.Reference, request.LocalBranch, request.Depth),
		WorkingDirectory:     request.RepositoryPath,
		EnvironmentVariables: gitEnvironment(),
	})
	if executionError != nil {
		return fmt.Errorf(fetchErrorTemplateConstant, request.Reference, request.RemoteName, request.LocalBranch, executionError)
	}
	return nil
}

// CheckoutBranch switches the working copy to branchName.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if validationError := requireArguments(repositoryPathArgumentNameConstant, repositoryPath, branchArgumentNameConstant, branchName); validationError != nil {
		return validationError
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitCheckoutSubcommandConstant, branchName},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: gitEnvironment(),
	})
	if executionError != nil {
		return fmt.Errorf(checkoutErrorTemplateConstant, branchName, executionError)
	}
	return nil
}

// BuildFetchArguments renders "fetch --no-tags [--depth=N] <remote> <ref>:<branch>".
// The depth flag is omitted when depth is zero.
func BuildFetchArguments(remoteName string, reference string, localBranch string, depth int) []string {
	arguments := []string{gitFetchSubcommandConstant, gitNoTagsFlagConstant}
	if depth > 0 {
		arguments = append(arguments, gitDepthFlagPrefixConstant+strconv.Itoa(depth))
	}
	return append(arguments, remoteName, fmt.Sprintf(gitRefspecTemplateConstant, reference, localBranch))
}

func gitEnvironment() map[string]string {
	return map[string]string{gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant}
}

func requireArguments(namesAndValues ...string) error {
	for index := 0; index+1 < len(namesAndValues); index += 2 {
		if len(strings.TrimSpace(namesAndValues[index+1])) == 0 {
			return fmt.Errorf(requiredArgumentErrorTemplateConstant, namesAndValues[index])
		}
	}
	return nil
}
