package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/internal/execshell"
	"github.com/temirov/recheckout/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/workspace/vendor/widgets"
	testRemoteNameConstant     = "origin"
	testLocalBranchConstant    = "recheckout/1700000000000000000-1"
)

type stubGitExecutor struct {
	recorded  []execshell.CommandDetails
	responses []stubGitResponse
}

type stubGitResponse struct {
	result execshell.ExecutionResult
	err    error
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	if len(executor.responses) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	response := executor.responses[0]
	executor.responses = executor.responses[1:]
	return response.result, response.err
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	_, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
}

func TestResolveRemoteIdentity(testInstance *testing.T) {
	testCases := []struct {
		name             string
		response         stubGitResponse
		expectedIdentity string
		expectedError    error
		expectAnyError   bool
	}{
		{
			name:             "https_remote",
			response:         stubGitResponse{result: execshell.ExecutionResult{StandardOutput: "https://github.com/acme/widgets.git\n"}},
			expectedIdentity: "acme/widgets",
		},
		{
			name: "missing_remote",
			response: stubGitResponse{err: execshell.CommandFailedError{
				Command: execshell.ShellCommand{Name: execshell.CommandGit},
				Result:  execshell.ExecutionResult{ExitCode: 1},
			}},
			expectedError: gitrepo.ErrRemoteNotConfigured,
		},
		{
			name:           "unparseable_remote",
			response:       stubGitResponse{result: execshell.ExecutionResult{StandardOutput: "widgets\n"}},
			expectAnyError: true,
		},
		{
			name:           "command_error",
			response:       stubGitResponse{err: execshell.CommandExecutionError{Cause: errors.New("git missing")}},
			expectAnyError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{responses: []stubGitResponse{testCase.response}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			identity, resolveError := manager.ResolveRemoteIdentity(context.Background(), testRepositoryPathConstant, testRemoteNameConstant)

			require.Len(testInstance, executor.recorded, 1)
			require.Equal(testInstance, []string{"config", "--get", "remote.origin.url"}, executor.recorded[0].Arguments)
			require.Equal(testInstance, testRepositoryPathConstant, executor.recorded[0].WorkingDirectory)
			require.Equal(testInstance, "0", executor.recorded[0].EnvironmentVariables["GIT_TERMINAL_PROMPT"])

			switch {
			case testCase.expectedError != nil:
				require.ErrorIs(testInstance, resolveError, testCase.expectedError)
			case testCase.expectAnyError:
				require.Error(testInstance, resolveError)
			default:
				require.NoError(testInstance, resolveError)
				require.Equal(testInstance, testCase.expectedIdentity, identity)
			}
		})
	}
}

func TestFetchRefToBranchAppliesDepth(testInstance *testing.T) {
	testCases := []struct {
		name              string
		reference         string
		depth             int
		expectedArguments []string
	}{
		{
			name:              "unbounded",
			reference:         "main",
			depth:             0,
			expectedArguments: []string{"fetch", "--no-tags", "origin", "main:" + testLocalBranchConstant},
		},
		{
			name:              "bounded_by_three",
			reference:         "refs/pull/42/merge",
			depth:             3,
			expectedArguments: []string{"fetch", "--no-tags", "--depth=3", "origin", "refs/pull/42/merge:" + testLocalBranchConstant},
		},
		{
			name:              "sha_bounded_by_two",
			reference:         "deadbeef",
			depth:             2,
			expectedArguments: []string{"fetch", "--no-tags", "--depth=2", "origin", "deadbeef:" + testLocalBranchConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			fetchError := manager.FetchRefToBranch(context.Background(), gitrepo.FetchRequest{
				RepositoryPath: testRepositoryPathConstant,
				RemoteName:     testRemoteNameConstant,
				Reference:      testCase.reference,
				LocalBranch:    testLocalBranchConstant,
				Depth:          testCase.depth,
			})
			require.NoError(testInstance, fetchError)
			require.Len(testInstance, executor.recorded, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recorded[0].Arguments)
		})
	}
}

func TestFetchRefToBranchValidatesRequest(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	require.Error(testInstance, manager.FetchRefToBranch(context.Background(), gitrepo.FetchRequest{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     testRemoteNameConstant,
		LocalBranch:    testLocalBranchConstant,
	}))
	require.Error(testInstance, manager.FetchRefToBranch(context.Background(), gitrepo.FetchRequest{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     testRemoteNameConstant,
		Reference:      "main",
		LocalBranch:    testLocalBranchConstant,
		Depth:          -1,
	}))
	require.Empty(testInstance, executor.recorded)
}

func TestFetchAndCheckoutWrapExecutorFailures(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: couldn't find remote ref nope"},
	}
	executor := &stubGitExecutor{responses: []stubGitResponse{{err: commandFailure}, {err: commandFailure}}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	fetchError := manager.FetchRefToBranch(context.Background(), gitrepo.FetchRequest{
		RepositoryPath: testRepositoryPathConstant,
		RemoteName:     testRemoteNameConstant,
		Reference:      "nope",
		LocalBranch:    testLocalBranchConstant,
		Depth:          1,
	})
	require.ErrorAs(testInstance, fetchError, &execshell.CommandFailedError{})

	checkoutError := manager.CheckoutBranch(context.Background(), testRepositoryPathConstant, testLocalBranchConstant)
	require.ErrorAs(testInstance, checkoutError, &execshell.CommandFailedError{})
	require.Equal(testInstance, []string{"checkout", testLocalBranchConstant}, executor.recorded[1].Arguments)
}
