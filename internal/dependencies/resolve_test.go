package dependencies_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/recheckout/internal/dependencies"
	"github.com/temirov/recheckout/internal/execshell"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolveGitExecutorPrefersExisting(testInstance *testing.T) {
	existing := stubGitExecutor{}
	resolved, resolveError := dependencies.ResolveGitExecutor(existing, nil, nil, time.Minute)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, existing, resolved)
}

func TestResolveGitExecutorBuildsShellExecutor(testInstance *testing.T) {
	resolved, resolveError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), nil, 90*time.Second)
	require.NoError(testInstance, resolveError)

	shellExecutor, isShellExecutor := resolved.(*execshell.ShellExecutor)
	require.True(testInstance, isShellExecutor)
	require.Equal(testInstance, 90*time.Second, shellExecutor.CommandTimeout())
}

func TestResolveRepositoryManager(testInstance *testing.T) {
	manager, managerError := dependencies.ResolveRepositoryManager(stubGitExecutor{})
	require.NoError(testInstance, managerError)
	require.NotNil(testInstance, manager)

	_, missingError := dependencies.ResolveRepositoryManager(nil)
	require.Error(testInstance, missingError)
}

func TestResolveLogger(testInstance *testing.T) {
	require.NotNil(testInstance, dependencies.ResolveLogger(nil))
}
