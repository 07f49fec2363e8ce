package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/recheckout/internal/execshell"
	"github.com/temirov/recheckout/internal/gitrepo"
	"github.com/temirov/recheckout/internal/ui"
)

// ResolveLogger returns logger or a no-op logger when it is nil.
func ResolveLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default that
// bounds each command by commandTimeout and renders lifecycle events on consoleLogger.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, consoleLogger *zap.Logger, commandTimeout time.Duration) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(
		ResolveLogger(logger),
		commandRunner,
		execshell.WithCommandTimeout(commandTimeout),
		execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(consoleLogger)),
	)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager constructs the git-backed repository manager.
func ResolveRepositoryManager(executor gitrepo.GitExecutor) (*gitrepo.RepositoryManager, error) {
	return gitrepo.NewRepositoryManager(executor)
}
