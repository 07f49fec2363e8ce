package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"time"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
	windowsOperatingSystemConstant        = "windows"
)

// DefaultInterruptGracePeriod is how long a cancelled process may take to exit after
// being interrupted before it is killed.
const DefaultInterruptGracePeriod = 5 * time.Second

// OSCommandRunner executes commands as child processes of the current process.
type OSCommandRunner struct {
	interruptGracePeriod time.Duration
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{interruptGracePeriod: DefaultInterruptGracePeriod}
}

// Run starts the command and waits for it. A non-zero exit is reported through
// ExecutionResult.ExitCode; an error is returned only when the process could not
// run to completion, including when the context expired and the process was stopped.
//
// Cancellation interrupts the process first so git can remove its lock files, and kills
// it once the grace period has passed.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executable.Dir = command.Details.WorkingDirectory
	if len(command.Details.EnvironmentVariables) > 0 {
		executable.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}
	if runtime.GOOS != windowsOperatingSystemConstant {
		executable.Cancel = func() error {
			return executable.Process.Signal(os.Interrupt)
		}
	}
	executable.WaitDelay = runner.interruptGracePeriod

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	result := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}
	if runError == nil {
		return result, nil
	}
	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) {
		return ExecutionResult{}, runError
	}
	result.ExitCode = exitError.ExitCode()
	return result, nil
}

// mergeEnvironment appends overrides in key order; later assignments win for exec.
func mergeEnvironment(baseEnvironment []string, overrides map[string]string) []string {
	overrideKeys := make([]string, 0, len(overrides))
	for overrideKey := range overrides {
		overrideKeys = append(overrideKeys, overrideKey)
	}
	sort.Strings(overrideKeys)

	merged := append(make([]string, 0, len(baseEnvironment)+len(overrideKeys)), baseEnvironment...)
	for _, overrideKey := range overrideKeys {
		merged = append(merged, fmt.Sprintf(environmentAssignmentTemplateConstant, overrideKey, overrides[overrideKey]))
	}
	return merged
}
