package orchestrator

import (
	"errors"
	"fmt"
)

const (
	configurationErrorTemplateConstant = "invalid %s configuration: %v"
	traversalErrorTemplateConstant     = "unable to traverse %s: %v"
)

// Configuration steps reported by ConfigurationError.
const (
	StepRefs         = "refs"
	StepPaths        = "paths"
	StepFetchDepth   = "fetch-depth"
	StepBranchPrefix = "branch-prefix"
)

var (
	// ErrRepositoryOperationsNotConfigured indicates the orchestrator was built without git operations.
	ErrRepositoryOperationsNotConfigured = errors.New("repository operations not configured")
	// ErrNoReferences indicates the ref map has no entries.
	ErrNoReferences = errors.New("no repository refs provided")
	// ErrNoPatterns indicates no include pattern was provided.
	ErrNoPatterns = errors.New("no path patterns provided")
)

// ConfigurationError aborts a run before any repository is touched.
type ConfigurationError struct {
	Step  string
	Cause error
}

// Error describes the rejected configuration.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Step, configurationError.Cause)
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}

// TraversalError reports a directory that could not be inspected.
type TraversalError struct {
	Path  string
	Cause error
}

// Error describes the directory and the failure.
func (traversalError TraversalError) Error() string {
	return fmt.Sprintf(traversalErrorTemplateConstant, traversalError.Path, traversalError.Cause)
}

// Unwrap exposes the underlying cause.
func (traversalError TraversalError) Unwrap() error {
	return traversalError.Cause
}
