package checkout

import (
	"errors"
	"fmt"
)

// Stage names the step of a checkout that failed.
type Stage string

const (
	// StageFetch covers fetching the ref into the local branch.
	StageFetch Stage = "fetch"
	// StageCheckout covers switching the working tree to the local branch.
	StageCheckout Stage = "checkout"
)

const checkoutErrorTemplateConstant = "%s of %s failed in %s (branch %s): %v"

var (
	// ErrGitOperationsNotConfigured indicates the engine was built without git operations.
	ErrGitOperationsNotConfigured = errors.New("checkout git operations not configured")
	// ErrBranchNamerNotConfigured indicates the engine was built without a branch namer.
	ErrBranchNamerNotConfigured = errors.New("checkout branch namer not configured")
	// ErrNegativeDepth indicates a fetch depth below zero.
	ErrNegativeDepth = errors.New("fetch depth must not be negative")
)

// Error reports a failed checkout of one repository.
type Error struct {
	Stage     Stage
	Directory string
	Ref       string
	Branch    string
	Cause     error
}

// Error describes the failing stage, the ref, and the working copy.
func (checkoutError Error) Error() string {
	return fmt.Sprintf(checkoutErrorTemplateConstant, checkoutError.Stage, checkoutError.Ref, checkoutError.Directory, checkoutError.Branch, checkoutError.Cause)
}

// Unwrap exposes the underlying cause.
func (checkoutError Error) Unwrap() error {
	return checkoutError.Cause
}
