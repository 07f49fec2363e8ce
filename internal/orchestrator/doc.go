// Package orchestrator runs one recursive checkout pass: it parses the ref map, selects
// candidate directories, identifies each working copy by its remote, and checks out the
// mapped ref in every matching repository while leaving all others untouched.
package orchestrator
