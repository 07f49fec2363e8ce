// Package refmap parses the "identity: ref" lists that tell recheckout which
// ref each repository should be checked out at.
package refmap
