// Package gitrepo talks to nested git working copies.
//
// ParseRemoteURL turns remote URLs into owner/name identities, and
// RepositoryManager wraps the handful of git subcommands recheckout needs:
// reading a remote URL, fetching a ref into a local branch, and switching to it.
package gitrepo
