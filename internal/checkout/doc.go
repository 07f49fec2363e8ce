// Package checkout fetches a single ref into a fresh local branch of an existing working
// copy and switches the working tree to it.
package checkout
