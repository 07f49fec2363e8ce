// Package checkout provides the recursive checkout command.
package checkout
