// Package cli constructs the recheckout command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader, and structured
// logging around the checkout and build-log commands.
package cli
