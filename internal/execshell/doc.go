// Package execshell runs external tools on behalf of recheckout.
//
// ShellExecutor wraps a CommandRunner with structured logging, per-command
// timeouts, and typed failures. OSCommandRunner is the default runner backed by
// os/exec; tests substitute recording runners.
package execshell
