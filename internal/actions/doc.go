// Package actions integrates with the GitHub Actions runner: it reads step inputs from
// INPUT_* variables, appends step outputs to the GITHUB_OUTPUT file, and writes workflow
// command annotations.
package actions
