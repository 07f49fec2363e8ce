package actions

import "os"

const (
	githubActionsVariableConstant = "GITHUB_ACTIONS"
	githubOutputVariableConstant  = "GITHUB_OUTPUT"
	githubActionsEnabledConstant  = "true"
)

// Enabled reports whether the process runs inside a GitHub Actions job.
func Enabled() bool {
	return os.Getenv(githubActionsVariableConstant) == githubActionsEnabledConstant
}
