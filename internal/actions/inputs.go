package actions

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	inputEnvironmentPrefixConstant = "INPUT"
	inputNameSpaceConstant         = " "
	inputVariableSpaceConstant     = "_"
)

// Inputs reads step inputs the runner exposes as INPUT_<NAME> variables. Names are
// upper-cased and spaces become underscores; hyphens are kept as the runner keeps them.
// Empty values are treated as absent.
type Inputs struct {
	environment *viper.Viper
}

// NewInputs constructs Inputs backed by the process environment.
func NewInputs() *Inputs {
	environment := viper.New()
	environment.SetEnvPrefix(inputEnvironmentPrefixConstant)
	environment.SetEnvKeyReplacer(strings.NewReplacer(inputNameSpaceConstant, inputVariableSpaceConstant))
	environment.AutomaticEnv()
	return &Inputs{environment: environment}
}

// Lookup returns the trimmed value of input name and whether it was provided.
func (inputs *Inputs) Lookup(name string) (string, bool) {
	if inputs == nil || inputs.environment == nil {
		return "", false
	}
	value := strings.TrimSpace(inputs.environment.GetString(name))
	if len(value) == 0 {
		return "", false
	}
	return value, true
}

// Multiline returns input name with surrounding blank lines removed and line endings
// normalized, preserving interior lines verbatim.
func (inputs *Inputs) Multiline(name string) (string, bool) {
	if inputs == nil || inputs.environment == nil {
		return "", false
	}
	value := strings.ReplaceAll(inputs.environment.GetString(name), "\r\n", "\n")
	value = strings.Trim(value, "\n")
	if len(strings.TrimSpace(value)) == 0 {
		return "", false
	}
	return value, true
}
