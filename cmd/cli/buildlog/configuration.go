package buildlog

import "strings"

const (
	configurationBuildLogKeyConstant  = "build_log"
	configurationOutputKeyConstant    = "output"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the build-log command.
type CommandConfiguration struct {
	BuildLog string `mapstructure:"build_log"`
	Output   string `mapstructure:"output"`
}

// DefaultCommandConfiguration reads the log from standard input and writes the report
// into a fresh temporary directory.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues produces Viper defaults for the build-log command under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationBuildLogKeyConstant: defaults.BuildLog,
		prefix + configurationOutputKeyConstant:   defaults.Output,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.BuildLog = strings.TrimSpace(configuration.BuildLog)
	sanitized.Output = strings.TrimSpace(configuration.Output)
	return sanitized
}
