package checkout

import (
	"strings"
	"time"

	internalcheckout "github.com/temirov/recheckout/internal/checkout"
)

const (
	configurationRefsKeyConstant                = "refs"
	configurationRefsFileKeyConstant            = "refs_file"
	configurationPathsKeyConstant               = "paths"
	configurationPathsFileKeyConstant           = "paths_file"
	configurationRootKeyConstant                = "root"
	configurationFetchDepthKeyConstant          = "fetch_depth"
	configurationImplicitDescendantsKeyConstant = "implicit_descendants"
	configurationRemoteKeyConstant              = "remote"
	configurationTimeoutKeyConstant             = "timeout"
	configurationBranchPrefixKeyConstant        = "branch_prefix"
	configurationDryRunKeyConstant              = "dry_run"
	configurationFailOnErrorKeyConstant         = "fail_on_error"
	configurationReportFileKeyConstant          = "report_file"
	configurationKeySeparatorConstant           = "."

	defaultRootDirectoryConstant  = "."
	defaultFetchDepthConstant     = 1
	defaultCommandTimeoutConstant = 10 * time.Minute
)

// CommandConfiguration captures configuration values for the checkout command.
type CommandConfiguration struct {
	Refs                string        `mapstructure:"refs"`
	RefsFile            string        `mapstructure:"refs_file"`
	Paths               string        `mapstructure:"paths"`
	PathsFile           string        `mapstructure:"paths_file"`
	Root                string        `mapstructure:"root"`
	FetchDepth          int           `mapstructure:"fetch_depth"`
	ImplicitDescendants bool          `mapstructure:"implicit_descendants"`
	Remote              string        `mapstructure:"remote"`
	Timeout             time.Duration `mapstructure:"timeout"`
	BranchPrefix        string        `mapstructure:"branch_prefix"`
	DryRun              bool          `mapstructure:"dry_run"`
	FailOnError         bool          `mapstructure:"fail_on_error"`
	ReportFile          string        `mapstructure:"report_file"`
}

// DefaultCommandConfiguration provides default checkout settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:         defaultRootDirectoryConstant,
		FetchDepth:   defaultFetchDepthConstant,
		Remote:       internalcheckout.DefaultRemoteName,
		Timeout:      defaultCommandTimeoutConstant,
		BranchPrefix: internalcheckout.DefaultBranchPrefix,
	}
}

// DefaultConfigurationValues produces Viper defaults for the checkout command under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationRefsKeyConstant:                defaults.Refs,
		prefix + configurationRefsFileKeyConstant:            defaults.RefsFile,
		prefix + configurationPathsKeyConstant:               defaults.Paths,
		prefix + configurationPathsFileKeyConstant:           defaults.PathsFile,
		prefix + configurationRootKeyConstant:                defaults.Root,
		prefix + configurationFetchDepthKeyConstant:          defaults.FetchDepth,
		prefix + configurationImplicitDescendantsKeyConstant: defaults.ImplicitDescendants,
		prefix + configurationRemoteKeyConstant:              defaults.Remote,
		prefix + configurationTimeoutKeyConstant:             defaults.Timeout,
		prefix + configurationBranchPrefixKeyConstant:        defaults.BranchPrefix,
		prefix + configurationDryRunKeyConstant:              defaults.DryRun,
		prefix + configurationFailOnErrorKeyConstant:         defaults.FailOnError,
		prefix + configurationReportFileKeyConstant:          defaults.ReportFile,
	}
}

// Sanitize trims textual values and restores defaults for blank ones. Negative depths are
// kept so the run can reject them.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.RefsFile = strings.TrimSpace(configuration.RefsFile)
	sanitized.PathsFile = strings.TrimSpace(configuration.PathsFile)
	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaults.Root
	}
	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaults.Remote
	}
	sanitized.BranchPrefix = strings.TrimSpace(configuration.BranchPrefix)
	if len(sanitized.BranchPrefix) == 0 {
		sanitized.BranchPrefix = defaults.BranchPrefix
	}
	if sanitized.Timeout < 0 {
		sanitized.Timeout = 0
	}
	sanitized.ReportFile = strings.TrimSpace(configuration.ReportFile)
	return sanitized
}
