package checkout

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/temirov/recheckout/internal/actions"
	"github.com/temirov/recheckout/internal/utils/flags"
	pathutils "github.com/temirov/recheckout/internal/utils/path"
)

const (
	refsOptionNameConstant                = "refs"
	refsFileOptionNameConstant            = "refs-file"
	pathsOptionNameConstant               = "paths"
	pathsFileOptionNameConstant           = "paths-file"
	rootOptionNameConstant                = "root"
	fetchDepthOptionNameConstant          = "fetch-depth"
	implicitDescendantsOptionNameConstant = "implicit-descendants"
	remoteOptionNameConstant              = "remote"
	timeoutOptionNameConstant             = "timeout"
	branchPrefixOptionNameConstant        = "branch-prefix"
	dryRunOptionNameConstant              = "dry-run"
	failOnErrorOptionNameConstant         = "fail-on-error"
	reportFileOptionNameConstant          = "report-file"

	invalidOptionValueTemplateConstant = "invalid %s value %q: %w"
	readListFileErrorTemplateConstant  = "unable to read %s file %s: %w"
)

type optionBinding struct {
	name      string
	multiline bool
	apply     func(configuration *CommandConfiguration, rawValue string) error
}

var optionBindings = []optionBinding{
	{name: refsOptionNameConstant, multiline: true, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.Refs = rawValue
		return nil
	}},
	{name: refsFileOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.RefsFile = rawValue
		return nil
	}},
	{name: pathsOptionNameConstant, multiline: true, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.Paths = rawValue
		return nil
	}},
	{name: pathsFileOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.PathsFile = rawValue
		return nil
	}},
	{name: rootOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.Root = rawValue
		return nil
	}},
	{name: fetchDepthOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		depth, parseError := strconv.Atoi(strings.TrimSpace(rawValue))
		if parseError != nil {
			return parseError
		}
		configuration.FetchDepth = depth
		return nil
	}},
	{name: implicitDescendantsOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		enabled, parseError := flags.ParseToggleValue(rawValue)
		configuration.ImplicitDescendants = enabled
		return parseError
	}},
	{name: remoteOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.Remote = rawValue
		return nil
	}},
	{name: timeoutOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		timeout, parseError := parseTimeout(rawValue)
		configuration.Timeout = timeout
		return parseError
	}},
	{name: branchPrefixOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.BranchPrefix = rawValue
		return nil
	}},
	{name: dryRunOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		enabled, parseError := flags.ParseToggleValue(rawValue)
		configuration.DryRun = enabled
		return parseError
	}},
	{name: failOnErrorOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		enabled, parseError := flags.ParseToggleValue(rawValue)
		configuration.FailOnError = enabled
		return parseError
	}},
	{name: reportFileOptionNameConstant, apply: func(configuration *CommandConfiguration, rawValue string) error {
		configuration.ReportFile = rawValue
		return nil
	}},
}

// ResolveConfiguration layers Actions inputs and then explicitly set flags over the
// loaded configuration, and finally reads the refs and paths files when they are named.
func ResolveConfiguration(base CommandConfiguration, flagSet *pflag.FlagSet, inputs *actions.Inputs, expander *pathutils.HomeExpander) (CommandConfiguration, error) {
	resolved := base
	for _, binding := range optionBindings {
		rawValue, provided := lookupInput(inputs, binding)
		if flagSet != nil && flagSet.Changed(binding.name) {
			rawValue, provided = flagSet.Lookup(binding.name).Value.String(), true
		}
		if !provided {
			continue
		}
		if applyError := binding.apply(&resolved, rawValue); applyError != nil {
			return CommandConfiguration{}, fmt.Errorf(invalidOptionValueTemplateConstant, binding.name, rawValue, applyError)
		}
	}

	resolved = resolved.Sanitize()
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	resolved.Root = expander.Expand(resolved.Root)
	resolved.ReportFile = expander.Expand(resolved.ReportFile)

	if len(resolved.RefsFile) > 0 {
		contents, readError := os.ReadFile(expander.Expand(resolved.RefsFile))
		if readError != nil {
			return CommandConfiguration{}, fmt.Errorf(readListFileErrorTemplateConstant, refsOptionNameConstant, resolved.RefsFile, readError)
		}
		resolved.Refs = string(contents)
	}
	if len(resolved.PathsFile) > 0 {
		contents, readError := os.ReadFile(expander.Expand(resolved.PathsFile))
		if readError != nil {
			return CommandConfiguration{}, fmt.Errorf(readListFileErrorTemplateConstant, pathsOptionNameConstant, resolved.PathsFile, readError)
		}
		resolved.Paths = string(contents)
	}
	return resolved, nil
}

func lookupInput(inputs *actions.Inputs, binding optionBinding) (string, bool) {
	if inputs == nil {
		return "", false
	}
	if binding.multiline {
		return inputs.Multiline(binding.name)
	}
	return inputs.Lookup(binding.name)
}

// parseTimeout accepts Go durations such as "90s" and bare integers as seconds.
func parseTimeout(rawValue string) (time.Duration, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if seconds, integerError := strconv.Atoi(trimmedValue); integerError == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(trimmedValue)
}
