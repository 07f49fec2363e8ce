package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValueConstant  = "true"
	toggleFalseCanonicalValueConstant = "false"
	toggleValueTypeConstant           = "bool"
	toggleParseErrorTemplateConstant  = "invalid toggle value %q"
	toggleUsageTemplateConstant       = "`%s` %s"
	toggleTruePlaceholderConstant     = "<YES|no>"
	toggleFalsePlaceholderConstant    = "<yes|NO>"
	longFlagPrefixConstant            = "--"
	shortFlagPrefixConstant           = "-"
	flagValueSeparatorConstant        = "="
	argumentTerminatorConstant        = "--"
)

var toggleLiterals = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
	"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
}

var toggleRegistry = struct {
	sync.RWMutex
	names map[string]struct{}
}{names: map[string]struct{}{}}

// ParseToggleValue interprets yes/no, on/off, true/false, and 1/0 literals case-insensitively.
// An empty value means true.
func ParseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return false, fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}
	return parsedValue, nil
}

// AddToggleFlag registers a boolean flag that accepts the literals understood by ParseToggleValue.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := &toggleValue{target: target}
	value.assign(defaultValue)
	flagSet.VarP(value, name, shorthand, usage)

	registeredFlag := flagSet.Lookup(name)
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValueConstant
	placeholder := toggleFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleTruePlaceholderConstant
	}
	registeredFlag.Usage = strings.TrimSpace(fmt.Sprintf(toggleUsageTemplateConstant, placeholder, strings.TrimSpace(usage)))

	toggleRegistry.Lock()
	defer toggleRegistry.Unlock()
	toggleRegistry.names[longFlagPrefixConstant+name] = struct{}{}
	if len(shorthand) > 0 {
		toggleRegistry.names[shortFlagPrefixConstant+shorthand] = struct{}{}
	}
}

// NormalizeToggleArguments joins "--flag value" into "--flag=value" for registered toggle
// flags so that pflag does not treat the value as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	toggleRegistry.RLock()
	defer toggleRegistry.RUnlock()

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		_, isToggle := toggleRegistry.names[current]
		hasFollowingValue := index+1 < len(arguments) && !strings.HasPrefix(arguments[index+1], shortFlagPrefixConstant)
		if isToggle && hasFollowingValue {
			normalized = append(normalized, current+flagValueSeparatorConstant+arguments[index+1])
			index++
			continue
		}
		normalized = append(normalized, current)
	}
	return normalized
}

type toggleValue struct {
	currentValue bool
	target       *bool
}

func (value *toggleValue) assign(parsedValue bool) {
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}
	value.assign(parsedValue)
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValueConstant
	}
	return toggleFalseCanonicalValueConstant
}

func (value *toggleValue) Type() string {
	return toggleValueTypeConstant
}
