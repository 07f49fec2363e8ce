package flags

import (
	"fmt"
	"strings"
)

const (
	choiceUsageTemplateConstant = "`<%s>` %s"
	choiceSeparatorConstant     = "|"
)

// FormatChoiceUsage renders "<a|B|c> description" with the default choice upper-cased.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	seenChoices := make(map[string]struct{}, len(choices))
	displayedChoices := make([]string, 0, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, seen := seenChoices[normalizedChoice]; seen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}
		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		displayedChoices = append(displayedChoices, trimmedChoice)
	}

	usage := fmt.Sprintf(choiceUsageTemplateConstant, strings.Join(displayedChoices, choiceSeparatorConstant), strings.TrimSpace(description))
	return strings.TrimSpace(usage)
}
