package refmap

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	identityReferenceSeparatorConstant = ":"
	commentPrefixConstant              = "#"
	formattedEntryTemplateConstant     = "%s: %s\n"
	lineErrorTemplateConstant          = "line %d %q: %s"
	missingSeparatorMessageConstant    = "expected <identity>:<ref>"
	missingIdentityMessageConstant     = "identity is empty"
	missingReferenceMessageConstant    = "ref is empty"
	readErrorTemplateConstant          = "unable to read ref map: %w"
	maximumLineLengthConstant          = 1024 * 1024
)

// LineError reports a ref map line that does not name both an identity and a ref.
type LineError struct {
	LineNumber int
	Line       string
	Message    string
}

// Error describes the offending line.
func (lineError LineError) Error() string {
	return fmt.Sprintf(lineErrorTemplateConstant, lineError.LineNumber, lineError.Line, lineError.Message)
}

// RefMap maps repository identities ("owner/name") to the ref to check out.
// The zero value is an empty map. RefMap has no mutators.
type RefMap struct {
	references map[string]string
}

// Lookup returns the ref for identity and whether it was present.
func (refMap RefMap) Lookup(identity string) (string, bool) {
	reference, found := refMap.references[identity]
	return reference, found
}

// Len reports the number of distinct identities.
func (refMap RefMap) Len() int {
	return len(refMap.references)
}

// Identities returns the identities in lexical order.
func (refMap RefMap) Identities() []string {
	identities := make([]string, 0, len(refMap.references))
	for identity := range refMap.references {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities
}

// Format renders the map as sorted "identity: ref" lines.
func (refMap RefMap) Format() string {
	var builder strings.Builder
	for _, identity := range refMap.Identities() {
		builder.WriteString(fmt.Sprintf(formattedEntryTemplateConstant, identity, refMap.references[identity]))
	}
	return builder.String()
}

// ParseText parses a newline separated ref map.
func ParseText(text string) (RefMap, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads "identity:ref" lines. Each line is split on its first colon and
// both halves are trimmed, so refs may themselves contain colons. Blank lines
// and lines starting with "#" are ignored. When an identity repeats, the last
// ref wins. Any other line yields a LineError.
func Parse(reader io.Reader) (RefMap, error) {
	references := make(map[string]string)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maximumLineLengthConstant)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		trimmedLine := strings.TrimSpace(scanner.Text())
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}

		identity, reference, found := strings.Cut(trimmedLine, identityReferenceSeparatorConstant)
		if !found {
			return RefMap{}, LineError{LineNumber: lineNumber, Line: trimmedLine, Message: missingSeparatorMessageConstant}
		}
		identity = strings.TrimSpace(identity)
		reference = strings.TrimSpace(reference)
		if len(identity) == 0 {
			return RefMap{}, LineError{LineNumber: lineNumber, Line: trimmedLine, Message: missingIdentityMessageConstant}
		}
		if len(reference) == 0 {
			return RefMap{}, LineError{LineNumber: lineNumber, Line: trimmedLine, Message: missingReferenceMessageConstant}
		}
		references[identity] = reference
	}
	if scanError := scanner.Err(); scanError != nil {
		return RefMap{}, fmt.Errorf(readErrorTemplateConstant, scanError)
	}

	return RefMap{references: references}, nil
}
