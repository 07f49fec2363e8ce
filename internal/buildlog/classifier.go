package buildlog

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

const (
	internalTestTargetPrefixConstant = "_cm_internal_tests-"
	failedTargetSuffixConstant       = "build"
	targetPathSeparatorConstant      = "/"
	targetExtensionSeparatorConstant = "."
	carriageReturnConstant           = "\r"
	maximumLineLengthConstant        = 1024 * 1024
)

var (
	successPattern = regexp.MustCompile("Built target (.+)")
	failurePattern = regexp.MustCompile("make\\[\\d+\\]: Target [`'](.+)[`'] not remade because of errors.")
)

// Classification lists targets in the order they appear in the log.
type Classification struct {
	// Succeeded holds names captured from "Built target" lines.
	Succeeded []string
	// Failed holds target paths make refused to remake.
	Failed []string
}

// Classify scans reader line by line. A line matching the success rule is never also
// counted as a failure.
func Classify(reader io.Reader) (Classification, error) {
	classification := Classification{Succeeded: []string{}, Failed: []string{}}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maximumLineLengthConstant)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), carriageReturnConstant)
		if successMatch := successPattern.FindStringSubmatch(line); successMatch != nil {
			classification.Succeeded = append(classification.Succeeded, successMatch[1])
			continue
		}
		if failureMatch := failurePattern.FindStringSubmatch(line); failureMatch != nil {
			classification.Failed = append(classification.Failed, failureMatch[1])
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return Classification{}, scanError
	}
	return classification, nil
}

// ReportedSuccesses drops CMake's internal test targets.
func (classification Classification) ReportedSuccesses() []string {
	reported := []string{}
	for _, target := range classification.Succeeded {
		if !strings.HasPrefix(target, internalTestTargetPrefixConstant) {
			reported = append(reported, target)
		}
	}
	return reported
}

// ReportedFailures keeps only ".../build" targets and reduces each to its owning target,
// e.g. "CMakeFiles/foo.dir/build" becomes "foo".
func (classification Classification) ReportedFailures() []string {
	reported := []string{}
	for _, target := range classification.Failed {
		if !strings.HasSuffix(target, failedTargetSuffixConstant) {
			continue
		}
		reported = append(reported, owningTarget(target))
	}
	return reported
}

func owningTarget(targetPath string) string {
	segments := strings.Split(targetPath, targetPathSeparatorConstant)
	owner := segments[0]
	if len(segments) >= 2 {
		owner = segments[len(segments)-2]
	}
	name, _, _ := strings.Cut(owner, targetExtensionSeparatorConstant)
	return name
}
