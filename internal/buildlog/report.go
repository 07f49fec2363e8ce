package buildlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jstemmer/go-junit-report/v2/junit"
)

const (
	// SuiteName names the single test suite of every report.
	SuiteName = "Build Results"
	// SuccessCaseName names test cases for built targets.
	SuccessCaseName = "Build Success"
	// FailureCaseName names test cases for failed targets.
	FailureCaseName = "Build Failure"

	failureMessageTemplateConstant       = "Build failed for target: %s"
	temporaryDirectoryPatternConstant    = "junit-builder-*"
	reportFileNameConstant               = "build-report.xml"
	reportFilePermissionsConstant        = 0o644
	reportDirectoryPermissionsConstant   = 0o755
	createDirectoryErrorTemplateConstant = "unable to create report directory %s: %w"
	writeReportErrorTemplateConstant     = "unable to write report %s: %w"
)

// BuildTestsuites converts a classification into JUnit test suites.
func BuildTestsuites(classification Classification) junit.Testsuites {
	suite := junit.Testsuite{Name: SuiteName}
	for _, target := range classification.ReportedSuccesses() {
		suite.AddTestcase(junit.Testcase{Name: SuccessCaseName, Classname: target})
	}
	for _, target := range classification.ReportedFailures() {
		suite.AddTestcase(junit.Testcase{
			Name:      FailureCaseName,
			Classname: target,
			Failure:   &junit.Result{Message: fmt.Sprintf(failureMessageTemplateConstant, target)},
		})
	}

	testsuites := junit.Testsuites{}
	testsuites.AddSuite(suite)
	return testsuites
}

// WriteReport classifies the log from reader and writes the JUnit XML to outputPath.
// An empty outputPath selects build-report.xml inside a fresh junit-builder-* temporary
// directory. The written path is returned.
func WriteReport(reader io.Reader, outputPath string) (string, error) {
	classification, classifyError := Classify(reader)
	if classifyError != nil {
		return "", classifyError
	}

	resolvedPath, pathError := resolveOutputPath(outputPath)
	if pathError != nil {
		return "", pathError
	}

	reportFile, createError := os.OpenFile(resolvedPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, reportFilePermissionsConstant)
	if createError != nil {
		return "", fmt.Errorf(writeReportErrorTemplateConstant, resolvedPath, createError)
	}

	testsuites := BuildTestsuites(classification)
	if writeError := testsuites.WriteXML(reportFile); writeError != nil {
		reportFile.Close()
		return "", fmt.Errorf(writeReportErrorTemplateConstant, resolvedPath, writeError)
	}
	if closeError := reportFile.Close(); closeError != nil {
		return "", fmt.Errorf(writeReportErrorTemplateConstant, resolvedPath, closeError)
	}
	return resolvedPath, nil
}

func resolveOutputPath(outputPath string) (string, error) {
	if len(outputPath) == 0 {
		temporaryDirectory, temporaryError := os.MkdirTemp("", temporaryDirectoryPatternConstant)
		if temporaryError != nil {
			return "", fmt.Errorf(createDirectoryErrorTemplateConstant, os.TempDir(), temporaryError)
		}
		return filepath.Join(temporaryDirectory, reportFileNameConstant), nil
	}

	parentDirectory := filepath.Dir(outputPath)
	if mkdirError := os.MkdirAll(parentDirectory, reportDirectoryPermissionsConstant); mkdirError != nil {
		return "", fmt.Errorf(createDirectoryErrorTemplateConstant, parentDirectory, mkdirError)
	}
	return outputPath, nil
}
