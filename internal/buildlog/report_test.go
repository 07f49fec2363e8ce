package buildlog_test

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/internal/buildlog"
)

func TestBuildTestsuites(testInstance *testing.T) {
	classification, classifyError := buildlog.Classify(strings.NewReader(sampleBuildLogConstant))
	require.NoError(testInstance, classifyError)

	testsuites := buildlog.BuildTestsuites(classification)
	require.Len(testInstance, testsuites.Suites, 1)

	suite := testsuites.Suites[0]
	require.Equal(testInstance, buildlog.SuiteName, suite.Name)
	require.Equal(testInstance, 4, suite.Tests)
	require.Equal(testInstance, 2, suite.Failures)
	require.Len(testInstance, suite.Testcases, 4)

	require.Equal(testInstance, "core", suite.Testcases[0].Classname)
	require.Equal(testInstance, buildlog.SuccessCaseName, suite.Testcases[0].Name)
	require.Nil(testInstance, suite.Testcases[0].Failure)

	failedCase := suite.Testcases[2]
	require.Equal(testInstance, "gadgets", failedCase.Classname)
	require.Equal(testInstance, buildlog.FailureCaseName, failedCase.Name)
	require.NotNil(testInstance, failedCase.Failure)
	require.Equal(testInstance, "Build failed for target: gadgets", failedCase.Failure.Message)
}

func TestWriteReportToExplicitPath(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), "reports", "junit.xml")

	writtenPath, writeError := buildlog.WriteReport(strings.NewReader(sampleBuildLogConstant), outputPath)
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, outputPath, writtenPath)

	contents, readError := os.ReadFile(writtenPath)
	require.NoError(testInstance, readError)

	var decoded junit.Testsuites
	require.NoError(testInstance, xml.Unmarshal(contents, &decoded))
	require.Len(testInstance, decoded.Suites, 1)
	require.Equal(testInstance, "Build Results", decoded.Suites[0].Name)
	require.Len(testInstance, decoded.Suites[0].Testcases, 4)
	require.Equal(testInstance, "build", decoded.Suites[0].Testcases[3].Classname)
}

func TestWriteReportToTemporaryDirectory(testInstance *testing.T) {
	testInstance.Setenv("TMPDIR", testInstance.TempDir())

	writtenPath, writeError := buildlog.WriteReport(strings.NewReader("[100%] Built target app\n"), "")
	require.NoError(testInstance, writeError)

	require.Equal(testInstance, "build-report.xml", filepath.Base(writtenPath))
	require.True(testInstance, strings.HasPrefix(filepath.Base(filepath.Dir(writtenPath)), "junit-builder-"))

	contents, readError := os.ReadFile(writtenPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(contents), `classname="app"`)
	require.Contains(testInstance, string(contents), `name="Build Success"`)
}
