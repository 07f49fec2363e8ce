package buildlog_test

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/stretchr/testify/require"

	buildlogcmd "github.com/temirov/recheckout/cmd/cli/buildlog"
	"github.com/temirov/recheckout/internal/actions"
)

const buildLogConstant = "[ 50%] Built target engine\n" +
	"make[2]: Target 'tools/lint/build' not remade because of errors.\n"

func executeBuildLogCommand(testInstance *testing.T, builder buildlogcmd.CommandBuilder, standardInput string, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetIn(strings.NewReader(standardInput))
	command.SetContext(context.Background())
	command.SetArgs(arguments)
	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func readTestsuites(testInstance *testing.T, reportPath string) junit.Testsuites {
	testInstance.Helper()
	contents, readError := os.ReadFile(reportPath)
	require.NoError(testInstance, readError)
	var decoded junit.Testsuites
	require.NoError(testInstance, xml.Unmarshal(contents, &decoded))
	return decoded
}

func TestBuildLogCommandSources(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration buildlogcmd.CommandConfiguration
		environment   map[string]string
		arguments     []string
		standardInput string
	}{
		{
			name:          "standard_input_and_output_flag",
			arguments:     []string{"--output", "reports/junit.xml"},
			standardInput: buildLogConstant,
		},
		{
			name:          "configured_log_file",
			configuration: buildlogcmd.CommandConfiguration{BuildLog: "build.log", Output: "reports/junit.xml"},
		},
		{
			name:        "actions_inputs",
			environment: map[string]string{"INPUT_BUILD-LOG": "build.log", "INPUT_OUTPUT": "reports/junit.xml"},
		},
		{
			name:          "flags_override_inputs",
			environment:   map[string]string{"INPUT_BUILD-LOG": "missing.log", "INPUT_OUTPUT": "elsewhere.xml"},
			arguments:     []string{"--build-log", "build.log", "--output", "reports/junit.xml"},
			standardInput: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv("GITHUB_OUTPUT", "")
			testInstance.Setenv("INPUT_BUILD-LOG", "")
			testInstance.Setenv("INPUT_OUTPUT", "")
			for name, value := range testCase.environment {
				testInstance.Setenv(name, value)
			}
			workingDirectory := testInstance.TempDir()
			require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "build.log"), []byte(buildLogConstant), 0o644))

			configuration := testCase.configuration
			builder := buildlogcmd.CommandBuilder{
				ConfigurationProvider: func() buildlogcmd.CommandConfiguration { return configuration },
				Inputs:                actions.NewInputs(),
				WorkingDirectory:      workingDirectory,
			}
			output, executionError := executeBuildLogCommand(testInstance, builder, testCase.standardInput, testCase.arguments...)
			require.NoError(testInstance, executionError)

			expectedPath := filepath.Join(workingDirectory, "reports", "junit.xml")
			require.Equal(testInstance, "JUnit report generated: "+expectedPath+"\n", output)

			decoded := readTestsuites(testInstance, expectedPath)
			require.Len(testInstance, decoded.Suites, 1)
			require.Len(testInstance, decoded.Suites[0].Testcases, 2)
			require.Equal(testInstance, "engine", decoded.Suites[0].Testcases[0].Classname)
			require.Equal(testInstance, "lint", decoded.Suites[0].Testcases[1].Classname)
		})
	}
}

func TestBuildLogCommandSetsStepOutput(testInstance *testing.T) {
	testInstance.Setenv("INPUT_BUILD-LOG", "")
	testInstance.Setenv("INPUT_OUTPUT", "")
	outputFile := filepath.Join(testInstance.TempDir(), "github_output")
	testInstance.Setenv("GITHUB_OUTPUT", outputFile)
	reportPath := filepath.Join(testInstance.TempDir(), "junit.xml")

	builder := buildlogcmd.CommandBuilder{Inputs: actions.NewInputs()}
	_, executionError := executeBuildLogCommand(testInstance, builder, buildLogConstant, "--output", reportPath)
	require.NoError(testInstance, executionError)

	contents, readError := os.ReadFile(outputFile)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(contents), "build-junit-report<<ghadelimiter_")
	require.Contains(testInstance, string(contents), "\n"+reportPath+"\n")
}

func TestBuildLogCommandMissingLogFile(testInstance *testing.T) {
	testInstance.Setenv("GITHUB_OUTPUT", "")
	testInstance.Setenv("INPUT_BUILD-LOG", "")
	testInstance.Setenv("INPUT_OUTPUT", "")

	builder := buildlogcmd.CommandBuilder{Inputs: actions.NewInputs(), WorkingDirectory: testInstance.TempDir()}
	_, executionError := executeBuildLogCommand(testInstance, builder, "", "--build-log", "absent.log")
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to open build log")
}
