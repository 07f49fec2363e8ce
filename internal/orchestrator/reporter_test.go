package orchestrator_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/internal/orchestrator"
)

func TestLineReporterPrintsOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name         string
		result       orchestrator.RepositoryResult
		expectedLine string
	}{
		{
			name:         "succeeded",
			result:       orchestrator.RepositoryResult{Directory: "vendor/widgets", Identity: "acme/widgets", Ref: "main", Branch: "recheckout/5-1", Status: orchestrator.StatusSucceeded},
			expectedLine: "CHECKOUT-DONE: vendor/widgets acme/widgets -> main (branch recheckout/5-1)\n",
		},
		{
			name:         "failed_multiline_reason",
			result:       orchestrator.RepositoryResult{Directory: "vendor/gadgets", Identity: "acme/gadgets", Ref: "v2", Status: orchestrator.StatusFailed, Failure: errors.New("fetch failed:\nfatal: couldn't find remote ref v2")},
			expectedLine: "CHECKOUT-FAILED: vendor/gadgets acme/gadgets -> v2: fetch failed:; fatal: couldn't find remote ref v2\n",
		},
		{
			name:         "planned",
			result:       orchestrator.RepositoryResult{Directory: "tools/linter", Identity: "acme/linter", Ref: "abc123", Status: orchestrator.StatusPlanned},
			expectedLine: "CHECKOUT-PLAN: tools/linter acme/linter -> abc123\n",
		},
		{
			name:         "skipped_is_silent",
			result:       orchestrator.RepositoryResult{Directory: "docs", Status: orchestrator.StatusSkipped, SkipReason: orchestrator.SkipReasonNoGit},
			expectedLine: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var buffer bytes.Buffer
			reporter := orchestrator.NewLineReporter(&buffer, nil)
			reporter.RepositoryProcessed(testCase.result)
			require.Equal(testInstance, testCase.expectedLine, buffer.String())
		})
	}
}

func TestLineReporterPrintsSummary(testInstance *testing.T) {
	var buffer bytes.Buffer
	reporter := orchestrator.NewLineReporter(&buffer, nil)
	reporter.PrintSummary(orchestrator.Report{Results: []orchestrator.RepositoryResult{
		{Status: orchestrator.StatusSucceeded},
		{Status: orchestrator.StatusSucceeded},
		{Status: orchestrator.StatusFailed, Failure: errors.New("boom")},
		{Status: orchestrator.StatusSkipped},
	}})
	require.Equal(testInstance, "CHECKOUT-SUMMARY: 2 succeeded, 1 failed, 1 skipped\n", buffer.String())
}

func TestLineReporterPrintsPlannedSummary(testInstance *testing.T) {
	var buffer bytes.Buffer
	reporter := orchestrator.NewLineReporter(&buffer, nil)
	reporter.PrintSummary(orchestrator.Report{Results: []orchestrator.RepositoryResult{
		{Status: orchestrator.StatusPlanned},
		{Status: orchestrator.StatusPlanned},
		{Status: orchestrator.StatusSkipped},
	}})
	require.Equal(testInstance, "CHECKOUT-SUMMARY: 0 succeeded, 0 failed, 1 skipped, 2 planned\n", buffer.String())
}
