package orchestrator

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	doneLineTemplateConstant           = "CHECKOUT-DONE: %s %s -> %s (branch %s)\n"
	failedLineTemplateConstant         = "CHECKOUT-FAILED: %s %s -> %s: %s\n"
	plannedLineTemplateConstant        = "CHECKOUT-PLAN: %s %s -> %s\n"
	summaryLineTemplateConstant        = "CHECKOUT-SUMMARY: %d succeeded, %d failed, %d skipped\n"
	plannedSummaryLineTemplateConstant = "CHECKOUT-SUMMARY: %d succeeded, %d failed, %d skipped, %d planned\n"
	reasonLineSeparatorConstant        = "; "
	reportWriteFailedConstant          = "Unable to write checkout report line"
)

// LineReporter prints one line per processed repository. Skipped directories are not printed.
type LineReporter struct {
	writer io.Writer
	logger *zap.Logger
}

// NewLineReporter constructs a LineReporter writing to writer.
func NewLineReporter(writer io.Writer, logger *zap.Logger) *LineReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LineReporter{writer: writer, logger: logger}
}

// RepositoryProcessed prints the outcome line for result.
func (reporter *LineReporter) RepositoryProcessed(result RepositoryResult) {
	switch result.Status {
	case StatusSucceeded:
		reporter.printf(doneLineTemplateConstant, result.Directory, result.Identity, result.Ref, result.Branch)
	case StatusFailed:
		reporter.printf(failedLineTemplateConstant, result.Directory, result.Identity, result.Ref, describeFailure(result.Failure))
	case StatusPlanned:
		reporter.printf(plannedLineTemplateConstant, result.Directory, result.Identity, result.Ref)
	}
}

// PrintSummary prints the closing totals. The planned count appears only when the run planned checkouts.
func (reporter *LineReporter) PrintSummary(report Report) {
	plannedCount := len(report.Planned())
	if plannedCount == 0 {
		reporter.printf(summaryLineTemplateConstant, len(report.Succeeded()), len(report.Failed()), len(report.Skipped()))
		return
	}
	reporter.printf(plannedSummaryLineTemplateConstant, len(report.Succeeded()), len(report.Failed()), len(report.Skipped()), plannedCount)
}

func (reporter *LineReporter) printf(template string, arguments ...any) {
	if reporter.writer == nil {
		return
	}
	if _, writeError := fmt.Fprintf(reporter.writer, template, arguments...); writeError != nil {
		reporter.logger.Warn(reportWriteFailedConstant, zap.Error(writeError))
	}
}

func describeFailure(failure error) string {
	if failure == nil {
		return ""
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(failure.Error(), "\n", reasonLineSeparatorConstant)), " ")
}
