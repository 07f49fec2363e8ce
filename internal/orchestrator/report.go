package orchestrator

import (
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/temirov/recheckout/internal/refmap"
)

// Status is the outcome of one candidate directory.
type Status string

// Outcomes recorded in a Report.
const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusPlanned   Status = "planned"
)

// SkipReason explains why a directory was left untouched.
type SkipReason string

// Reasons a candidate is skipped.
const (
	SkipReasonNotDirectory       SkipReason = "not-a-directory"
	SkipReasonNoGit              SkipReason = "no-git"
	SkipReasonIdentityUnresolved SkipReason = "identity-unresolved"
	SkipReasonNotInRefMap        SkipReason = "not-in-ref-map"
)

const yamlIndentationConstant = 2

// Candidate pairs a selected directory with the identity of its remote. Identity is
// empty when it could not be resolved.
type Candidate struct {
	Directory string
	Identity  string
}

// RepositoryResult is the outcome for one selected directory.
type RepositoryResult struct {
	Directory  string
	Identity   string
	Ref        string
	Branch     string
	Status     Status
	SkipReason SkipReason
	Failure    error
}

// Report aggregates the results of a run in selection order.
type Report struct {
	References refmap.RefMap
	Results    []RepositoryResult
}

// Succeeded returns the repositories that were checked out.
func (report Report) Succeeded() []RepositoryResult {
	return report.filter(StatusSucceeded)
}

// Failed returns the repositories whose checkout failed.
func (report Report) Failed() []RepositoryResult {
	return report.filter(StatusFailed)
}

// Skipped returns the directories left untouched.
func (report Report) Skipped() []RepositoryResult {
	return report.filter(StatusSkipped)
}

// Planned returns the checkouts a dry run would perform.
func (report Report) Planned() []RepositoryResult {
	return report.filter(StatusPlanned)
}

// HasFailures reports whether any checkout failed.
func (report Report) HasFailures() bool {
	return len(report.Failed()) > 0
}

// FailureError combines every checkout failure, or returns nil when there were none.
func (report Report) FailureError() error {
	var combined error
	for _, result := range report.Failed() {
		combined = multierr.Append(combined, result.Failure)
	}
	return combined
}

func (report Report) filter(status Status) []RepositoryResult {
	filtered := []RepositoryResult{}
	for _, result := range report.Results {
		if result.Status == status {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

type reportDocument struct {
	Refs    map[string]string `yaml:"refs"`
	Summary summaryDocument   `yaml:"summary"`
	Results []resultDocument  `yaml:"results"`
}

type summaryDocument struct {
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
	Skipped   int `yaml:"skipped"`
	Planned   int `yaml:"planned,omitempty"`
}

type resultDocument struct {
	Directory  string `yaml:"directory"`
	Identity   string `yaml:"identity,omitempty"`
	Ref        string `yaml:"ref,omitempty"`
	Branch     string `yaml:"branch,omitempty"`
	Status     string `yaml:"status"`
	SkipReason string `yaml:"skip_reason,omitempty"`
	Error      string `yaml:"error,omitempty"`
}

// WriteYAML renders the report as a YAML document.
func (report Report) WriteYAML(writer io.Writer) error {
	document := reportDocument{
		Refs: map[string]string{},
		Summary: summaryDocument{
			Succeeded: len(report.Succeeded()),
			Failed:    len(report.Failed()),
			Skipped:   len(report.Skipped()),
			Planned:   len(report.Planned()),
		},
		Results: make([]resultDocument, 0, len(report.Results)),
	}
	for _, identity := range report.References.Identities() {
		reference, _ := report.References.Lookup(identity)
		document.Refs[identity] = reference
	}
	for _, result := range report.Results {
		entry := resultDocument{
			Directory:  result.Directory,
			Identity:   result.Identity,
			Ref:        result.Ref,
			Branch:     result.Branch,
			Status:     string(result.Status),
			SkipReason: string(result.SkipReason),
		}
		if result.Failure != nil {
			entry.Error = result.Failure.Error()
		}
		document.Results = append(document.Results, entry)
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}
