package actions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

const (
	outputHeredocTemplateConstant           = "%s<<%s\n%s\n%s\n"
	outputFallbackTemplateConstant          = "%s=%s\n"
	delimiterPrefixConstant                 = "ghadelimiter_"
	outputFilePermissionsConstant           = 0o644
	outputFileOpenErrorTemplateConstant     = "unable to open step output file %s: %w"
	outputWriteErrorTemplateConstant        = "unable to write step output %s: %w"
	delimiterCollisionErrorTemplateConstant = "step output %s contains its delimiter"
	invalidOutputNameErrorTemplateConstant  = "invalid step output name %q"
	forbiddenOutputNameCharactersConstant   = "\r\n=<"
)

// ErrOutputDestinationMissing indicates neither an output file nor a fallback writer is available.
var ErrOutputDestinationMissing = errors.New("step output destination not configured")

// OutputWriter records step outputs.
type OutputWriter struct {
	outputPath      string
	fallback        io.Writer
	createDelimiter func() string
}

// NewOutputWriter targets the file named by GITHUB_OUTPUT, printing name=value lines to
// fallback when that variable is unset.
func NewOutputWriter(fallback io.Writer) *OutputWriter {
	return NewOutputWriterForFile(os.Getenv(githubOutputVariableConstant), fallback)
}

// NewOutputWriterForFile targets outputPath; an empty path selects the fallback writer.
func NewOutputWriterForFile(outputPath string, fallback io.Writer) *OutputWriter {
	return &OutputWriter{
		outputPath:      strings.TrimSpace(outputPath),
		fallback:        fallback,
		createDelimiter: func() string { return delimiterPrefixConstant + uuid.New().String() },
	}
}

// SetOutput records value under name. Multi-line values are written as heredocs.
func (writer *OutputWriter) SetOutput(name string, value string) error {
	if len(strings.TrimSpace(name)) == 0 || strings.ContainsAny(name, forbiddenOutputNameCharactersConstant) {
		return fmt.Errorf(invalidOutputNameErrorTemplateConstant, name)
	}

	if len(writer.outputPath) == 0 {
		if writer.fallback == nil {
			return ErrOutputDestinationMissing
		}
		if _, writeError := fmt.Fprintf(writer.fallback, outputFallbackTemplateConstant, name, value); writeError != nil {
			return fmt.Errorf(outputWriteErrorTemplateConstant, name, writeError)
		}
		return nil
	}

	delimiter := writer.createDelimiter()
	if strings.Contains(value, delimiter) {
		return fmt.Errorf(delimiterCollisionErrorTemplateConstant, name)
	}

	outputFile, openError := os.OpenFile(writer.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, outputFilePermissionsConstant)
	if openError != nil {
		return fmt.Errorf(outputFileOpenErrorTemplateConstant, writer.outputPath, openError)
	}
	defer outputFile.Close()

	if _, writeError := fmt.Fprintf(outputFile, outputHeredocTemplateConstant, name, delimiter, value, delimiter); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, name, writeError)
	}
	return nil
}
