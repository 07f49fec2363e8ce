package actions

import (
	"fmt"
	"io"
	"strings"
)

const (
	errorCommandConstant       = "error"
	warningCommandConstant     = "warning"
	annotationTemplateConstant = "::%s::%s\n"
)

var annotationEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// Annotator writes workflow command annotations.
type Annotator struct {
	writer io.Writer
}

// NewAnnotator constructs an Annotator writing to writer, normally standard output.
func NewAnnotator(writer io.Writer) *Annotator {
	return &Annotator{writer: writer}
}

// Error marks the step with an error annotation.
func (annotator *Annotator) Error(message string) error {
	return annotator.write(errorCommandConstant, message)
}

// Warning marks the step with a warning annotation.
func (annotator *Annotator) Warning(message string) error {
	return annotator.write(warningCommandConstant, message)
}

func (annotator *Annotator) write(command string, message string) error {
	if annotator == nil || annotator.writer == nil {
		return nil
	}
	_, writeError := fmt.Fprintf(annotator.writer, annotationTemplateConstant, command, annotationEscaper.Replace(message))
	return writeError
}
