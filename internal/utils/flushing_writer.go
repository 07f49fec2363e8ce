package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered sinks after each one so that
// report lines interleave predictably with log output.
type FlushingWriter struct {
	mutex  sync.Mutex
	writer io.Writer
}

// NewFlushingWriter wraps writer; nil stays nil and already wrapped writers are returned as is.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, wrapped := writer.(*FlushingWriter); wrapped {
		return writer
	}
	return &FlushingWriter{writer: writer}
}

// Write forwards data and flushes the underlying writer when it supports Flush.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bufferedWriter, buffered := flushingWriter.writer.(flusher); buffered {
		return bytesWritten, bufferedWriter.Flush()
	}
	return bytesWritten, nil
}
