package utils_test

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := flushingWriter.Write([]byte("CHECKOUT-SUMMARY: 1 succeeded, 0 failed, 0 skipped\n"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "CHECKOUT-SUMMARY: 1 succeeded, 0 failed, 0 skipped\n", destination.String())

	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, found := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, found)

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/recheckout/config.yaml")
	configurationFilePath, found := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, found)
	require.Equal(testInstance, "/etc/recheckout/config.yaml", configurationFilePath)
}
