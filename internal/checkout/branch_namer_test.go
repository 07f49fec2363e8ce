package checkout

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBranchNamerProducesDistinctNamesWithinOneNanosecond(testInstance *testing.T) {
	frozenTime := time.Unix(1700000000, 42)
	namer, creationError := newBranchNamerWithClock("recheckout", func() time.Time { return frozenTime })
	require.NoError(testInstance, creationError)

	const workerCount = 8
	const namesPerWorker = 50

	var waitGroup sync.WaitGroup
	var guard sync.Mutex
	generated := map[string]struct{}{}
	for workerIndex := 0; workerIndex < workerCount; workerIndex++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for nameIndex := 0; nameIndex < namesPerWorker; nameIndex++ {
				branchName := namer.Next()
				guard.Lock()
				generated[branchName] = struct{}{}
				guard.Unlock()
			}
		}()
	}
	waitGroup.Wait()

	require.Len(testInstance, generated, workerCount*namesPerWorker)
	for branchName := range generated {
		require.True(testInstance, strings.HasPrefix(branchName, "recheckout/1700000000000000042-"), branchName)
	}
}

func TestNormalizeBranchPrefix(testInstance *testing.T) {
	testCases := []struct {
		name           string
		prefix         string
		expectedPrefix string
		expectError    bool
	}{
		{name: "empty_uses_default", prefix: "  ", expectedPrefix: DefaultBranchPrefix},
		{name: "trims_slashes", prefix: "/ci/checkout/", expectedPrefix: "ci/checkout"},
		{name: "plain", prefix: "pr-builds", expectedPrefix: "pr-builds"},
		{name: "space", prefix: "ci builds", expectError: true},
		{name: "colon", prefix: "ci:builds", expectError: true},
		{name: "double_dot", prefix: "ci..builds", expectError: true},
		{name: "empty_segment", prefix: "ci//builds", expectError: true},
		{name: "hidden_segment", prefix: "ci/.builds", expectError: true},
		{name: "lock_suffix", prefix: "ci.lock", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			normalizedPrefix, normalizeError := NormalizeBranchPrefix(testCase.prefix)
			if testCase.expectError {
				require.Error(testInstance, normalizeError)
				require.True(testInstance, errors.Is(normalizeError, ErrInvalidBranchPrefix))
				return
			}
			require.NoError(testInstance, normalizeError)
			require.Equal(testInstance, testCase.expectedPrefix, normalizedPrefix)
		})
	}
}

func TestNewBranchNamerRejectsInvalidPrefix(testInstance *testing.T) {
	namer, creationError := NewBranchNamer("bad prefix")
	require.Nil(testInstance, namer)
	require.ErrorIs(testInstance, creationError, ErrInvalidBranchPrefix)
}
