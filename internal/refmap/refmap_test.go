package refmap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/internal/refmap"
)

func TestParseText(testInstance *testing.T) {
	testCases := []struct {
		name               string
		input              string
		expectedReferences map[string]string
	}{
		{
			name:               "single_entry",
			input:              "acme/widgets:refs/pull/42/merge",
			expectedReferences: map[string]string{"acme/widgets": "refs/pull/42/merge"},
		},
		{
			name:               "whitespace_and_blank_lines",
			input:              "\n  acme/widgets :  main  \n\n\tacme/gadgets: v1.2.0\r\n",
			expectedReferences: map[string]string{"acme/widgets": "main", "acme/gadgets": "v1.2.0"},
		},
		{
			name:               "last_occurrence_wins",
			input:              "acme/widgets: main\nacme/gadgets: dev\nacme/widgets: deadbeef\n",
			expectedReferences: map[string]string{"acme/widgets": "deadbeef", "acme/gadgets": "dev"},
		},
		{
			name:               "ref_keeps_later_colons",
			input:              "acme/widgets: refs/heads/a:b",
			expectedReferences: map[string]string{"acme/widgets": "refs/heads/a:b"},
		},
		{
			name:               "comments_ignored",
			input:              "# pinned for release\nacme/widgets: main",
			expectedReferences: map[string]string{"acme/widgets": "main"},
		},
		{
			name:               "empty_input",
			input:              "",
			expectedReferences: map[string]string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedMap, parseError := refmap.ParseText(testCase.input)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, len(testCase.expectedReferences), parsedMap.Len())
			for identity, expectedReference := range testCase.expectedReferences {
				reference, found := parsedMap.Lookup(identity)
				require.True(testInstance, found, identity)
				require.Equal(testInstance, expectedReference, reference)
			}
		})
	}
}

func TestParseTextRejectsMalformedLines(testInstance *testing.T) {
	testCases := []struct {
		name               string
		input              string
		expectedLineNumber int
	}{
		{name: "missing_colon", input: "acme/widgets: main\nacme/gadgets\n", expectedLineNumber: 2},
		{name: "missing_identity", input: " : main", expectedLineNumber: 1},
		{name: "missing_ref", input: "\n\nacme/widgets:   ", expectedLineNumber: 3},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, parseError := refmap.ParseText(testCase.input)
			var lineError refmap.LineError
			require.ErrorAs(testInstance, parseError, &lineError)
			require.Equal(testInstance, testCase.expectedLineNumber, lineError.LineNumber)
		})
	}
}

func TestRefMapFormatAndIdentities(testInstance *testing.T) {
	parsedMap, parseError := refmap.ParseText("acme/widgets: main\nacme/gadgets: v2\n")
	require.NoError(testInstance, parseError)

	require.Equal(testInstance, []string{"acme/gadgets", "acme/widgets"}, parsedMap.Identities())
	require.Equal(testInstance, "acme/gadgets: v2\nacme/widgets: main\n", parsedMap.Format())

	_, found := parsedMap.Lookup("acme/other")
	require.False(testInstance, found)

	var emptyMap refmap.RefMap
	require.Zero(testInstance, emptyMap.Len())
	_, found = emptyMap.Lookup("acme/widgets")
	require.False(testInstance, found)
}
