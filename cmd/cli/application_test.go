package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/cmd/cli"
	buildlogcmd "github.com/temirov/recheckout/cmd/cli/buildlog"
	checkoutcmd "github.com/temirov/recheckout/cmd/cli/checkout"
)

func TestApplicationEmbeddedDefaultsMatchCommandDefaults(testInstance *testing.T) {
	viperInstance := decodeEmbeddedConfiguration(testInstance)

	testCases := []struct {
		name       string
		sectionKey string
		target     func() any
		expected   any
	}{
		{
			name:       "checkout",
			sectionKey: "tools.checkout",
			target:     func() any { return &checkoutcmd.CommandConfiguration{} },
			expected:   checkoutcmd.DefaultCommandConfiguration(),
		},
		{
			name:       "build_log",
			sectionKey: "tools.build_log",
			target:     func() any { return &buildlogcmd.CommandConfiguration{} },
			expected:   buildlogcmd.DefaultCommandConfiguration(),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			target := testCase.target()
			decodeSection(testInstance, viperInstance.GetStringMap(testCase.sectionKey), target)
			switch decoded := target.(type) {
			case *checkoutcmd.CommandConfiguration:
				require.Equal(testInstance, testCase.expected, *decoded)
			case *buildlogcmd.CommandConfiguration:
				require.Equal(testInstance, testCase.expected, *decoded)
			}
		})
	}
}

func TestApplicationEmbeddedDefaultsDecodeIntoApplicationConfiguration(testInstance *testing.T) {
	viperInstance := decodeEmbeddedConfiguration(testInstance)

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, checkoutcmd.DefaultCommandConfiguration(), configuration.Tools.Checkout)
}

func decodeEmbeddedConfiguration(testingInstance testing.TB) *viper.Viper {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testingInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))
	return viperInstance
}

func decodeSection(testingInstance testing.TB, options map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     target,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	require.NoError(testingInstance, decoderError)
	require.NoError(testingInstance, decoder.Decode(options))
}
