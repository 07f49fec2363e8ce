package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recheckout/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTRECHECKOUT"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigFileNameConstant        = "config.yaml"
	testFetchDepthKeyConstant         = "tools.checkout.fetch_depth"
	testTimeoutKeyConstant            = "tools.checkout.timeout"
	testEmbeddedConfigurationConstant = "tools:\n  checkout:\n    fetch_depth: 3\n    timeout: 2m\n"
	testFileConfigurationConstant     = "tools:\n  checkout:\n    fetch_depth: 5\n    refs: |\n      acme/widgets: main\n      acme/gadgets: v1.2.0\n"
)

type configurationFixture struct {
	Tools toolsFixture `mapstructure:"tools"`
}

type toolsFixture struct {
	Checkout checkoutFixture `mapstructure:"checkout"`
}

type checkoutFixture struct {
	Refs       string        `mapstructure:"refs"`
	FetchDepth int           `mapstructure:"fetch_depth"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func TestConfigurationLoaderLayers(testInstance *testing.T) {
	testCases := []struct {
		name             string
		embedded         string
		fileContent      string
		environment      map[string]string
		expectedDepth    int
		expectedTimeout  time.Duration
		expectedRefs     string
		expectConfigFile bool
	}{
		{
			name:            "defaults_only",
			expectedDepth:   1,
			expectedTimeout: 10 * time.Minute,
		},
		{
			name:            "embedded_overrides_defaults",
			embedded:        testEmbeddedConfigurationConstant,
			expectedDepth:   3,
			expectedTimeout: 2 * time.Minute,
		},
		{
			name:             "file_overrides_embedded",
			embedded:         testEmbeddedConfigurationConstant,
			fileContent:      testFileConfigurationConstant,
			expectedDepth:    5,
			expectedTimeout:  2 * time.Minute,
			expectedRefs:     "acme/widgets: main\nacme/gadgets: v1.2.0\n",
			expectConfigFile: true,
		},
		{
			name:        "environment_overrides_file",
			embedded:    testEmbeddedConfigurationConstant,
			fileContent: testFileConfigurationConstant,
			environment: map[string]string{
				"TESTRECHECKOUT_TOOLS_CHECKOUT_FETCH_DEPTH": "0",
				"TESTRECHECKOUT_TOOLS_CHECKOUT_TIMEOUT":     "45s",
			},
			expectedDepth:    0,
			expectedTimeout:  45 * time.Second,
			expectedRefs:     "acme/widgets: main\nacme/gadgets: v1.2.0\n",
			expectConfigFile: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			for name, value := range testCase.environment {
				testInstance.Setenv(name, value)
			}

			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(testInstance.TempDir(), testConfigFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})
			if len(testCase.embedded) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte(testCase.embedded), testConfigurationTypeConstant)
			}

			defaultValues := map[string]any{
				testFetchDepthKeyConstant: 1,
				testTimeoutKeyConstant:    10 * time.Minute,
			}
			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)

			require.Equal(testInstance, testCase.expectedDepth, loadedConfiguration.Tools.Checkout.FetchDepth)
			require.Equal(testInstance, testCase.expectedTimeout, loadedConfiguration.Tools.Checkout.Timeout)
			require.Equal(testInstance, testCase.expectedRefs, loadedConfiguration.Tools.Checkout.Refs)
			if testCase.expectConfigFile {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name              string
		selectedDirectory func(workingDirectory string, userDirectory string) string
	}{
		{
			name:              "working_directory",
			selectedDirectory: func(workingDirectory string, userDirectory string) string { return workingDirectory },
		},
		{
			name:              "user_configuration_directory",
			selectedDirectory: func(workingDirectory string, userDirectory string) string { return userDirectory },
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workingDirectory := testInstance.TempDir()
			userDirectory := filepath.Join(testInstance.TempDir(), "recheckout")
			require.NoError(testInstance, os.MkdirAll(userDirectory, 0o755))

			configurationFilePath := filepath.Join(testCase.selectedDirectory(workingDirectory, userDirectory), testConfigFileNameConstant)
			require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testFileConfigurationConstant), 0o600))

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{workingDirectory, userDirectory},
			)
			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration("", nil, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, 5, loadedConfiguration.Tools.Checkout.FetchDepth)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	missingConfigurationPath := filepath.Join(testInstance.TempDir(), testConfigFileNameConstant)
	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(missingConfigurationPath, nil, &loadedConfiguration)

	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to read configuration")
}
