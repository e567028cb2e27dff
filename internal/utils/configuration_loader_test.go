package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velamo/ghg/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTGHG"
	testBaseBranchKeyConstant         = "workflow.base_branch"
	testDefaultBaseBranchConstant     = "master"
	testFileBaseBranchConstant        = "main"
	testEnvironmentBaseBranchConstant = "trunk"
	testEmbeddedBaseBranchConstant    = "develop"
	testConfigFileNameConstant        = "config.yaml"
	testConfigContentTemplateConstant = "workflow:\n  base_branch: %s\n"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
)

type configurationFixture struct {
	Workflow workflowConfigurationFixture `mapstructure:"workflow"`
}

type workflowConfigurationFixture struct {
	BaseBranch string `mapstructure:"base_branch"`
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		embeddedBaseBranch    string
		fileBaseBranch        string
		environmentBaseBranch string
		expectedBaseBranch    string
	}{
		{
			name:               "embedded_configuration_merges",
			embeddedBaseBranch: testEmbeddedBaseBranchConstant,
			expectedBaseBranch: testEmbeddedBaseBranchConstant,
		},
		{
			name:               "defaults_apply_without_file",
			embeddedBaseBranch: testDefaultBaseBranchConstant,
			expectedBaseBranch: testDefaultBaseBranchConstant,
		},
		{
			name:               "config_file_overrides_defaults",
			embeddedBaseBranch: testDefaultBaseBranchConstant,
			fileBaseBranch:     testFileBaseBranchConstant,
			expectedBaseBranch: testFileBaseBranchConstant,
		},
		{
			name:                  "environment_overrides_file",
			embeddedBaseBranch:    testDefaultBaseBranchConstant,
			fileBaseBranch:        testFileBaseBranchConstant,
			environmentBaseBranch: testEnvironmentBaseBranchConstant,
			expectedBaseBranch:    testEnvironmentBaseBranchConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileBaseBranch) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileBaseBranch)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}

			if len(testCase.environmentBaseBranch) > 0 {
				environmentVariableName := fmt.Sprintf("%s_%s", testEnvironmentPrefixConstant, strings.ToUpper(strings.ReplaceAll(testBaseBranchKeyConstant, ".", "_")))
				testInstance.Setenv(environmentVariableName, testCase.environmentBaseBranch)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})
			configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedBaseBranch)), testConfigurationTypeConstant)

			defaultValues := map[string]any{
				testBaseBranchKeyConstant: testDefaultBaseBranchConstant,
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedBaseBranch, loadedConfiguration.Workflow.BaseBranch)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderRejectsMalformedFile(testInstance *testing.T) {
	tempDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(tempDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("workflow: [unclosed\n"), 0o600))

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(configurationFilePath, nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to read configuration")
}
