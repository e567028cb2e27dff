package diffview_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/diffview"
	"github.com/velamo/ghg/internal/execshell"
)

type scriptedDiffExecutor struct {
	statusOutput        string
	interactiveExitCode int
	interactiveKeys     []string
}

func (executor *scriptedDiffExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if strings.Join(details.Arguments, " ") == "status --porcelain" {
		return execshell.ExecutionResult{StandardOutput: executor.statusOutput}, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *scriptedDiffExecutor) ExecuteGitInteractive(_ context.Context, details execshell.CommandDetails) (int, error) {
	executor.interactiveKeys = append(executor.interactiveKeys, strings.Join(details.Arguments, " "))
	return executor.interactiveExitCode, nil
}

func TestDiffSelection(testInstance *testing.T) {
	testCases := []struct {
		name                string
		statusOutput        string
		expectedDiffKey     string
		expectedDescription string
	}{
		{
			name:                "dirty_tree_shows_working_tree_diff",
			statusOutput:        " M main.go\n",
			expectedDiffKey:     "diff",
			expectedDescription: "Showing working tree diff...",
		},
		{
			name:                "clean_tree_shows_three_dot_diff",
			statusOutput:        "",
			expectedDiffKey:     "diff master...HEAD",
			expectedDescription: "Showing diff from master to current branch...",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedDiffExecutor{statusOutput: testCase.statusOutput}
			service, serviceError := diffview.NewService(zap.NewNop(), executor)
			require.NoError(testInstance, serviceError)

			outputBuffer := &bytes.Buffer{}
			showError := service.Show(context.Background(), diffview.Options{BaseBranch: "master", Output: outputBuffer})

			require.NoError(testInstance, showError)
			require.Equal(testInstance, []string{testCase.expectedDiffKey}, executor.interactiveKeys)
			require.Contains(testInstance, outputBuffer.String(), testCase.expectedDescription)
		})
	}
}

func TestDiffPropagatesChildExitCode(testInstance *testing.T) {
	executor := &scriptedDiffExecutor{interactiveExitCode: 141}
	service, serviceError := diffview.NewService(zap.NewNop(), executor)
	require.NoError(testInstance, serviceError)

	showError := service.Show(context.Background(), diffview.Options{BaseBranch: "master", Output: &bytes.Buffer{}})

	var passthroughError execshell.PassthroughExitError
	require.ErrorAs(testInstance, showError, &passthroughError)
	require.Equal(testInstance, 141, passthroughError.ExitCode())
}
