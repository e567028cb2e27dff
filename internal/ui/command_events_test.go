package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/ui"
)

func TestConsoleCommandEventLoggerMessages(testInstance *testing.T) {
	statusCommand := execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"status", "--porcelain"}, WorkingDirectory: "/repo"},
	}

	testCases := []struct {
		name            string
		emit            func(eventLogger *ui.ConsoleCommandEventLogger)
		expectedMessage string
	}{
		{
			name: "started",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandStarted(statusCommand)
			},
			expectedMessage: "Running git status --porcelain (in /repo)",
		},
		{
			name: "completed",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(statusCommand, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedMessage: "Completed git status --porcelain (in /repo)",
		},
		{
			name: "failed_with_stderr",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(statusCommand, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: bad revision\n"})
			},
			expectedMessage: "git status --porcelain (in /repo) failed with exit code 128: fatal: bad revision",
		},
		{
			name: "execution_failure",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandExecutionFailed(statusCommand, errors.New("executable vanished"))
			},
			expectedMessage: "git status --porcelain (in /repo) failed: executable vanished",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.emit(eventLogger)

			require.Equal(testInstance, 1, observedLogs.Len())
			require.Equal(testInstance, testCase.expectedMessage, observedLogs.All()[0].Message)
		})
	}
}
