package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
)

const (
	commandStartedTemplateConstant          = "Running %s"
	commandCompletedTemplateConstant        = "Completed %s"
	commandFailedTemplateConstant           = "%s failed with exit code %d"
	commandExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	argumentJoinSeparatorConstant           = " "
	unknownFailureMessageConstant           = "unknown error"
)

// ConsoleCommandEventLogger renders command lifecycle events through zap so a
// debug-level run shows every external invocation as it happens.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger constructs an event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.logger.Debug(fmt.Sprintf(commandStartedTemplateConstant, describeCommand(command)))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.logger.Debug(fmt.Sprintf(commandCompletedTemplateConstant, describeCommand(command)))
		return
	}

	failureMessage := fmt.Sprintf(commandFailedTemplateConstant, describeCommand(command), result.ExitCode)
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) > 0 {
		failureMessage += fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
	}
	eventLogger.logger.Debug(failureMessage)
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	eventLogger.logger.Error(fmt.Sprintf(commandExecutionFailureTemplateConstant, describeCommand(command), failureMessage))
}

func describeCommand(command execshell.ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel += argumentJoinSeparatorConstant + strings.Join(command.Details.Arguments, argumentJoinSeparatorConstant)
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		commandLabel += fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return commandLabel
}
