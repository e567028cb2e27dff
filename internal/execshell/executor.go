package execshell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const (
	gitToolNameConstant    = "git"
	githubToolNameConstant = "gh"

	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	toolMissingTemplateConstant               = "required tool %q not found on PATH; install it and retry"
	commandFailedTemplateConstant             = "%s failed with exit code %d"
	commandFailedWithStderrTemplateConstant   = "%s failed with exit code %d: %s"
	commandExecutionFailedTemplateConstant    = "%s could not be executed: %s"
	commandLabelJoinSeparatorConstant         = " "

	logMessageCommandStartedConstant   = "external command started"
	logMessageCommandCompletedConstant = "external command completed"
	logMessageCommandFailedConstant    = "external command failed"
	logFieldCommandConstant            = "command"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldExitCodeConstant           = "exit_code"
	logFieldErrorConstant              = "error"
)

// CommandName identifies a supported external executable.
type CommandName string

// Supported executables.
const (
	CommandGit    CommandName = CommandName(gitToolNameConstant)
	CommandGitHub CommandName = CommandName(githubToolNameConstant)
)

// CommandDetails describes the invocation parameters for an external command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a captured execution.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution so tests can substitute scripted fakes.
type CommandRunner interface {
	// Run executes the command, capturing stdout and stderr.
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
	// RunInteractive executes the command with stdout and stderr attached to the
	// invoking process, returning only the child's exit code.
	RunInteractive(executionContext context.Context, command ShellCommand) (int, error)
}

// Sentinel construction errors.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a captured command that finished with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure including trimmed standard error output.
func (failedError CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, formatCommandLabel(failedError.Command), failedError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithStderrTemplateConstant, formatCommandLabel(failedError.Command), failedError.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, formatCommandLabel(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// PassthroughExitError carries the exit code of a streamed command so callers can propagate it.
type PassthroughExitError struct {
	Command ShellCommand
	Code    int
}

// Error describes the streamed command failure.
func (exitError PassthroughExitError) Error() string {
	return fmt.Sprintf(commandFailedTemplateConstant, formatCommandLabel(exitError.Command), exitError.Code)
}

// ExitCode exposes the child's exit code for process exit propagation.
func (exitError PassthroughExitError) ExitCode() int {
	return exitError.Code
}

// ToolNotFoundError indicates a required executable is absent from PATH.
type ToolNotFoundError struct {
	Tool CommandName
}

// Error describes the missing tool.
func (notFoundError ToolNotFoundError) Error() string {
	return fmt.Sprintf(toolMissingTemplateConstant, string(notFoundError.Tool))
}

// ShellExecutor coordinates external command execution with structured logging.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor validates dependencies and assembles an executor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: noopCommandEventObserver{}}, nil
}

// SetEventObserver replaces the lifecycle observer; nil restores the no-op observer.
func (executor *ShellExecutor) SetEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.observer = noopCommandEventObserver{}
		return
	}
	executor.observer = observer
}

// Execute runs the command with captured output and translates non-zero exits into errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.observer.CommandStarted(command)
	executor.logger.Debug(logMessageCommandStartedConstant, executor.commandLogFields(command)...)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Debug(logMessageCommandFailedConstant, append(executor.commandLogFields(command), zap.String(logFieldErrorConstant, runError.Error()))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	executor.logger.Debug(logMessageCommandCompletedConstant, append(executor.commandLogFields(command), zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)

	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}
	return executionResult, nil
}

// ExecuteInteractive streams the command to the terminal and returns the child's exit code.
//
// A non-zero exit code is not translated into an error here; the caller decides
// whether and how to propagate it.
func (executor *ShellExecutor) ExecuteInteractive(executionContext context.Context, command ShellCommand) (int, error) {
	executor.observer.CommandStarted(command)
	executor.logger.Debug(logMessageCommandStartedConstant, executor.commandLogFields(command)...)

	exitCode, runError := executor.runner.RunInteractive(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Debug(logMessageCommandFailedConstant, append(executor.commandLogFields(command), zap.String(logFieldErrorConstant, runError.Error()))...)
		return 0, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, ExecutionResult{ExitCode: exitCode})
	executor.logger.Debug(logMessageCommandCompletedConstant, append(executor.commandLogFields(command), zap.Int(logFieldExitCodeConstant, exitCode))...)
	return exitCode, nil
}

// ExecuteGit runs git with captured output.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGitInteractive runs git with terminal passthrough.
func (executor *ShellExecutor) ExecuteGitInteractive(executionContext context.Context, details CommandDetails) (int, error) {
	return executor.ExecuteInteractive(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGitHubCLI runs gh with captured output.
func (executor *ShellExecutor) ExecuteGitHubCLI(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitHub, Details: details})
}

// ExecuteGitHubCLIInteractive runs gh with terminal passthrough.
func (executor *ShellExecutor) ExecuteGitHubCLIInteractive(executionContext context.Context, details CommandDetails) (int, error) {
	return executor.ExecuteInteractive(executionContext, ShellCommand{Name: CommandGitHub, Details: details})
}

func (executor *ShellExecutor) commandLogFields(command ShellCommand) []zap.Field {
	logFields := []zap.Field{zap.String(logFieldCommandConstant, formatCommandLabel(command))}
	if len(command.Details.WorkingDirectory) > 0 {
		logFields = append(logFields, zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory))
	}
	return logFields
}

// EnsureToolAvailable verifies the executable resolves on PATH.
func EnsureToolAvailable(tool CommandName) error {
	if _, lookupError := exec.LookPath(string(tool)); lookupError != nil {
		return ToolNotFoundError{Tool: tool}
	}
	return nil
}

func formatCommandLabel(command ShellCommand) string {
	labelParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(labelParts, commandLabelJoinSeparatorConstant)
}
