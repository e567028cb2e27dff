package diffview

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/gitrepo"
)

const (
	diffSubcommandConstant             = "diff"
	threeDotRangeTemplateConstant      = "%s...HEAD"
	workingTreeDiffMessageConstant     = "Showing working tree diff...\n"
	branchDiffMessageTemplateConstant  = "Showing diff from %s to current branch...\n"
	checkingStatusErrorTemplateConst   = "checking working tree status: %w"
	serviceLoggerRequiredMessageConst  = "diff service requires a logger"
	serviceExecutorRequiredMessageCons = "diff service requires an executor"
)

// CommandExecutor is the executor slice needed by the diff workflow.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitInteractive(executionContext context.Context, details execshell.CommandDetails) (int, error)
}

// Service construction errors.
var (
	ErrLoggerRequired   = errors.New(serviceLoggerRequiredMessageConst)
	ErrExecutorRequired = errors.New(serviceExecutorRequiredMessageCons)
)

// Options parameterizes one diff invocation.
type Options struct {
	BaseBranch       string
	WorkingDirectory string
	Output           io.Writer
}

// Service selects and streams the appropriate diff.
type Service struct {
	logger     *zap.Logger
	executor   CommandExecutor
	repository *gitrepo.RepositoryClient
}

// NewService assembles the diff workflow service.
func NewService(logger *zap.Logger, executor CommandExecutor) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}

	repositoryClient, clientError := gitrepo.NewRepositoryClient(executor)
	if clientError != nil {
		return nil, clientError
	}

	return &Service{logger: logger, executor: executor, repository: repositoryClient}, nil
}

// Show streams the working tree diff when changes are pending, otherwise the
// three-dot diff from the base branch to HEAD. The diff subprocess inherits the
// terminal so git paging and coloring behave as in a direct invocation.
func (service *Service) Show(executionContext context.Context, options Options) error {
	hasChanges, statusError := service.repository.HasUncommittedChanges(executionContext, options.WorkingDirectory)
	if statusError != nil {
		return fmt.Errorf(checkingStatusErrorTemplateConst, statusError)
	}

	diffArguments := []string{diffSubcommandConstant}
	if hasChanges {
		fmt.Fprint(options.Output, workingTreeDiffMessageConstant)
	} else {
		fmt.Fprintf(options.Output, branchDiffMessageTemplateConstant, options.BaseBranch)
		diffArguments = append(diffArguments, fmt.Sprintf(threeDotRangeTemplateConstant, options.BaseBranch))
	}

	exitCode, diffError := service.executor.ExecuteGitInteractive(executionContext, execshell.CommandDetails{
		Arguments:        diffArguments,
		WorkingDirectory: options.WorkingDirectory,
	})
	if diffError != nil {
		return diffError
	}
	if exitCode != 0 {
		return execshell.PassthroughExitError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: diffArguments}},
			Code:    exitCode,
		}
	}
	return nil
}
