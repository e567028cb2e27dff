package move

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
	stashSubcommandConstant        = "stash"
	stashPushSubcommandConstant    = "push"
	stashPopSubcommandConstant     = "pop"
	stashMessageFlagConstant       = "-m"
	stashMessageTemplateConstant   = "ghg move to %s"
	checkoutSubcommandConstant     = "checkout"
	checkoutNewBranchFlagConstant  = "-b"
	pullSubcommandConstant         = "pull"
	movingMessageTemplateConstant  = "Moving changes to new branch: %s\n"
	stashingMessageConstant        = "Stashing current changes...\n"
	nothingToStashMessageConstant  = "No uncommitted changes to stash\n"
	switchingMessageTemplateConst  = "Switching to %s...\n"
	pullingMessageTemplateConstant = "Pulling latest changes from %s...\n"
	creatingMessageTemplateConst   = "Creating and switching to branch: %s\n"
	applyingStashMessageConstant   = "Applying stashed changes...\n"
	successMessageTemplateConstant = "✅ Successfully moved to branch '%s'\n"
	stashRecoveryHintConstant      = "Your changes are still in the stash. Run 'git stash pop' to apply them manually.\n"

	checkingStatusErrorTemplateConstant  = "checking working tree status: %w"
	stashingErrorTemplateConstant        = "stashing changes: %w"
	switchingErrorTemplateConstant       = "switching to %s: %w"
	pullingErrorTemplateConstant         = "pulling from %s: %w"
	creatingBranchErrorTemplateConstant  = "creating branch %s: %w"
	applyingStashErrorTemplateConstant   = "applying stashed changes: %w"
	serviceLoggerRequiredMessageConstant = "move service requires a logger"
	serviceExecutorRequiredMessageConst  = "move service requires an executor"
)

// CommandExecutor is the executor slice needed by the move workflow.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service construction errors.
var (
	ErrLoggerRequired   = errors.New(serviceLoggerRequiredMessageConstant)
	ErrExecutorRequired = errors.New(serviceExecutorRequiredMessageConst)
)

// Options parameterizes one move invocation.
type Options struct {
	BranchName       string
	BaseBranch       string
	Remote           string
	WorkingDirectory string
	Output           io.Writer
}

// Service relocates uncommitted changes onto a new branch.
type Service struct {
	logger     *zap.Logger
	executor   CommandExecutor
	repository *gitrepo.RepositoryClient
}

// NewService assembles the move workflow service.
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

// Move stashes the working tree when dirty, refreshes the base branch, creates
// the requested branch, and reapplies the stash. A stash-pop failure leaves the
// stash in place and surfaces a manual recovery hint instead of rolling back.
func (service *Service) Move(executionContext context.Context, options Options) error {
	fmt.Fprintf(options.Output, movingMessageTemplateConstant, options.BranchName)

	hasChanges, statusError := service.repository.HasUncommittedChanges(executionContext, options.WorkingDirectory)
	if statusError != nil {
		return fmt.Errorf(checkingStatusErrorTemplateConstant, statusError)
	}

	stashCreated := false
	if hasChanges {
		fmt.Fprint(options.Output, stashingMessageConstant)
		stashMessage := fmt.Sprintf(stashMessageTemplateConstant, options.BranchName)
		_, stashError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{stashSubcommandConstant, stashPushSubcommandConstant, stashMessageFlagConstant, stashMessage},
			WorkingDirectory: options.WorkingDirectory,
		})
		if stashError != nil {
			return fmt.Errorf(stashingErrorTemplateConstant, stashError)
		}
		stashCreated = true
	} else {
		fmt.Fprint(options.Output, nothingToStashMessageConstant)
	}

	fmt.Fprintf(options.Output, switchingMessageTemplateConst, options.BaseBranch)
	_, checkoutError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, options.BaseBranch},
		WorkingDirectory: options.WorkingDirectory,
	})
	if checkoutError != nil {
		return fmt.Errorf(switchingErrorTemplateConstant, options.BaseBranch, checkoutError)
	}

	fmt.Fprintf(options.Output, pullingMessageTemplateConstant, options.Remote)
	_, pullError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{pullSubcommandConstant, options.Remote, options.BaseBranch},
		WorkingDirectory: options.WorkingDirectory,
	})
	if pullError != nil {
		return fmt.Errorf(pullingErrorTemplateConstant, options.Remote, pullError)
	}

	fmt.Fprintf(options.Output, creatingMessageTemplateConst, options.BranchName)
	_, branchError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, checkoutNewBranchFlagConstant, options.BranchName},
		WorkingDirectory: options.WorkingDirectory,
	})
	if branchError != nil {
		return fmt.Errorf(creatingBranchErrorTemplateConstant, options.BranchName, branchError)
	}

	if stashCreated {
		fmt.Fprint(options.Output, applyingStashMessageConstant)
		_, popError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{stashSubcommandConstant, stashPopSubcommandConstant},
			WorkingDirectory: options.WorkingDirectory,
		})
		if popError != nil {
			fmt.Fprint(options.Output, stashRecoveryHintConstant)
			return fmt.Errorf(applyingStashErrorTemplateConstant, popError)
		}
	}

	fmt.Fprintf(options.Output, successMessageTemplateConstant, options.BranchName)
	return nil
}
