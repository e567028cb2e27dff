package cherry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/branchname"
	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/gitrepo"
)

const (
	addSubcommandConstant           = "add"
	addAllFlagConstant              = "--all"
	commitSubcommandConstant        = "commit"
	commitMessageFlagConstant       = "-m"
	checkoutSubcommandConstant      = "checkout"
	checkoutNewBranchFlagConstant   = "-b"
	pullSubcommandConstant          = "pull"
	cherryPickSubcommandConstant    = "cherry-pick"
	pushSubcommandConstant          = "push"
	pushSetUpstreamFlagConstant     = "-u"
	pullRequestSubcommandConstant   = "pr"
	pullRequestCreateActionConstant = "create"
	pullRequestTitleFlagConstant    = "--title"
	pullRequestBodyFlagConstant     = "--body"
	pullRequestLabelFlagConstant    = "--label"
	shortRevisionLengthConstant     = 8

	startingMessageTemplateConstant      = "Starting cherry-pick workflow from branch: %s\n"
	committingChangesMessageConstant     = "Committing uncommitted changes...\n"
	collectingCommitsTemplateConstant    = "Collecting last %d commit(s) to cherry-pick\n"
	switchingMessageTemplateConstant     = "Switching to %s...\n"
	pullingMessageTemplateConstant       = "Pulling latest changes from %s...\n"
	creatingBranchMessageTemplateConst   = "Creating new branch: %s\n"
	cherryPickingMessageTemplateConstant = "Cherry-picking commit %d/%d: %s\n"
	conflictHintMessageConstant          = "Cherry-pick stopped on conflicts. Resolve them manually, then continue the cherry-pick.\n"
	pushingMessageTemplateConstant       = "Pushing branch %s to %s...\n"
	creatingPullRequestMessageConstant   = "Creating pull request...\n"
	pushedDespiteFailureTemplateConstant = "Pull request creation failed, but branch '%s' was pushed successfully\n"
	returningMessageTemplateConstant     = "Returning to branch: %s\n"
	stillOnBranchTemplateConstant        = "You are currently on branch: %s\n"
	successMessageTemplateConstant       = "✅ Created pull request for branch '%s'\n"

	readingBranchErrorTemplateConstant   = "reading current branch: %w"
	checkingStatusErrorTemplateConstant  = "checking working tree status: %w"
	stagingChangesErrorTemplateConstant  = "staging changes: %w"
	committingErrorTemplateConstant      = "committing changes: %w"
	readingRevisionErrorTemplateConstant = "reading committed revision: %w"
	collectingErrorTemplateConstant      = "collecting commits: %w"
	switchingErrorTemplateConstant       = "switching to %s: %w"
	pullingErrorTemplateConstant         = "pulling from %s: %w"
	creatingBranchErrorTemplateConstant  = "creating branch %s: %w"
	cherryPickErrorTemplateConstant      = "cherry-picking %s: %w"
	pushingErrorTemplateConstant         = "pushing branch %s: %w"
	returningErrorTemplateConstant       = "returning to branch %s: %w"

	countWithChangesMessageConstant    = "cannot combine a commit count with uncommitted changes; commit or stash them first"
	emptyBranchNameTemplateConstant    = "title %q does not produce a usable branch name"
	serviceLoggerRequiredMessageConst  = "cherry service requires a logger"
	serviceExecutorRequiredMessageCons = "cherry service requires an executor"
)

// CommandExecutor is the executor slice needed by the cherry workflow.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLIInteractive(executionContext context.Context, details execshell.CommandDetails) (int, error)
}

// Service construction and validation errors.
var (
	ErrLoggerRequired            = errors.New(serviceLoggerRequiredMessageConst)
	ErrExecutorRequired          = errors.New(serviceExecutorRequiredMessageCons)
	ErrCountWithUncommittedState = errors.New(countWithChangesMessageConstant)
)

// EmptyBranchNameError reports a title that normalizes to an empty branch name.
type EmptyBranchNameError struct {
	Title string
}

// Error describes the unusable title.
func (nameError EmptyBranchNameError) Error() string {
	return fmt.Sprintf(emptyBranchNameTemplateConstant, nameError.Title)
}

// Options parameterizes one cherry invocation.
type Options struct {
	Title               string
	Body                string
	AddMergeLabel       bool
	MergeLabel          string
	CommitCount         int
	CommitCountProvided bool
	BaseBranch          string
	Remote              string
	WorkingDirectory    string
	Output              io.Writer
}

// Service replays commits onto a fresh branch and opens a pull request.
type Service struct {
	logger     *zap.Logger
	executor   CommandExecutor
	repository *gitrepo.RepositoryClient
}

// NewService assembles the cherry workflow service.
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

// Cherry commits or collects the commits to replay, cuts a branch named after
// the title from the refreshed base branch, cherry-picks the commits onto it,
// pushes the branch, opens a pull request, and returns to the original branch.
func (service *Service) Cherry(executionContext context.Context, options Options) error {
	originalBranch, branchError := service.repository.CurrentBranch(executionContext, options.WorkingDirectory)
	if branchError != nil {
		return fmt.Errorf(readingBranchErrorTemplateConstant, branchError)
	}
	fmt.Fprintf(options.Output, startingMessageTemplateConstant, originalBranch)

	branchName := branchname.Normalize(options.Title)
	if len(branchName) == 0 {
		return EmptyBranchNameError{Title: options.Title}
	}

	commits, collectError := service.collectCommits(executionContext, options)
	if collectError != nil {
		return collectError
	}

	if prepareError := service.prepareBranch(executionContext, options, branchName); prepareError != nil {
		return prepareError
	}

	for commitIndex, commitRevision := range commits {
		fmt.Fprintf(options.Output, cherryPickingMessageTemplateConstant, commitIndex+1, len(commits), shortRevision(commitRevision))
		_, pickError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{cherryPickSubcommandConstant, commitRevision},
			WorkingDirectory: options.WorkingDirectory,
		})
		if pickError != nil {
			fmt.Fprint(options.Output, conflictHintMessageConstant)
			return fmt.Errorf(cherryPickErrorTemplateConstant, shortRevision(commitRevision), pickError)
		}
	}

	fmt.Fprintf(options.Output, pushingMessageTemplateConstant, branchName, options.Remote)
	_, pushError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, pushSetUpstreamFlagConstant, options.Remote, branchName},
		WorkingDirectory: options.WorkingDirectory,
	})
	if pushError != nil {
		return fmt.Errorf(pushingErrorTemplateConstant, branchName, pushError)
	}

	fmt.Fprint(options.Output, creatingPullRequestMessageConstant)
	pullRequestBody := options.Body
	if len(pullRequestBody) == 0 {
		pullRequestBody = options.Title
	}
	pullRequestArguments := []string{
		pullRequestSubcommandConstant, pullRequestCreateActionConstant,
		pullRequestTitleFlagConstant, options.Title,
		pullRequestBodyFlagConstant, pullRequestBody,
	}
	if options.AddMergeLabel {
		pullRequestArguments = append(pullRequestArguments, pullRequestLabelFlagConstant, options.MergeLabel)
	}
	pullRequestExitCode, pullRequestError := service.executor.ExecuteGitHubCLIInteractive(executionContext, execshell.CommandDetails{
		Arguments:        pullRequestArguments,
		WorkingDirectory: options.WorkingDirectory,
	})
	if pullRequestError != nil {
		return pullRequestError
	}
	if pullRequestExitCode != 0 {
		fmt.Fprintf(options.Output, pushedDespiteFailureTemplateConstant, branchName)
		return execshell.PassthroughExitError{
			Command: execshell.ShellCommand{Name: execshell.CommandGitHub, Details: execshell.CommandDetails{Arguments: pullRequestArguments}},
			Code:    pullRequestExitCode,
		}
	}

	fmt.Fprintf(options.Output, returningMessageTemplateConstant, originalBranch)
	_, returnError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, originalBranch},
		WorkingDirectory: options.WorkingDirectory,
	})
	if returnError != nil {
		fmt.Fprintf(options.Output, stillOnBranchTemplateConstant, branchName)
		return fmt.Errorf(returningErrorTemplateConstant, originalBranch, returnError)
	}

	fmt.Fprintf(options.Output, successMessageTemplateConstant, branchName)
	return nil
}

// collectCommits either commits the dirty working tree as a single commit named
// after the title, or gathers the last N commits, oldest first so replay order
// matches history order.
func (service *Service) collectCommits(executionContext context.Context, options Options) ([]string, error) {
	hasChanges, statusError := service.repository.HasUncommittedChanges(executionContext, options.WorkingDirectory)
	if statusError != nil {
		return nil, fmt.Errorf(checkingStatusErrorTemplateConstant, statusError)
	}

	if hasChanges {
		if options.CommitCountProvided {
			return nil, ErrCountWithUncommittedState
		}

		fmt.Fprint(options.Output, committingChangesMessageConstant)
		_, stageError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{addSubcommandConstant, addAllFlagConstant},
			WorkingDirectory: options.WorkingDirectory,
		})
		if stageError != nil {
			return nil, fmt.Errorf(stagingChangesErrorTemplateConstant, stageError)
		}
		_, commitError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{commitSubcommandConstant, commitMessageFlagConstant, options.Title},
			WorkingDirectory: options.WorkingDirectory,
		})
		if commitError != nil {
			return nil, fmt.Errorf(committingErrorTemplateConstant, commitError)
		}

		headRevision, revisionError := service.repository.HeadRevision(executionContext, options.WorkingDirectory)
		if revisionError != nil {
			return nil, fmt.Errorf(readingRevisionErrorTemplateConstant, revisionError)
		}
		return []string{headRevision}, nil
	}

	commitCount := options.CommitCount
	if commitCount <= 0 {
		commitCount = 1
	}
	fmt.Fprintf(options.Output, collectingCommitsTemplateConstant, commitCount)
	commits, commitsError := service.repository.RecentCommits(executionContext, options.WorkingDirectory, commitCount)
	if commitsError != nil {
		return nil, fmt.Errorf(collectingErrorTemplateConstant, commitsError)
	}
	return commits, nil
}

func (service *Service) prepareBranch(executionContext context.Context, options Options, branchName string) error {
	fmt.Fprintf(options.Output, switchingMessageTemplateConstant, options.BaseBranch)
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

	fmt.Fprintf(options.Output, creatingBranchMessageTemplateConst, branchName)
	_, branchError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, checkoutNewBranchFlagConstant, branchName},
		WorkingDirectory: options.WorkingDirectory,
	})
	if branchError != nil {
		return fmt.Errorf(creatingBranchErrorTemplateConstant, branchName, branchError)
	}
	return nil
}

func shortRevision(revision string) string {
	if len(revision) <= shortRevisionLengthConstant {
		return revision
	}
	return revision[:shortRevisionLengthConstant]
}
