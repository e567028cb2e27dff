package prs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/gitrepo"
	"github.com/velamo/ghg/internal/ui"
)

const (
	pullRequestSubcommandConstant   = "pr"
	pullRequestEditActionConstant   = "edit"
	pullRequestListActionConstant   = "list"
	pullRequestCreateActionConstant = "create"
	addLabelFlagConstant            = "--add-label"
	authorFlagConstant              = "--author"
	jsonFlagConstant                = "--json"
	jsonFieldsConstant              = "number,title,headRefName,statusCheckRollup"
	titleFlagConstant               = "--title"
	bodyFlagConstant                = "--body"
	labelFlagConstant               = "--label"
	addSubcommandConstant           = "add"
	addAllFlagConstant              = "--all"
	commitSubcommandConstant        = "commit"
	commitMessageFlagConstant       = "-m"
	pushSubcommandConstant          = "push"
	pushSetUpstreamFlagConstant     = "-u"
	pullRequestNumberPrefixConstant = "#"

	numberColumnHeaderConstant = "PR"
	titleColumnHeaderConstant  = "Title"
	branchColumnHeaderConstant = "Branch"
	checksColumnHeaderConstant = "Checks"

	labelAddedMessageTemplateConstant   = "✅ Added '%s' label to PR #%d\n"
	noPullRequestsMessageConstant       = "No pull requests found\n"
	committingChangesMessageConstant    = "Committing changes...\n"
	pushingBranchMessageTemplateConst   = "Pushing branch %s to %s...\n"
	creatingPullRequestMessageConstant  = "Creating pull request...\n"
	pullRequestCreatedTemplateConstant  = "✅ Created pull request for branch '%s'\n"
	labelingErrorTemplateConstant       = "adding label to pull request #%d: %w"
	listingErrorTemplateConstant        = "listing pull requests: %w"
	decodingErrorTemplateConstant       = "parsing pull request data: %w"
	checkingStatusErrorTemplateConstant = "checking working tree status: %w"
	stagingChangesErrorTemplateConstant = "staging changes: %w"
	committingErrorTemplateConstant     = "committing changes: %w"
	readingBranchErrorTemplateConstant  = "reading current branch: %w"
	pushingErrorTemplateConstant        = "pushing branch %s: %w"

	invalidNumberTemplateConstant      = "invalid pull request number: %q"
	remoteMissingTemplateConstant      = "remote %q is not configured; cannot push the branch"
	serviceLoggerRequiredMessageConst  = "pull request service requires a logger"
	serviceExecutorRequiredMessageCons = "pull request service requires an executor"
)

// CommandExecutor is the executor slice needed by the pull request workflows.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLIInteractive(executionContext context.Context, details execshell.CommandDetails) (int, error)
}

// Service construction errors.
var (
	ErrLoggerRequired   = errors.New(serviceLoggerRequiredMessageConst)
	ErrExecutorRequired = errors.New(serviceExecutorRequiredMessageCons)
)

// InvalidPullRequestNumberError reports an argument that is not a pull request number.
type InvalidPullRequestNumberError struct {
	Argument string
}

// Error describes the unusable argument.
func (numberError InvalidPullRequestNumberError) Error() string {
	return fmt.Sprintf(invalidNumberTemplateConstant, numberError.Argument)
}

// RemoteMissingError reports a repository without the remote needed for pushing.
type RemoteMissingError struct {
	Remote string
}

// Error describes the missing remote.
func (missingError RemoteMissingError) Error() string {
	return fmt.Sprintf(remoteMissingTemplateConstant, missingError.Remote)
}

// MergeOptions parameterizes labeling one pull request for merge.
type MergeOptions struct {
	PullRequestArgument string
	MergeLabel          string
	WorkingDirectory    string
	Output              io.Writer
}

// ListOptions parameterizes one pull request listing.
type ListOptions struct {
	Author           string
	WorkingDirectory string
	Output           io.Writer
}

// CreateOptions parameterizes opening a pull request for the current branch.
type CreateOptions struct {
	Message          string
	Body             string
	CommitFirst      bool
	AddMergeLabel    bool
	MergeLabel       string
	Remote           string
	WorkingDirectory string
	Output           io.Writer
}

// Service drives pull request workflows through git and the GitHub CLI.
type Service struct {
	logger     *zap.Logger
	executor   CommandExecutor
	repository *gitrepo.RepositoryClient
}

// NewService assembles the pull request service.
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

// AddMergeLabel marks the given pull request with the merge label. The argument
// accepts either a bare number or the #-prefixed display form. The gh call
// streams to the terminal and a nonzero exit propagates as the process exit
// code.
func (service *Service) AddMergeLabel(executionContext context.Context, options MergeOptions) error {
	trimmedArgument := strings.TrimPrefix(strings.TrimSpace(options.PullRequestArgument), pullRequestNumberPrefixConstant)
	pullRequestNumber, parseError := strconv.Atoi(trimmedArgument)
	if parseError != nil || pullRequestNumber <= 0 {
		return InvalidPullRequestNumberError{Argument: options.PullRequestArgument}
	}

	editArguments := []string{
		pullRequestSubcommandConstant, pullRequestEditActionConstant,
		strconv.Itoa(pullRequestNumber),
		addLabelFlagConstant, options.MergeLabel,
	}
	editExitCode, editError := service.executor.ExecuteGitHubCLIInteractive(executionContext, execshell.CommandDetails{
		Arguments:        editArguments,
		WorkingDirectory: options.WorkingDirectory,
	})
	if editError != nil {
		return fmt.Errorf(labelingErrorTemplateConstant, pullRequestNumber, editError)
	}
	if editExitCode != 0 {
		return execshell.PassthroughExitError{
			Command: execshell.ShellCommand{Name: execshell.CommandGitHub, Details: execshell.CommandDetails{Arguments: editArguments}},
			Code:    editExitCode,
		}
	}

	fmt.Fprintf(options.Output, labelAddedMessageTemplateConstant, options.MergeLabel, pullRequestNumber)
	return nil
}

// List renders the author's open pull requests with a condensed check status
// per pull request.
func (service *Service) List(executionContext context.Context, options ListOptions) error {
	listResult, listError := service.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant, pullRequestListActionConstant,
			authorFlagConstant, options.Author,
			jsonFlagConstant, jsonFieldsConstant,
		},
		WorkingDirectory: options.WorkingDirectory,
	})
	if listError != nil {
		return fmt.Errorf(listingErrorTemplateConstant, listError)
	}

	trimmedListOutput := strings.TrimSpace(listResult.StandardOutput)
	if len(trimmedListOutput) == 0 {
		fmt.Fprint(options.Output, noPullRequestsMessageConstant)
		return nil
	}

	pullRequestRecords, decodeError := decodePullRequestRecords([]byte(trimmedListOutput))
	if decodeError != nil {
		return fmt.Errorf(decodingErrorTemplateConstant, decodeError)
	}
	if len(pullRequestRecords) == 0 {
		fmt.Fprint(options.Output, noPullRequestsMessageConstant)
		return nil
	}

	tableRows := make([][]string, 0, len(pullRequestRecords))
	for _, record := range pullRequestRecords {
		tableRows = append(tableRows, []string{
			pullRequestNumberPrefixConstant + strconv.Itoa(record.Number),
			record.Title,
			record.HeadRefName,
			summarizeChecks(record.StatusCheckRollup),
		})
	}

	fmt.Fprintln(options.Output, ui.RenderTable(
		[]string{numberColumnHeaderConstant, titleColumnHeaderConstant, branchColumnHeaderConstant, checksColumnHeaderConstant},
		tableRows,
	))
	return nil
}

// Create pushes the current branch and opens a pull request for it. When
// CommitFirst is set and the working tree is dirty, pending changes are
// committed with the pull request message first; a clean tree makes the flag a
// no-op.
func (service *Service) Create(executionContext context.Context, options CreateOptions) error {
	if options.CommitFirst {
		hasChanges, statusError := service.repository.HasUncommittedChanges(executionContext, options.WorkingDirectory)
		if statusError != nil {
			return fmt.Errorf(checkingStatusErrorTemplateConstant, statusError)
		}
		if hasChanges {
			fmt.Fprint(options.Output, committingChangesMessageConstant)
			_, stageError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
				Arguments:        []string{addSubcommandConstant, addAllFlagConstant},
				WorkingDirectory: options.WorkingDirectory,
			})
			if stageError != nil {
				return fmt.Errorf(stagingChangesErrorTemplateConstant, stageError)
			}
			_, commitError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
				Arguments:        []string{commitSubcommandConstant, commitMessageFlagConstant, options.Message},
				WorkingDirectory: options.WorkingDirectory,
			})
			if commitError != nil {
				return fmt.Errorf(committingErrorTemplateConstant, commitError)
			}
		}
	}

	currentBranch, branchError := service.repository.CurrentBranch(executionContext, options.WorkingDirectory)
	if branchError != nil {
		return fmt.Errorf(readingBranchErrorTemplateConstant, branchError)
	}

	if _, remoteError := service.repository.RemoteURL(executionContext, options.WorkingDirectory, options.Remote); remoteError != nil {
		return RemoteMissingError{Remote: options.Remote}
	}

	fmt.Fprintf(options.Output, pushingBranchMessageTemplateConst, currentBranch, options.Remote)
	_, pushError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, pushSetUpstreamFlagConstant, options.Remote, currentBranch},
		WorkingDirectory: options.WorkingDirectory,
	})
	if pushError != nil {
		return fmt.Errorf(pushingErrorTemplateConstant, currentBranch, pushError)
	}

	fmt.Fprint(options.Output, creatingPullRequestMessageConstant)
	pullRequestBody := options.Body
	if len(pullRequestBody) == 0 {
		pullRequestBody = options.Message
	}
	createArguments := []string{
		pullRequestSubcommandConstant, pullRequestCreateActionConstant,
		titleFlagConstant, options.Message,
		bodyFlagConstant, pullRequestBody,
	}
	if options.AddMergeLabel {
		createArguments = append(createArguments, labelFlagConstant, options.MergeLabel)
	}
	createExitCode, createError := service.executor.ExecuteGitHubCLIInteractive(executionContext, execshell.CommandDetails{
		Arguments:        createArguments,
		WorkingDirectory: options.WorkingDirectory,
	})
	if createError != nil {
		return createError
	}
	if createExitCode != 0 {
		return execshell.PassthroughExitError{
			Command: execshell.ShellCommand{Name: execshell.CommandGitHub, Details: execshell.CommandDetails{Arguments: createArguments}},
			Code:    createExitCode,
		}
	}

	fmt.Fprintf(options.Output, pullRequestCreatedTemplateConstant, currentBranch)
	return nil
}
