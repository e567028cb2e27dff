package worktrees

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/gitrepo"
)

const (
	worktreeSubcommandConstant       = "worktree"
	worktreeAddSubcommandConstant    = "add"
	worktreeRemoveSubcommandConstant = "remove"
	worktreeListSubcommandConstant   = "list"
	worktreeForceFlagConstant        = "--force"
	newBranchFlagConstant            = "-b"
	branchSubcommandConstant         = "branch"
	branchDeleteForceFlagConstant    = "-D"
	worktreeNameSeparatorConstant    = "-"
	parentDirectoryReferenceConstant = ".."

	creatingMessageTemplateConstant     = "Creating worktree at %s...\n"
	linkedEnvironmentTemplateConstant   = "Linked %s into the new worktree\n"
	linkWarningTemplateConstant         = "Warning: could not link %s: %v\n"
	createdMessageTemplateConstant      = "✅ Worktree created at %s\n"
	followUpHintTemplateConstant        = "   Run: cd %s && %s\n"
	followUpHintWithoutCommandTemplate  = "   Run: cd %s\n"
	shellCommandTemplateConstant        = "cd %q && %s\n"
	shellCommandWithoutPostTemplate     = "cd %q\n"
	removingMessageTemplateConstant     = "Removing worktree at %s...\n"
	deletingBranchTemplateConstant      = "Deleting branch %s...\n"
	keepingBranchTemplateConstant       = "Keeping branch %s\n"
	branchDeleteWarningTemplateConstant = "Warning: could not delete branch '%s': %v\n"
	removedMessageConstant              = "✅ Worktree removed\n"
	noWorktreesMessageConstant          = "No worktrees found\n"
	noManagedWorktreesMessageConstant   = "No managed worktrees found (use --all to see all worktrees)\n"

	creatingErrorTemplateConstant  = "creating worktree: %w"
	removingErrorTemplateConstant  = "removing worktree: %w"
	listingErrorTemplateConstant   = "listing worktrees: %w"
	pathExistsTemplateConstant     = "path already exists: %s"
	notFoundTemplateConstant       = "no worktree found for branch: %s"
	serviceLoggerRequiredMessage   = "worktree service requires a logger"
	serviceExecutorRequiredMessage = "worktree service requires an executor"
)

// CommandExecutor is the executor slice needed by the worktree workflows.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service construction errors.
var (
	ErrLoggerRequired   = errors.New(serviceLoggerRequiredMessage)
	ErrExecutorRequired = errors.New(serviceExecutorRequiredMessage)
)

// WorktreePathExistsError reports a target path that is already occupied.
type WorktreePathExistsError struct {
	Path string
}

// Error describes the occupied path.
func (existsError WorktreePathExistsError) Error() string {
	return fmt.Sprintf(pathExistsTemplateConstant, existsError.Path)
}

// WorktreeNotFoundError reports a branch without a checked-out worktree.
type WorktreeNotFoundError struct {
	Branch string
}

// Error describes the missing worktree.
func (notFoundError WorktreeNotFoundError) Error() string {
	return fmt.Sprintf(notFoundTemplateConstant, notFoundError.Branch)
}

// CreateOptions parameterizes creating one worktree.
type CreateOptions struct {
	BranchName        string
	CreateBranch      bool
	ShellMode         bool
	EnvironmentFile   string
	PostCreateCommand string
	Remote            string
	WorkingDirectory  string
	Output            io.Writer
}

// DeleteOptions parameterizes removing one worktree.
type DeleteOptions struct {
	BranchName       string
	Force            bool
	KeepBranch       bool
	WorkingDirectory string
	Output           io.Writer
}

// ListOptions parameterizes one worktree listing.
type ListOptions struct {
	ShowAll          bool
	Remote           string
	WorkingDirectory string
	Output           io.Writer
}

// Service manages sibling worktrees named {repository}-{branch}.
type Service struct {
	logger     *zap.Logger
	executor   CommandExecutor
	repository *gitrepo.RepositoryClient
}

// NewService assembles the worktree service.
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

// Create adds a worktree next to the main working copy, links the environment
// file from the main copy when one exists, and prints either progress messages
// or, in shell mode, a single line suitable for eval in the calling shell.
func (service *Service) Create(executionContext context.Context, options CreateOptions) error {
	repositoryName := service.repository.RepositoryName(executionContext, options.WorkingDirectory, options.Remote)
	mainWorktreePath := service.repository.MainWorktreePath(executionContext, options.WorkingDirectory)
	worktreePath := filepath.Join(filepath.Dir(mainWorktreePath), repositoryName+worktreeNameSeparatorConstant+options.BranchName)

	if _, statError := os.Stat(worktreePath); statError == nil {
		return WorktreePathExistsError{Path: worktreePath}
	}

	if !options.ShellMode {
		fmt.Fprintf(options.Output, creatingMessageTemplateConstant, worktreePath)
	}

	addArguments := []string{worktreeSubcommandConstant, worktreeAddSubcommandConstant, worktreePath}
	if options.CreateBranch {
		addArguments = append(addArguments, newBranchFlagConstant, options.BranchName)
	} else {
		addArguments = append(addArguments, options.BranchName)
	}
	_, addError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        addArguments,
		WorkingDirectory: options.WorkingDirectory,
	})
	if addError != nil {
		return fmt.Errorf(creatingErrorTemplateConstant, addError)
	}

	service.linkEnvironmentFile(options, mainWorktreePath, worktreePath)

	if options.ShellMode {
		if len(options.PostCreateCommand) > 0 {
			fmt.Fprintf(options.Output, shellCommandTemplateConstant, worktreePath, options.PostCreateCommand)
		} else {
			fmt.Fprintf(options.Output, shellCommandWithoutPostTemplate, worktreePath)
		}
		return nil
	}

	fmt.Fprintf(options.Output, createdMessageTemplateConstant, worktreePath)
	if len(options.PostCreateCommand) > 0 {
		fmt.Fprintf(options.Output, followUpHintTemplateConstant, worktreePath, options.PostCreateCommand)
	} else {
		fmt.Fprintf(options.Output, followUpHintWithoutCommandTemplate, worktreePath)
	}
	return nil
}

// linkEnvironmentFile mirrors the main worktree's environment file into the new
// worktree through a relative symlink so the link survives moving the parent
// directory. Link failures only warn; the worktree itself is already usable.
func (service *Service) linkEnvironmentFile(options CreateOptions, mainWorktreePath string, worktreePath string) {
	if len(options.EnvironmentFile) == 0 {
		return
	}

	sourcePath := filepath.Join(mainWorktreePath, options.EnvironmentFile)
	if _, statError := os.Stat(sourcePath); statError != nil {
		return
	}

	relativeTarget := filepath.Join(parentDirectoryReferenceConstant, filepath.Base(mainWorktreePath), options.EnvironmentFile)
	linkError := os.Symlink(relativeTarget, filepath.Join(worktreePath, options.EnvironmentFile))
	if options.ShellMode {
		return
	}
	if linkError != nil {
		fmt.Fprintf(options.Output, linkWarningTemplateConstant, options.EnvironmentFile, linkError)
		return
	}
	fmt.Fprintf(options.Output, linkedEnvironmentTemplateConstant, options.EnvironmentFile)
}

// Delete removes the worktree checked out on the named branch and, unless
// keeping is requested, force-deletes the branch afterwards. A branch deletion
// failure demotes to a warning since the worktree itself is already gone.
func (service *Service) Delete(executionContext context.Context, options DeleteOptions) error {
	worktreeRecord, recordFound, findError := service.repository.FindWorktreeByBranch(executionContext, options.WorkingDirectory, options.BranchName)
	if findError != nil {
		return fmt.Errorf(listingErrorTemplateConstant, findError)
	}
	if !recordFound {
		return WorktreeNotFoundError{Branch: options.BranchName}
	}

	fmt.Fprintf(options.Output, removingMessageTemplateConstant, worktreeRecord.Path)
	removeArguments := []string{worktreeSubcommandConstant, worktreeRemoveSubcommandConstant}
	if options.Force {
		removeArguments = append(removeArguments, worktreeForceFlagConstant)
	}
	removeArguments = append(removeArguments, worktreeRecord.Path)
	_, removeError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        removeArguments,
		WorkingDirectory: options.WorkingDirectory,
	})
	if removeError != nil {
		return fmt.Errorf(removingErrorTemplateConstant, removeError)
	}

	if options.KeepBranch {
		fmt.Fprintf(options.Output, keepingBranchTemplateConstant, options.BranchName)
	} else {
		fmt.Fprintf(options.Output, deletingBranchTemplateConstant, options.BranchName)
		_, deleteError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{branchSubcommandConstant, branchDeleteForceFlagConstant, options.BranchName},
			WorkingDirectory: options.WorkingDirectory,
		})
		if deleteError != nil {
			fmt.Fprintf(options.Output, branchDeleteWarningTemplateConstant, options.BranchName, deleteError)
		}
	}

	fmt.Fprint(options.Output, removedMessageConstant)
	return nil
}

// List prints the worktree listing, filtered by default to the main working
// copy and the {repository}-{branch} siblings this tool manages.
func (service *Service) List(executionContext context.Context, options ListOptions) error {
	listResult, listError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{worktreeSubcommandConstant, worktreeListSubcommandConstant},
		WorkingDirectory: options.WorkingDirectory,
	})
	if listError != nil {
		return fmt.Errorf(listingErrorTemplateConstant, listError)
	}

	listingLines := splitNonEmptyLines(listResult.StandardOutput)
	if len(listingLines) == 0 {
		fmt.Fprint(options.Output, noWorktreesMessageConstant)
		return nil
	}

	if options.ShowAll {
		for _, listingLine := range listingLines {
			fmt.Fprintln(options.Output, listingLine)
		}
		return nil
	}

	repositoryName := service.repository.RepositoryName(executionContext, options.WorkingDirectory, options.Remote)
	mainWorktreePath := service.repository.MainWorktreePath(executionContext, options.WorkingDirectory)
	expectedParent := filepath.Dir(mainWorktreePath)
	managedPrefix := repositoryName + worktreeNameSeparatorConstant

	managedLines := make([]string, 0, len(listingLines))
	for _, listingLine := range listingLines {
		lineFields := strings.Fields(listingLine)
		if len(lineFields) == 0 {
			continue
		}
		worktreePath := lineFields[0]
		isMain := worktreePath == mainWorktreePath
		isManagedSibling := filepath.Dir(worktreePath) == expectedParent && strings.HasPrefix(filepath.Base(worktreePath), managedPrefix)
		if isMain || isManagedSibling {
			managedLines = append(managedLines, listingLine)
		}
	}

	if len(managedLines) == 0 {
		fmt.Fprint(options.Output, noManagedWorktreesMessageConstant)
		return nil
	}
	for _, managedLine := range managedLines {
		fmt.Fprintln(options.Output, managedLine)
	}
	return nil
}

func splitNonEmptyLines(text string) []string {
	var lines []string
	for _, candidate := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(candidate, " \t\r")
		if len(strings.TrimSpace(trimmed)) > 0 {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
