package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/velamo/ghg/internal/execshell"
)

const (
	statusSubcommandConstant        = "status"
	statusPorcelainFlagConstant     = "--porcelain"
	revParseSubcommandConstant      = "rev-parse"
	abbreviatedReferenceFlagConst   = "--abbrev-ref"
	headReferenceConstant           = "HEAD"
	revListSubcommandConstant       = "rev-list"
	revListReverseFlagConstant      = "--reverse"
	revListRangeTemplateConstant    = "HEAD~%d..HEAD"
	remoteSubcommandConstant        = "remote"
	remoteGetURLSubcommandConstant  = "get-url"
	remoteURLPathSeparatorConstant  = "/"
	remoteURLScpSeparatorConstant   = ":"
	repositorySuffixConstant        = ".git"
	newlineConstant                 = "\n"
	executorNotConfiguredMessage    = "git executor not configured"
	commitShortfallTemplateConstant = "only %d of %d requested commits exist"
)

// GitExecutor is the narrow slice of execshell.ShellExecutor this package needs.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrExecutorNotConfigured indicates the client was built without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// CommitShortfallError reports that fewer commits exist than were requested.
type CommitShortfallError struct {
	Requested int
	Available int
}

// Error describes the shortfall.
func (shortfallError CommitShortfallError) Error() string {
	return fmt.Sprintf(commitShortfallTemplateConstant, shortfallError.Available, shortfallError.Requested)
}

// RepositoryClient inspects Git repositories through an executor.
type RepositoryClient struct {
	executor GitExecutor
}

// NewRepositoryClient constructs a repository client.
func NewRepositoryClient(executor GitExecutor) (*RepositoryClient, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryClient{executor: executor}, nil
}

// CurrentBranch resolves the abbreviated name of the checked-out branch.
func (client *RepositoryClient) CurrentBranch(executionContext context.Context, workingDirectory string) (string, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, abbreviatedReferenceFlagConst, headReferenceConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// HasUncommittedChanges reports whether the working tree carries staged or unstaged edits.
func (client *RepositoryClient) HasUncommittedChanges(executionContext context.Context, workingDirectory string) (bool, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, statusPorcelainFlagConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// HeadRevision resolves the full hash of HEAD.
func (client *RepositoryClient) HeadRevision(executionContext context.Context, workingDirectory string) (string, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, headReferenceConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// RecentCommits returns the hashes of the last requestedCount commits ordered
// oldest first, the order cherry-pick replay requires.
func (client *RepositoryClient) RecentCommits(executionContext context.Context, workingDirectory string, requestedCount int) ([]string, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			revListSubcommandConstant,
			revListReverseFlagConstant,
			fmt.Sprintf(revListRangeTemplateConstant, requestedCount),
		},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return nil, executionError
	}

	commitHashes := splitNonEmptyLines(executionResult.StandardOutput)
	if len(commitHashes) != requestedCount {
		return nil, CommitShortfallError{Requested: requestedCount, Available: len(commitHashes)}
	}
	return commitHashes, nil
}

// RemoteURL reads the fetch URL configured for the named remote.
func (client *RepositoryClient) RemoteURL(executionContext context.Context, workingDirectory string, remoteName string) (string, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteGetURLSubcommandConstant, remoteName},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// RepositoryName derives the repository's short name from the remote URL,
// falling back to the working directory basename when no remote is configured.
func (client *RepositoryClient) RepositoryName(executionContext context.Context, workingDirectory string, remoteName string) string {
	remoteURL, remoteError := client.RemoteURL(executionContext, workingDirectory, remoteName)
	if remoteError == nil && len(remoteURL) > 0 {
		return repositoryNameFromRemoteURL(remoteURL)
	}

	absoluteDirectory, absoluteError := filepath.Abs(workingDirectory)
	if absoluteError != nil {
		return filepath.Base(workingDirectory)
	}
	return filepath.Base(absoluteDirectory)
}

// repositoryNameFromRemoteURL extracts the final path segment of an HTTPS or
// SCP-style remote URL and strips the conventional .git suffix.
func repositoryNameFromRemoteURL(remoteURL string) string {
	trimmedURL := strings.TrimSpace(remoteURL)
	lastSegment := trimmedURL
	if slashIndex := strings.LastIndex(lastSegment, remoteURLPathSeparatorConstant); slashIndex >= 0 {
		lastSegment = lastSegment[slashIndex+1:]
	}
	if colonIndex := strings.LastIndex(lastSegment, remoteURLScpSeparatorConstant); colonIndex >= 0 {
		lastSegment = lastSegment[colonIndex+1:]
	}
	return strings.TrimSuffix(lastSegment, repositorySuffixConstant)
}

func splitNonEmptyLines(text string) []string {
	var lines []string
	for _, candidate := range strings.Split(text, newlineConstant) {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) > 0 {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
