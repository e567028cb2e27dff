package gitrepo

import (
	"context"
	"strings"

	"github.com/velamo/ghg/internal/execshell"
)

const (
	worktreeSubcommandConstant            = "worktree"
	worktreeListSubcommandConstant        = "list"
	worktreePorcelainFlagConstant         = "--porcelain"
	worktreePathPrefixConstant            = "worktree "
	worktreeBranchPrefixConstant          = "branch "
	worktreeBranchReferencePrefixConstant = "refs/heads/"
)

// WorktreeRecord describes one entry of `git worktree list --porcelain`.
type WorktreeRecord struct {
	Path   string
	Branch string
	IsMain bool
}

// ListWorktrees parses the porcelain worktree listing. The first entry is the
// main working copy; entries without a branch line (bare or detached) keep an
// empty Branch.
func (client *RepositoryClient) ListWorktrees(executionContext context.Context, workingDirectory string) ([]WorktreeRecord, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{worktreeSubcommandConstant, worktreeListSubcommandConstant, worktreePorcelainFlagConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return nil, executionError
	}
	return parseWorktreePorcelain(executionResult.StandardOutput), nil
}

// MainWorktreePath resolves the path of the primary working copy, falling back
// to the provided directory when no listing is available.
func (client *RepositoryClient) MainWorktreePath(executionContext context.Context, workingDirectory string) string {
	worktreeRecords, listingError := client.ListWorktrees(executionContext, workingDirectory)
	if listingError != nil || len(worktreeRecords) == 0 {
		return workingDirectory
	}
	return worktreeRecords[0].Path
}

// FindWorktreeByBranch locates the worktree checked out on the named branch.
func (client *RepositoryClient) FindWorktreeByBranch(executionContext context.Context, workingDirectory string, branchName string) (WorktreeRecord, bool, error) {
	worktreeRecords, listingError := client.ListWorktrees(executionContext, workingDirectory)
	if listingError != nil {
		return WorktreeRecord{}, false, listingError
	}

	for _, record := range worktreeRecords {
		if record.Branch == branchName {
			return record, true, nil
		}
	}
	return WorktreeRecord{}, false, nil
}

func parseWorktreePorcelain(porcelainOutput string) []WorktreeRecord {
	var records []WorktreeRecord
	for _, line := range strings.Split(porcelainOutput, newlineConstant) {
		trimmedLine := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmedLine, worktreePathPrefixConstant):
			records = append(records, WorktreeRecord{
				Path:   strings.TrimPrefix(trimmedLine, worktreePathPrefixConstant),
				IsMain: len(records) == 0,
			})
		case strings.HasPrefix(trimmedLine, worktreeBranchPrefixConstant) && len(records) > 0:
			branchReference := strings.TrimPrefix(trimmedLine, worktreeBranchPrefixConstant)
			records[len(records)-1].Branch = strings.TrimPrefix(branchReference, worktreeBranchReferencePrefixConstant)
		}
	}
	return records
}
