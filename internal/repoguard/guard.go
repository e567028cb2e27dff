// Package repoguard verifies that commands run inside a Git working copy.
package repoguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	repositoryMetadataNameConstant         = ".git"
	notARepositoryMessageConstant          = "not in a git repository"
	notARepositoryWithPathTemplateConstant = "%w: %s"
)

// ErrNotARepository indicates the working directory lacks repository metadata.
var ErrNotARepository = errors.New(notARepositoryMessageConstant)

// EnsureRepository fails when the working directory is not the root of a Git
// working copy. The check is intentionally shallow: it looks for the `.git`
// entry (a directory in a primary working copy, a file inside linked worktrees)
// directly inside workingDirectory and never walks toward parent directories.
func EnsureRepository(workingDirectory string) error {
	metadataPath := filepath.Join(workingDirectory, repositoryMetadataNameConstant)
	if _, statError := os.Stat(metadataPath); statError != nil {
		return fmt.Errorf(notARepositoryWithPathTemplateConstant, ErrNotARepository, workingDirectory)
	}
	return nil
}
