package repoguard_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velamo/ghg/internal/repoguard"
)

const (
	testRepositoryDirectoryCaseNameConstant = "metadata_directory_present"
	testRepositoryFileCaseNameConstant      = "metadata_file_present"
	testMissingMetadataCaseNameConstant     = "metadata_missing"
	testNestedDirectoryCaseNameConstant     = "no_upward_walk_from_subdirectory"
	repositoryMetadataEntryNameConstant     = ".git"
	nestedDirectoryNameConstant             = "nested"
	worktreeMetadataContentConstant         = "gitdir: /elsewhere/.git/worktrees/feature\n"
)

func TestEnsureRepository(testInstance *testing.T) {
	testCases := []struct {
		name        string
		prepare     func(testInstance *testing.T, rootDirectory string) string
		expectError bool
	}{
		{
			name: testRepositoryDirectoryCaseNameConstant,
			prepare: func(testInstance *testing.T, rootDirectory string) string {
				require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, repositoryMetadataEntryNameConstant), 0o755))
				return rootDirectory
			},
		},
		{
			name: testRepositoryFileCaseNameConstant,
			prepare: func(testInstance *testing.T, rootDirectory string) string {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootDirectory, repositoryMetadataEntryNameConstant), []byte(worktreeMetadataContentConstant), 0o644))
				return rootDirectory
			},
		},
		{
			name: testMissingMetadataCaseNameConstant,
			prepare: func(testInstance *testing.T, rootDirectory string) string {
				return rootDirectory
			},
			expectError: true,
		},
		{
			name: testNestedDirectoryCaseNameConstant,
			prepare: func(testInstance *testing.T, rootDirectory string) string {
				require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, repositoryMetadataEntryNameConstant), 0o755))
				nestedDirectory := filepath.Join(rootDirectory, nestedDirectoryNameConstant)
				require.NoError(testInstance, os.Mkdir(nestedDirectory, 0o755))
				return nestedDirectory
			},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workingDirectory := testCase.prepare(testInstance, testInstance.TempDir())

			guardError := repoguard.EnsureRepository(workingDirectory)
			if testCase.expectError {
				require.ErrorIs(testInstance, guardError, repoguard.ErrNotARepository)
				return
			}
			require.NoError(testInstance, guardError)
		})
	}
}
