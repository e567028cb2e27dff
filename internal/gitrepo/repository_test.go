package gitrepo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/gitrepo"
)

const (
	testWorkingDirectoryConstant = "/tmp/example"
	testFeatureBranchConstant    = "feature/login"
	testFirstCommitHashConstant  = "1111111111111111111111111111111111111111"
	testSecondCommitHashConstant = "2222222222222222222222222222222222222222"
)

type scriptedGitExecutor struct {
	responses        map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func newScriptedGitExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{
		responses: map[string]execshell.ExecutionResult{},
		failures:  map[string]error{},
	}
}

func (executor *scriptedGitExecutor) register(arguments []string, result execshell.ExecutionResult) {
	executor.responses[strings.Join(arguments, " ")] = result
}

func (executor *scriptedGitExecutor) registerFailure(arguments []string, failure error) {
	executor.failures[strings.Join(arguments, " ")] = failure
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	argumentsKey := strings.Join(details.Arguments, " ")
	if registeredFailure, failureExists := executor.failures[argumentsKey]; failureExists {
		return execshell.ExecutionResult{}, registeredFailure
	}
	return executor.responses[argumentsKey], nil
}

func TestCurrentBranch(testInstance *testing.T) {
	executor := newScriptedGitExecutor()
	executor.register([]string{"rev-parse", "--abbrev-ref", "HEAD"}, execshell.ExecutionResult{StandardOutput: testFeatureBranchConstant + "\n"})

	client, clientError := gitrepo.NewRepositoryClient(executor)
	require.NoError(testInstance, clientError)

	branchName, branchError := client.CurrentBranch(context.Background(), testWorkingDirectoryConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testFeatureBranchConstant, branchName)
	require.Equal(testInstance, testWorkingDirectoryConstant, executor.recordedCommands[0].WorkingDirectory)
}

func TestHasUncommittedChanges(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusOutput   string
		expectedAnswer bool
	}{
		{name: "dirty_tree", statusOutput: " M cmd/cli/application.go\n?? notes.txt\n", expectedAnswer: true},
		{name: "clean_tree", statusOutput: "\n", expectedAnswer: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			executor.register([]string{"status", "--porcelain"}, execshell.ExecutionResult{StandardOutput: testCase.statusOutput})

			client, clientError := gitrepo.NewRepositoryClient(executor)
			require.NoError(testInstance, clientError)

			hasChanges, statusError := client.HasUncommittedChanges(context.Background(), testWorkingDirectoryConstant)
			require.NoError(testInstance, statusError)
			require.Equal(testInstance, testCase.expectedAnswer, hasChanges)
		})
	}
}

func TestRecentCommits(testInstance *testing.T) {
	testCases := []struct {
		name              string
		requestedCount    int
		revListOutput     string
		expectedCommits   []string
		expectedShortfall bool
	}{
		{
			name:            "two_commits_oldest_first",
			requestedCount:  2,
			revListOutput:   testFirstCommitHashConstant + "\n" + testSecondCommitHashConstant + "\n",
			expectedCommits: []string{testFirstCommitHashConstant, testSecondCommitHashConstant},
		},
		{
			name:              "fewer_commits_than_requested",
			requestedCount:    3,
			revListOutput:     testFirstCommitHashConstant + "\n",
			expectedShortfall: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			rangeArgument := "HEAD~" + map[int]string{2: "2", 3: "3"}[testCase.requestedCount] + "..HEAD"
			executor.register([]string{"rev-list", "--reverse", rangeArgument}, execshell.ExecutionResult{StandardOutput: testCase.revListOutput})

			client, clientError := gitrepo.NewRepositoryClient(executor)
			require.NoError(testInstance, clientError)

			commitHashes, commitsError := client.RecentCommits(context.Background(), testWorkingDirectoryConstant, testCase.requestedCount)
			if testCase.expectedShortfall {
				shortfall := gitrepo.CommitShortfallError{}
				require.ErrorAs(testInstance, commitsError, &shortfall)
				require.Equal(testInstance, testCase.requestedCount, shortfall.Requested)
				return
			}
			require.NoError(testInstance, commitsError)
			require.Equal(testInstance, testCase.expectedCommits, commitHashes)
		})
	}
}

func TestRepositoryName(testInstance *testing.T) {
	testCases := []struct {
		name         string
		remoteOutput string
		remoteError  error
		expectedName string
	}{
		{name: "https_remote", remoteOutput: "https://github.com/acme/widget.git\n", expectedName: "widget"},
		{name: "scp_style_remote", remoteOutput: "git@github.com:acme/widget.git\n", expectedName: "widget"},
		{name: "remote_without_suffix", remoteOutput: "https://github.com/acme/widget\n", expectedName: "widget"},
		{name: "missing_remote_falls_back_to_directory", remoteError: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 2}}, expectedName: "example"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := newScriptedGitExecutor()
			if testCase.remoteError != nil {
				executor.registerFailure([]string{"remote", "get-url", "origin"}, testCase.remoteError)
			} else {
				executor.register([]string{"remote", "get-url", "origin"}, execshell.ExecutionResult{StandardOutput: testCase.remoteOutput})
			}

			client, clientError := gitrepo.NewRepositoryClient(executor)
			require.NoError(testInstance, clientError)

			repositoryName := client.RepositoryName(context.Background(), testWorkingDirectoryConstant, "origin")
			require.Equal(testInstance, testCase.expectedName, repositoryName)
		})
	}
}

func TestListWorktrees(testInstance *testing.T) {
	porcelainOutput := strings.Join([]string{
		"worktree /home/dev/widget",
		"HEAD " + testFirstCommitHashConstant,
		"branch refs/heads/master",
		"",
		"worktree /home/dev/widget-login",
		"HEAD " + testSecondCommitHashConstant,
		"branch refs/heads/" + testFeatureBranchConstant,
		"",
		"worktree /tmp/scratch",
		"HEAD " + testSecondCommitHashConstant,
		"detached",
		"",
	}, "\n")

	executor := newScriptedGitExecutor()
	executor.register([]string{"worktree", "list", "--porcelain"}, execshell.ExecutionResult{StandardOutput: porcelainOutput})

	client, clientError := gitrepo.NewRepositoryClient(executor)
	require.NoError(testInstance, clientError)

	worktreeRecords, listingError := client.ListWorktrees(context.Background(), testWorkingDirectoryConstant)
	require.NoError(testInstance, listingError)
	require.Len(testInstance, worktreeRecords, 3)

	require.Equal(testInstance, gitrepo.WorktreeRecord{Path: "/home/dev/widget", Branch: "master", IsMain: true}, worktreeRecords[0])
	require.Equal(testInstance, gitrepo.WorktreeRecord{Path: "/home/dev/widget-login", Branch: testFeatureBranchConstant}, worktreeRecords[1])
	require.Equal(testInstance, gitrepo.WorktreeRecord{Path: "/tmp/scratch"}, worktreeRecords[2])

	foundRecord, recordFound, findError := client.FindWorktreeByBranch(context.Background(), testWorkingDirectoryConstant, testFeatureBranchConstant)
	require.NoError(testInstance, findError)
	require.True(testInstance, recordFound)
	require.Equal(testInstance, "/home/dev/widget-login", foundRecord.Path)

	_, missingFound, missingError := client.FindWorktreeByBranch(context.Background(), testWorkingDirectoryConstant, "absent")
	require.NoError(testInstance, missingError)
	require.False(testInstance, missingFound)

	require.Equal(testInstance, "/home/dev/widget", client.MainWorktreePath(context.Background(), testWorkingDirectoryConstant))
}
