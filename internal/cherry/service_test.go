package cherry_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/cherry"
	"github.com/velamo/ghg/internal/execshell"
)

const (
	currentBranchKeyConstant = "rev-parse --abbrev-ref HEAD"
	statusKeyConstant        = "status --porcelain"
	headRevisionKeyConstant  = "rev-parse HEAD"
	headRevisionConstant     = "aaaabbbbccccddddeeeeffff0000111122223333"
)

type scriptedCherryExecutor struct {
	gitResponses            map[string]execshell.ExecutionResult
	gitFailures             map[string]error
	executedGitKeys         []string
	pullRequestExitCode     int
	executedGitHubArguments [][]string
}

func (executor *scriptedCherryExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	commandKey := strings.Join(details.Arguments, " ")
	executor.executedGitKeys = append(executor.executedGitKeys, commandKey)
	if failure, failureExists := executor.gitFailures[commandKey]; failureExists {
		return execshell.ExecutionResult{ExitCode: 1}, failure
	}
	if response, responseExists := executor.gitResponses[commandKey]; responseExists {
		return response, nil
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *scriptedCherryExecutor) ExecuteGitHubCLIInteractive(_ context.Context, details execshell.CommandDetails) (int, error) {
	executor.executedGitHubArguments = append(executor.executedGitHubArguments, details.Arguments)
	return executor.pullRequestExitCode, nil
}

func newCherryService(testInstance *testing.T, executor *scriptedCherryExecutor) *cherry.Service {
	testInstance.Helper()
	service, serviceError := cherry.NewService(zap.NewNop(), executor)
	require.NoError(testInstance, serviceError)
	return service
}

func defaultCherryOptions(outputBuffer *bytes.Buffer) cherry.Options {
	return cherry.Options{
		Title:      "Fix Login Bug",
		Body:       "Fixes the login flow",
		MergeLabel: "merge",
		BaseBranch: "master",
		Remote:     "origin",
		Output:     outputBuffer,
	}
}

func TestCherryCommitsDirtyTreeAndOpensPullRequest(testInstance *testing.T) {
	executor := &scriptedCherryExecutor{
		gitResponses: map[string]execshell.ExecutionResult{
			currentBranchKeyConstant: {StandardOutput: "feature-work\n"},
			statusKeyConstant:        {StandardOutput: " M main.go\n"},
			headRevisionKeyConstant:  {StandardOutput: headRevisionConstant + "\n"},
		},
	}
	outputBuffer := &bytes.Buffer{}
	options := defaultCherryOptions(outputBuffer)
	options.AddMergeLabel = true

	cherryError := newCherryService(testInstance, executor).Cherry(context.Background(), options)

	require.NoError(testInstance, cherryError)
	require.Equal(testInstance, []string{
		currentBranchKeyConstant,
		statusKeyConstant,
		"add --all",
		"commit -m Fix Login Bug",
		headRevisionKeyConstant,
		"checkout master",
		"pull origin master",
		"checkout -b fix-login-bug",
		"cherry-pick " + headRevisionConstant,
		"push -u origin fix-login-bug",
		"checkout feature-work",
	}, executor.executedGitKeys)
	require.Equal(testInstance, [][]string{{
		"pr", "create",
		"--title", "Fix Login Bug",
		"--body", "Fixes the login flow",
		"--label", "merge",
	}}, executor.executedGitHubArguments)
	require.Contains(testInstance, outputBuffer.String(), "✅ Created pull request for branch 'fix-login-bug'")
}

func TestCherryReplaysRequestedCommitsOldestFirst(testInstance *testing.T) {
	executor := &scriptedCherryExecutor{
		gitResponses: map[string]execshell.ExecutionResult{
			currentBranchKeyConstant:          {StandardOutput: "feature-work\n"},
			"rev-list --reverse HEAD~2..HEAD": {StandardOutput: "older111\nnewer222\n"},
		},
	}
	outputBuffer := &bytes.Buffer{}
	options := defaultCherryOptions(outputBuffer)
	options.CommitCount = 2
	options.CommitCountProvided = true

	cherryError := newCherryService(testInstance, executor).Cherry(context.Background(), options)

	require.NoError(testInstance, cherryError)
	pickIndexOlder := strings.Index(outputBuffer.String(), "older111")
	pickIndexNewer := strings.Index(outputBuffer.String(), "newer222")
	require.Greater(testInstance, pickIndexOlder, -1)
	require.Less(testInstance, pickIndexOlder, pickIndexNewer)
	require.Contains(testInstance, executor.executedGitKeys, "cherry-pick older111")
	require.Contains(testInstance, executor.executedGitKeys, "cherry-pick newer222")
}

func TestCherryRejectsCommitCountWithUncommittedChanges(testInstance *testing.T) {
	executor := &scriptedCherryExecutor{
		gitResponses: map[string]execshell.ExecutionResult{
			currentBranchKeyConstant: {StandardOutput: "feature-work\n"},
			statusKeyConstant:        {StandardOutput: " M main.go\n"},
		},
	}
	options := defaultCherryOptions(&bytes.Buffer{})
	options.CommitCount = 3
	options.CommitCountProvided = true

	cherryError := newCherryService(testInstance, executor).Cherry(context.Background(), options)

	require.ErrorIs(testInstance, cherryError, cherry.ErrCountWithUncommittedState)
	require.NotContains(testInstance, executor.executedGitKeys, "add --all")
	require.NotContains(testInstance, executor.executedGitKeys, "checkout master")
}

func TestCherryRejectsTitleWithoutUsableBranchName(testInstance *testing.T) {
	executor := &scriptedCherryExecutor{
		gitResponses: map[string]execshell.ExecutionResult{
			currentBranchKeyConstant: {StandardOutput: "feature-work\n"},
		},
	}
	options := defaultCherryOptions(&bytes.Buffer{})
	options.Title = "!!! ???"

	cherryError := newCherryService(testInstance, executor).Cherry(context.Background(), options)

	var nameError cherry.EmptyBranchNameError
	require.ErrorAs(testInstance, cherryError, &nameError)
	require.Equal(testInstance, "!!! ???", nameError.Title)
}

func TestCherryConflictSurfacesResolutionHint(testInstance *testing.T) {
	executor := &scriptedCherryExecutor{
		gitResponses: map[string]execshell.ExecutionResult{
			currentBranchKeyConstant:          {StandardOutput: "feature-work\n"},
			"rev-list --reverse HEAD~1..HEAD": {StandardOutput: "older111\n"},
		},
		gitFailures: map[string]error{
			"cherry-pick older111": &execshell.CommandFailedError{
				Command: execshell.ShellCommand{Name: execshell.CommandGit},
				Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: "CONFLICT (content): main.go"},
			},
		},
	}
	outputBuffer := &bytes.Buffer{}

	cherryError := newCherryService(testInstance, executor).Cherry(context.Background(), defaultCherryOptions(outputBuffer))

	require.Error(testInstance, cherryError)
	require.ErrorContains(testInstance, cherryError, "cherry-picking older111")
	require.Contains(testInstance, outputBuffer.String(), "Resolve them manually")
	require.NotContains(testInstance, executor.executedGitKeys, "push -u origin fix-login-bug")
}

func TestCherryPropagatesPullRequestCreationExitCode(testInstance *testing.T) {
	executor := &scriptedCherryExecutor{
		gitResponses: map[string]execshell.ExecutionResult{
			currentBranchKeyConstant:          {StandardOutput: "feature-work\n"},
			"rev-list --reverse HEAD~1..HEAD": {StandardOutput: "older111\n"},
		},
		pullRequestExitCode: 4,
	}
	outputBuffer := &bytes.Buffer{}

	cherryError := newCherryService(testInstance, executor).Cherry(context.Background(), defaultCherryOptions(outputBuffer))

	var passthroughError execshell.PassthroughExitError
	require.ErrorAs(testInstance, cherryError, &passthroughError)
	require.Equal(testInstance, 4, passthroughError.ExitCode())
	require.Contains(testInstance, outputBuffer.String(), "branch 'fix-login-bug' was pushed successfully")
	require.NotContains(testInstance, executor.executedGitKeys, "checkout feature-work")
}
