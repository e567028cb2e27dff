package cherry

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/repoguard"
)

const (
	commandUseConstant   = "cherry <title>"
	commandShortConstant = "Cherry-pick recent commits onto a fresh branch and open a pull request"
	commandLongConstant  = "Cherry commits any pending changes (or collects the last N commits), replays\n" +
		"them onto a new branch cut from the refreshed base branch, pushes the branch,\n" +
		"and opens a pull request titled after the given title."
	mergeFlagNameConstant            = "merge"
	mergeFlagShorthandConstant       = "m"
	mergeFlagDescriptionConstant     = "add the merge label to the created pull request"
	commitCountFlagNameConstant      = "num"
	commitCountFlagShorthandConstant = "n"
	commitCountFlagDescriptionConst  = "number of recent commits to cherry-pick"
	bodyFlagNameConstant             = "body"
	bodyFlagShorthandConstant        = "b"
	bodyFlagDescriptionConstant      = "body text for the created pull request"
	defaultCommitCountConstant       = 1
	defaultWorkingDirectoryConstant  = "."
	executorProviderRequiredMessage  = "cherry command requires an executor provider"
)

// ErrExecutorProviderRequired reports a builder missing its executor provider.
var ErrExecutorProviderRequired = errors.New(executorProviderRequiredMessage)

// CommandBuilder assembles the cherry command.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ExecutorProvider      func() (CommandExecutor, error)
	ConfigurationProvider func() Configuration
	WorkingDirectory      string
}

// Build constructs the cobra command for the cherry-pick workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorProviderRequired
	}

	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortConstant,
		Long:         commandLongConstant,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         builder.run,
	}

	command.Flags().BoolP(mergeFlagNameConstant, mergeFlagShorthandConstant, false, mergeFlagDescriptionConstant)
	command.Flags().IntP(commitCountFlagNameConstant, commitCountFlagShorthandConstant, defaultCommitCountConstant, commitCountFlagDescriptionConst)
	command.Flags().StringP(bodyFlagNameConstant, bodyFlagShorthandConstant, "", bodyFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	workingDirectory := builder.resolveWorkingDirectory()
	if guardError := repoguard.EnsureRepository(workingDirectory); guardError != nil {
		return guardError
	}
	if toolError := execshell.EnsureToolAvailable(execshell.CommandGitHub); toolError != nil {
		return toolError
	}

	addMergeLabel, mergeFlagError := command.Flags().GetBool(mergeFlagNameConstant)
	if mergeFlagError != nil {
		return mergeFlagError
	}
	commitCount, commitCountError := command.Flags().GetInt(commitCountFlagNameConstant)
	if commitCountError != nil {
		return commitCountError
	}
	bodyText, bodyFlagError := command.Flags().GetString(bodyFlagNameConstant)
	if bodyFlagError != nil {
		return bodyFlagError
	}

	executor, executorError := builder.ExecutorProvider()
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(builder.resolveLogger(), executor)
	if serviceError != nil {
		return serviceError
	}

	configuration := builder.resolveConfiguration()
	return service.Cherry(command.Context(), Options{
		Title:               arguments[0],
		Body:                bodyText,
		AddMergeLabel:       addMergeLabel,
		MergeLabel:          configuration.MergeLabel,
		CommitCount:         commitCount,
		CommitCountProvided: command.Flags().Changed(commitCountFlagNameConstant),
		BaseBranch:          configuration.BaseBranch,
		Remote:              configuration.Remote,
		WorkingDirectory:    workingDirectory,
		Output:              command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if providedLogger := builder.LoggerProvider(); providedLogger != nil {
			return providedLogger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveWorkingDirectory() string {
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory
	}
	return defaultWorkingDirectoryConstant
}
