package prs

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/repoguard"
)

const (
	mergeCommandUseConstant    = "merge <pr>"
	mergeCommandShortConstant  = "Mark a pull request for merge by adding the merge label"
	listCommandUseConstant     = "list"
	listCommandShortConstant   = "List open pull requests with their check status"
	createCommandUseConstant   = "pr <message>"
	createCommandShortConstant = "Push the current branch and open a pull request for it"

	authorFlagNameConstant        = "author"
	authorFlagShorthandConstant   = "a"
	authorFlagDescriptionConstant = "filter pull requests by author"
	defaultAuthorConstant         = "@me"

	commitFlagNameConstant        = "commit"
	commitFlagShorthandConstant   = "c"
	commitFlagDescriptionConstant = "commit pending changes with the pull request message first"
	mergeFlagNameConstant         = "merge"
	mergeFlagShorthandConstant    = "m"
	mergeFlagDescriptionConstant  = "add the merge label to the created pull request"
	bodyFlagNameConstant          = "body"
	bodyFlagShorthandConstant     = "b"
	bodyFlagDescriptionConstant   = "body text for the created pull request"

	defaultWorkingDirectoryConstant     = "."
	executorProviderRequiredMessageCons = "pull request commands require an executor provider"
)

// ErrExecutorProviderRequired reports a builder missing its executor provider.
var ErrExecutorProviderRequired = errors.New(executorProviderRequiredMessageCons)

// CommandBuilder assembles the pull request commands.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ExecutorProvider      func() (CommandExecutor, error)
	ConfigurationProvider func() Configuration
	WorkingDirectory      string
}

// BuildMergeCommand constructs the command that labels a pull request for merge.
func (builder *CommandBuilder) BuildMergeCommand() (*cobra.Command, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorProviderRequired
	}

	command := &cobra.Command{
		Use:          mergeCommandUseConstant,
		Short:        mergeCommandShortConstant,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         builder.runMerge,
	}

	return command, nil
}

// BuildListCommand constructs the command that lists pull requests.
func (builder *CommandBuilder) BuildListCommand() (*cobra.Command, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorProviderRequired
	}

	command := &cobra.Command{
		Use:          listCommandUseConstant,
		Short:        listCommandShortConstant,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         builder.runList,
	}

	command.Flags().StringP(authorFlagNameConstant, authorFlagShorthandConstant, defaultAuthorConstant, authorFlagDescriptionConstant)

	return command, nil
}

// BuildCreateCommand constructs the command that opens a pull request for the
// current branch.
func (builder *CommandBuilder) BuildCreateCommand() (*cobra.Command, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorProviderRequired
	}

	command := &cobra.Command{
		Use:          createCommandUseConstant,
		Short:        createCommandShortConstant,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         builder.runCreate,
	}

	command.Flags().BoolP(commitFlagNameConstant, commitFlagShorthandConstant, false, commitFlagDescriptionConstant)
	command.Flags().BoolP(mergeFlagNameConstant, mergeFlagShorthandConstant, false, mergeFlagDescriptionConstant)
	command.Flags().StringP(bodyFlagNameConstant, bodyFlagShorthandConstant, "", bodyFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) runMerge(command *cobra.Command, arguments []string) error {
	service, configuration, workingDirectory, setupError := builder.prepare()
	if setupError != nil {
		return setupError
	}

	return service.AddMergeLabel(command.Context(), MergeOptions{
		PullRequestArgument: arguments[0],
		MergeLabel:          configuration.MergeLabel,
		WorkingDirectory:    workingDirectory,
		Output:              command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	service, _, workingDirectory, setupError := builder.prepare()
	if setupError != nil {
		return setupError
	}

	authorFilter, authorFlagError := command.Flags().GetString(authorFlagNameConstant)
	if authorFlagError != nil {
		return authorFlagError
	}

	return service.List(command.Context(), ListOptions{
		Author:           authorFilter,
		WorkingDirectory: workingDirectory,
		Output:           command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) runCreate(command *cobra.Command, arguments []string) error {
	service, configuration, workingDirectory, setupError := builder.prepare()
	if setupError != nil {
		return setupError
	}

	commitFirst, commitFlagError := command.Flags().GetBool(commitFlagNameConstant)
	if commitFlagError != nil {
		return commitFlagError
	}
	addMergeLabel, mergeFlagError := command.Flags().GetBool(mergeFlagNameConstant)
	if mergeFlagError != nil {
		return mergeFlagError
	}
	bodyText, bodyFlagError := command.Flags().GetString(bodyFlagNameConstant)
	if bodyFlagError != nil {
		return bodyFlagError
	}

	return service.Create(command.Context(), CreateOptions{
		Message:          arguments[0],
		Body:             bodyText,
		CommitFirst:      commitFirst,
		AddMergeLabel:    addMergeLabel,
		MergeLabel:       configuration.MergeLabel,
		Remote:           configuration.Remote,
		WorkingDirectory: workingDirectory,
		Output:           command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) prepare() (*Service, Configuration, string, error) {
	workingDirectory := builder.resolveWorkingDirectory()
	if guardError := repoguard.EnsureRepository(workingDirectory); guardError != nil {
		return nil, Configuration{}, "", guardError
	}
	if toolError := execshell.EnsureToolAvailable(execshell.CommandGitHub); toolError != nil {
		return nil, Configuration{}, "", toolError
	}

	executor, executorError := builder.ExecutorProvider()
	if executorError != nil {
		return nil, Configuration{}, "", executorError
	}

	service, serviceError := NewService(builder.resolveLogger(), executor)
	if serviceError != nil {
		return nil, Configuration{}, "", serviceError
	}

	return service, builder.resolveConfiguration(), workingDirectory, nil
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
