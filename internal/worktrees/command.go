package worktrees

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/repoguard"
)

const (
	groupCommandUseConstant    = "wt"
	groupCommandShortConstant  = "Manage sibling worktrees named after the repository"
	createCommandUseConstant   = "create <branch>"
	createCommandShortConstant = "Create a worktree next to the main working copy"
	deleteCommandUseConstant   = "delete <branch>"
	deleteCommandShortConstant = "Remove the worktree for a branch and delete the branch"
	listCommandUseConstant     = "list"
	listCommandShortConstant   = "List managed worktrees"

	newBranchFlagNameConstant        = "new"
	newBranchFlagShorthandConstant   = "n"
	newBranchFlagDescriptionConstant = "create a new branch for the worktree"
	existingFlagNameConstant         = "existing"
	existingFlagShorthandConstant    = "e"
	existingFlagDescriptionConstant  = "check out an existing branch instead of creating one"
	shellFlagNameConstant            = "shell"
	shellFlagShorthandConstant       = "s"
	shellFlagDescriptionConstant     = "print a single shell command to enter the new worktree"
	forceFlagNameConstant            = "force"
	forceFlagShorthandConstant       = "f"
	forceFlagDescriptionConstant     = "remove the worktree even if it has local modifications"
	keepBranchFlagNameConstant       = "keep-branch"
	keepBranchFlagShorthandConstant  = "k"
	keepBranchFlagDescriptionConst   = "keep the branch after removing its worktree"
	showAllFlagNameConstant          = "all"
	showAllFlagShorthandConstant     = "a"
	showAllFlagDescriptionConstant   = "show every worktree, not only managed ones"

	defaultWorkingDirectoryConstant     = "."
	executorProviderRequiredMessageCons = "worktree commands require an executor provider"
)

// ErrExecutorProviderRequired reports a builder missing its executor provider.
var ErrExecutorProviderRequired = errors.New(executorProviderRequiredMessageCons)

// CommandBuilder assembles the worktree command group.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ExecutorProvider      func() (CommandExecutor, error)
	ConfigurationProvider func() Configuration
	WorkingDirectory      string
}

// Build constructs the wt command group with its create, delete, and list
// subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorProviderRequired
	}

	groupCommand := &cobra.Command{
		Use:          groupCommandUseConstant,
		Short:        groupCommandShortConstant,
		SilenceUsage: true,
	}

	createCommand := &cobra.Command{
		Use:          createCommandUseConstant,
		Short:        createCommandShortConstant,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         builder.runCreate,
	}
	createCommand.Flags().BoolP(newBranchFlagNameConstant, newBranchFlagShorthandConstant, true, newBranchFlagDescriptionConstant)
	createCommand.Flags().BoolP(existingFlagNameConstant, existingFlagShorthandConstant, false, existingFlagDescriptionConstant)
	createCommand.Flags().BoolP(shellFlagNameConstant, shellFlagShorthandConstant, false, shellFlagDescriptionConstant)

	deleteCommand := &cobra.Command{
		Use:          deleteCommandUseConstant,
		Short:        deleteCommandShortConstant,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         builder.runDelete,
	}
	deleteCommand.Flags().BoolP(forceFlagNameConstant, forceFlagShorthandConstant, false, forceFlagDescriptionConstant)
	deleteCommand.Flags().BoolP(keepBranchFlagNameConstant, keepBranchFlagShorthandConstant, false, keepBranchFlagDescriptionConst)

	listCommand := &cobra.Command{
		Use:          listCommandUseConstant,
		Short:        listCommandShortConstant,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         builder.runList,
	}
	listCommand.Flags().BoolP(showAllFlagNameConstant, showAllFlagShorthandConstant, false, showAllFlagDescriptionConstant)

	groupCommand.AddCommand(createCommand, deleteCommand, listCommand)
	return groupCommand, nil
}

func (builder *CommandBuilder) runCreate(command *cobra.Command, arguments []string) error {
	service, configuration, workingDirectory, setupError := builder.prepare()
	if setupError != nil {
		return setupError
	}

	createNewBranch, newFlagError := command.Flags().GetBool(newBranchFlagNameConstant)
	if newFlagError != nil {
		return newFlagError
	}
	attachExisting, existingFlagError := command.Flags().GetBool(existingFlagNameConstant)
	if existingFlagError != nil {
		return existingFlagError
	}
	shellMode, shellFlagError := command.Flags().GetBool(shellFlagNameConstant)
	if shellFlagError != nil {
		return shellFlagError
	}

	return service.Create(command.Context(), CreateOptions{
		BranchName:        arguments[0],
		CreateBranch:      createNewBranch && !attachExisting,
		ShellMode:         shellMode,
		EnvironmentFile:   configuration.EnvironmentFile,
		PostCreateCommand: configuration.PostCreateCommand,
		Remote:            configuration.Remote,
		WorkingDirectory:  workingDirectory,
		Output:            command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) runDelete(command *cobra.Command, arguments []string) error {
	service, _, workingDirectory, setupError := builder.prepare()
	if setupError != nil {
		return setupError
	}

	forceRemoval, forceFlagError := command.Flags().GetBool(forceFlagNameConstant)
	if forceFlagError != nil {
		return forceFlagError
	}
	keepBranch, keepFlagError := command.Flags().GetBool(keepBranchFlagNameConstant)
	if keepFlagError != nil {
		return keepFlagError
	}

	return service.Delete(command.Context(), DeleteOptions{
		BranchName:       arguments[0],
		Force:            forceRemoval,
		KeepBranch:       keepBranch,
		WorkingDirectory: workingDirectory,
		Output:           command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	service, configuration, workingDirectory, setupError := builder.prepare()
	if setupError != nil {
		return setupError
	}

	showAll, showAllFlagError := command.Flags().GetBool(showAllFlagNameConstant)
	if showAllFlagError != nil {
		return showAllFlagError
	}

	return service.List(command.Context(), ListOptions{
		ShowAll:          showAll,
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
