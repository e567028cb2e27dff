package move

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/repoguard"
)

const (
	commandUseConstant   = "move <branch-name>"
	commandShortConstant = "Move uncommitted changes to a new branch cut from the base branch"
	commandLongConstant  = "Move stashes any uncommitted changes, updates the base branch from its remote,\n" +
		"creates the named branch, and reapplies the stashed changes on top of it."
	defaultWorkingDirectoryConstant      = "."
	executorProviderRequiredMessageConst = "move command requires an executor provider"
)

// ErrExecutorProviderRequired reports a builder missing its executor provider.
var ErrExecutorProviderRequired = errors.New(executorProviderRequiredMessageConst)

// CommandBuilder assembles the move command.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ExecutorProvider      func() (CommandExecutor, error)
	ConfigurationProvider func() Configuration
	WorkingDirectory      string
}

// Build constructs the cobra command for moving changes to a new branch.
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

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	workingDirectory := builder.resolveWorkingDirectory()
	if guardError := repoguard.EnsureRepository(workingDirectory); guardError != nil {
		return guardError
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
	return service.Move(command.Context(), Options{
		BranchName:       arguments[0],
		BaseBranch:       configuration.BaseBranch,
		Remote:           configuration.Remote,
		WorkingDirectory: workingDirectory,
		Output:           command.OutOrStdout(),
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
