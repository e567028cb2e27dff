package branches

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/repoguard"
)

const (
	commandUseConstant                   = "branch"
	commandShortConstant                 = "List local branches ordered by most recent commit"
	defaultWorkingDirectoryConstant      = "."
	executorProviderRequiredMessageConst = "branch command requires an executor provider"
)

// ErrExecutorProviderRequired reports a builder missing its executor provider.
var ErrExecutorProviderRequired = errors.New(executorProviderRequiredMessageConst)

// CommandBuilder assembles the branch listing command.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ExecutorProvider      func() (CommandExecutor, error)
	ConfigurationProvider func() Configuration
	WorkingDirectory      string
}

// Build constructs the cobra command for listing branches.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.ExecutorProvider == nil {
		return nil, ErrExecutorProviderRequired
	}

	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortConstant,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
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
	return service.List(command.Context(), Options{
		Limit:            configuration.Limit,
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
