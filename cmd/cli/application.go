package cli

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/velamo/ghg/internal/branches"
	"github.com/velamo/ghg/internal/cherry"
	"github.com/velamo/ghg/internal/diffview"
	"github.com/velamo/ghg/internal/execshell"
	"github.com/velamo/ghg/internal/move"
	"github.com/velamo/ghg/internal/prs"
	"github.com/velamo/ghg/internal/ui"
	"github.com/velamo/ghg/internal/utils"
	"github.com/velamo/ghg/internal/worktrees"
)

const (
	applicationNameConstant             = "ghg"
	applicationShortDescriptionConstant = "Productivity shortcuts for git and the GitHub CLI"
	applicationLongDescriptionConstant  = "ghg wraps everyday git and gh workflows: moving changes to fresh branches,\n" +
		"cherry-picking commits into pull requests, and managing sibling worktrees."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonLogLevelConfigKeyConstant         = "common.log_level"
	commonLogFormatConfigKeyConstant        = "common.log_format"
	workflowBaseBranchConfigKeyConstant     = "workflow.base_branch"
	workflowRemoteConfigKeyConstant         = "workflow.remote"
	branchesLimitConfigKeyConstant          = "branches.limit"
	pullRequestsLabelConfigKeyConstant      = "pullrequests.merge_label"
	pullRequestsRemoteConfigKeyConstant     = "pullrequests.remote"
	worktreesEnvironmentConfigKeyConstant   = "worktrees.environment_file"
	worktreesPostCreateConfigKeyConstant    = "worktrees.post_create_command"
	worktreesRemoteConfigKeyConstant        = "worktrees.remote"
	environmentPrefixConstant               = "GHG"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common       ApplicationCommonConfiguration `mapstructure:"common"`
	Workflow     move.Configuration             `mapstructure:"workflow"`
	Branches     branches.Configuration         `mapstructure:"branches"`
	PullRequests prs.Configuration              `mapstructure:"pullrequests"`
	Worktrees    worktrees.Configuration        `mapstructure:"worktrees"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, shared shell
// executor, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	shellExecutor         *execshell.ShellExecutor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	rootCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.registerCommands(rootCommand)
	application.rootCommand = rootCommand

	return application
}

func (application *Application) registerCommands(rootCommand *cobra.Command) {
	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	moveBuilder := move.CommandBuilder{
		LoggerProvider: loggerProvider,
		ExecutorProvider: func() (move.CommandExecutor, error) {
			return application.commandExecutor()
		},
		ConfigurationProvider: func() move.Configuration {
			return application.configuration.Workflow
		},
	}
	if moveCommand, moveBuildError := moveBuilder.Build(); moveBuildError == nil {
		rootCommand.AddCommand(moveCommand)
	}

	diffBuilder := diffview.CommandBuilder{
		LoggerProvider: loggerProvider,
		ExecutorProvider: func() (diffview.CommandExecutor, error) {
			return application.commandExecutor()
		},
		ConfigurationProvider: func() diffview.Configuration {
			return diffview.Configuration{BaseBranch: application.configuration.Workflow.BaseBranch}
		},
	}
	if diffCommand, diffBuildError := diffBuilder.Build(); diffBuildError == nil {
		rootCommand.AddCommand(diffCommand)
	}

	cherryBuilder := cherry.CommandBuilder{
		LoggerProvider: loggerProvider,
		ExecutorProvider: func() (cherry.CommandExecutor, error) {
			return application.commandExecutor()
		},
		ConfigurationProvider: func() cherry.Configuration {
			return cherry.Configuration{
				BaseBranch: application.configuration.Workflow.BaseBranch,
				Remote:     application.configuration.Workflow.Remote,
				MergeLabel: application.configuration.PullRequests.MergeLabel,
			}
		},
	}
	if cherryCommand, cherryBuildError := cherryBuilder.Build(); cherryBuildError == nil {
		rootCommand.AddCommand(cherryCommand)
	}

	branchesBuilder := branches.CommandBuilder{
		LoggerProvider: loggerProvider,
		ExecutorProvider: func() (branches.CommandExecutor, error) {
			return application.commandExecutor()
		},
		ConfigurationProvider: func() branches.Configuration {
			return application.configuration.Branches
		},
	}
	if branchesCommand, branchesBuildError := branchesBuilder.Build(); branchesBuildError == nil {
		rootCommand.AddCommand(branchesCommand)
	}

	pullRequestsBuilder := prs.CommandBuilder{
		LoggerProvider: loggerProvider,
		ExecutorProvider: func() (prs.CommandExecutor, error) {
			return application.commandExecutor()
		},
		ConfigurationProvider: func() prs.Configuration {
			return application.configuration.PullRequests
		},
	}
	if mergeCommand, mergeBuildError := pullRequestsBuilder.BuildMergeCommand(); mergeBuildError == nil {
		rootCommand.AddCommand(mergeCommand)
	}
	if listCommand, listBuildError := pullRequestsBuilder.BuildListCommand(); listBuildError == nil {
		rootCommand.AddCommand(listCommand)
	}
	if createCommand, createBuildError := pullRequestsBuilder.BuildCreateCommand(); createBuildError == nil {
		rootCommand.AddCommand(createCommand)
	}

	worktreesBuilder := worktrees.CommandBuilder{
		LoggerProvider: loggerProvider,
		ExecutorProvider: func() (worktrees.CommandExecutor, error) {
			return application.commandExecutor()
		},
		ConfigurationProvider: func() worktrees.Configuration {
			return application.configuration.Worktrees
		},
	}
	if worktreesCommand, worktreesBuildError := worktreesBuilder.Build(); worktreesBuildError == nil {
		rootCommand.AddCommand(worktreesCommand)
	}
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// commandExecutor lazily builds the shared shell executor once the logger is
// available, after verifying the git executable can be found at all.
func (application *Application) commandExecutor() (*execshell.ShellExecutor, error) {
	if application.shellExecutor != nil {
		return application.shellExecutor, nil
	}

	if toolError := execshell.EnsureToolAvailable(execshell.CommandGit); toolError != nil {
		return nil, toolError
	}

	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	shellExecutor.SetEventObserver(ui.NewConsoleCommandEventLogger(application.logger))

	application.shellExecutor = shellExecutor
	return application.shellExecutor, nil
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	workflowDefaults := move.DefaultConfiguration()
	branchesDefaults := branches.DefaultConfiguration()
	pullRequestsDefaults := prs.DefaultConfiguration()
	worktreesDefaults := worktrees.DefaultConfiguration()

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:       string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:      string(utils.LogFormatConsole),
		workflowBaseBranchConfigKeyConstant:   workflowDefaults.BaseBranch,
		workflowRemoteConfigKeyConstant:       workflowDefaults.Remote,
		branchesLimitConfigKeyConstant:        branchesDefaults.Limit,
		pullRequestsLabelConfigKeyConstant:    pullRequestsDefaults.MergeLabel,
		pullRequestsRemoteConfigKeyConstant:   pullRequestsDefaults.Remote,
		worktreesEnvironmentConfigKeyConstant: worktreesDefaults.EnvironmentFile,
		worktreesPostCreateConfigKeyConstant:  worktreesDefaults.PostCreateCommand,
		worktreesRemoteConfigKeyConstant:      worktreesDefaults.Remote,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	createdLogger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = createdLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
