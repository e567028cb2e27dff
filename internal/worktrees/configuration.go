package worktrees

import "strings"

const (
	defaultEnvironmentFileConstant   = ".envrc"
	defaultPostCreateCommandConstant = "uv sync"
	defaultRemoteNameConstant        = "origin"
)

// Configuration captures settings for the worktree commands.
type Configuration struct {
	EnvironmentFile   string `mapstructure:"environment_file"`
	PostCreateCommand string `mapstructure:"post_create_command"`
	Remote            string `mapstructure:"remote"`
}

// DefaultConfiguration provides baseline values for the worktree commands.
func DefaultConfiguration() Configuration {
	return Configuration{
		EnvironmentFile:   defaultEnvironmentFileConstant,
		PostCreateCommand: defaultPostCreateCommandConstant,
		Remote:            defaultRemoteNameConstant,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration

	sanitized.EnvironmentFile = strings.TrimSpace(configuration.EnvironmentFile)
	sanitized.PostCreateCommand = strings.TrimSpace(configuration.PostCreateCommand)

	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaultRemoteNameConstant
	}

	return sanitized
}
