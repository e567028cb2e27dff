package move

import "strings"

const (
	defaultBaseBranchConstant = "master"
	defaultRemoteNameConstant = "origin"
)

// Configuration captures settings for the move command.
type Configuration struct {
	BaseBranch string `mapstructure:"base_branch"`
	Remote     string `mapstructure:"remote"`
}

// DefaultConfiguration provides baseline values for the move command.
func DefaultConfiguration() Configuration {
	return Configuration{
		BaseBranch: defaultBaseBranchConstant,
		Remote:     defaultRemoteNameConstant,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration

	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)
	if len(sanitized.BaseBranch) == 0 {
		sanitized.BaseBranch = defaultBaseBranchConstant
	}

	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaultRemoteNameConstant
	}

	return sanitized
}
