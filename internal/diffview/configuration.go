package diffview

import "strings"

const defaultBaseBranchConstant = "master"

// Configuration captures settings for the diff command.
type Configuration struct {
	BaseBranch string `mapstructure:"base_branch"`
}

// DefaultConfiguration provides baseline values for the diff command.
func DefaultConfiguration() Configuration {
	return Configuration{BaseBranch: defaultBaseBranchConstant}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)
	if len(sanitized.BaseBranch) == 0 {
		sanitized.BaseBranch = defaultBaseBranchConstant
	}
	return sanitized
}
