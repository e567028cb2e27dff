package cherry

import "strings"

const (
	defaultBaseBranchConstant = "master"
	defaultRemoteNameConstant = "origin"
	defaultMergeLabelConstant = "merge"
)

// Configuration captures settings for the cherry command.
type Configuration struct {
	BaseBranch string `mapstructure:"base_branch"`
	Remote     string `mapstructure:"remote"`
	MergeLabel string `mapstructure:"merge_label"`
}

// DefaultConfiguration provides baseline values for the cherry command.
func DefaultConfiguration() Configuration {
	return Configuration{
		BaseBranch: defaultBaseBranchConstant,
		Remote:     defaultRemoteNameConstant,
		MergeLabel: defaultMergeLabelConstant,
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

	sanitized.MergeLabel = strings.TrimSpace(configuration.MergeLabel)
	if len(sanitized.MergeLabel) == 0 {
		sanitized.MergeLabel = defaultMergeLabelConstant
	}

	return sanitized
}
