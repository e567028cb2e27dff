package prs

import "strings"

const (
	defaultMergeLabelConstant = "merge"
	defaultRemoteNameConstant = "origin"
)

// Configuration captures settings for the pull request commands.
type Configuration struct {
	MergeLabel string `mapstructure:"merge_label"`
	Remote     string `mapstructure:"remote"`
}

// DefaultConfiguration provides baseline values for the pull request commands.
func DefaultConfiguration() Configuration {
	return Configuration{
		MergeLabel: defaultMergeLabelConstant,
		Remote:     defaultRemoteNameConstant,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration

	sanitized.MergeLabel = strings.TrimSpace(configuration.MergeLabel)
	if len(sanitized.MergeLabel) == 0 {
		sanitized.MergeLabel = defaultMergeLabelConstant
	}

	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaultRemoteNameConstant
	}

	return sanitized
}
