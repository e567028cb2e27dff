package branches

const defaultBranchLimitConstant = 10

// Configuration captures settings for the branch listing command.
type Configuration struct {
	Limit int `mapstructure:"limit"`
}

// DefaultConfiguration provides baseline values for the branch listing command.
func DefaultConfiguration() Configuration {
	return Configuration{Limit: defaultBranchLimitConstant}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	if sanitized.Limit <= 0 {
		sanitized.Limit = defaultBranchLimitConstant
	}
	return sanitized
}
