package cli

import _ "embed"

// The baked-in defaults keep ghg usable before any configuration file exists;
// config files and GHG_ environment variables override individual keys.
//
//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the built-in defaults along
// with the configuration type they are encoded in.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	defaultsCopy := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(defaultsCopy, embeddedDefaultConfigurationContent)
	return defaultsCopy, configurationTypeConstant
}
