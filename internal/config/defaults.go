package config

const (
	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// DefaultFixtureName is the default data fixture filename, relative to
	// the config directory.
	DefaultFixtureName = "fixture.yml"

	// DefaultLatencyMS is the default simulated network delay per call.
	DefaultLatencyMS = 300

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1
)
