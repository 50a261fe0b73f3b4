package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Output destination: stdout, stderr
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`

	// Transcripts echoes every game transcript line to the log, which
	// gets loud fast on concurrent benchmark runs.
	Transcripts bool `mapstructure:"transcripts"`
}
