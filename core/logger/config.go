package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level to log (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error dpanic panic fatal"`
	// Format is the output encoding (json, console).
	Format string `mapstructure:"format" default:"json" validate:"oneof=json console"`
}
