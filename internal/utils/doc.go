// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses the LoggerFactory that builds the diagnostic zap logger and the
// FlagConfigurationLoader that resolves parsed flags into configuration
// structs through Viper.
package utils
