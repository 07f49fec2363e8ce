// Package utils exposes helpers shared by recheckout commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through Viper. LoggerFactory builds the zap loggers
// used for diagnostics and console output.
package utils
