package config

import (
	"github.com/MonkyMars/gecho"
)

var logger gecho.Logger

// InitializeLogger builds the process logger. Production writes JSON lines for
// the log shipper; other environments keep the readable pretty format.
func InitializeLogger() *gecho.Logger {
	logger = *gecho.NewLogger(loggerConfig(IsProduction(), GetLogLevel()))
	return &logger
}

func loggerConfig(production bool, level string) gecho.LoggerConfig {
	format := gecho.LogFormatPretty
	if production {
		format = gecho.LogFormatJSON
	}
	return gecho.NewConfig(
		gecho.WithShowCaller(true),
		gecho.WithLogLevel(gecho.ParseLogLevel(level)),
		gecho.WithLogFormat(format),
		gecho.WithColorize(!production),
	)
}

func GetLogger() *gecho.Logger {
	return &logger
}
