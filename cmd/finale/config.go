package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogFile = "log-file"

	// Start command flags
	FlagTheme        = "theme"
	FlagTimezone     = "timezone"
	FlagTarget       = "target"
	FlagMode         = "mode"
	FlagDuration     = "duration"
	FlagMessage      = "message"
	FlagTickInterval = "tick-interval"
	FlagHeadless     = "headless"
	FlagZones        = "zones"
)
