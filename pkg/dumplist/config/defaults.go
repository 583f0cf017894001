// Package config provides configuration management for dumplist.
package config

// Default configuration values for dumplist.
const (
	// DefaultRoot is the directory every operation works on.
	DefaultRoot = "."

	// DefaultListFile is the name of the listing file inside the root.
	DefaultListFile = "SHA256SUMS"

	// DefaultOutput is the default report format.
	DefaultOutput = "plain"

	// DefaultWalkWorkers lets the walker pick its own concurrency.
	DefaultWalkWorkers = 0

	// DefaultRetentionDays is the default number of days to retain history entries.
	DefaultRetentionDays = 90

	// DefaultLogLevel is the default log level for the log file.
	DefaultLogLevel = "info"

	// AppName names the config and state directories.
	AppName = "dumplist"
)
