package flags

const (
	// FolderFlagName selects multi-repository mode rooted at a folder.
	FolderFlagName = "folder"
	// FolderFlagShorthand is the shorthand for FolderFlagName.
	FolderFlagShorthand = "f"
	// FolderFlagUsage describes the folder flag.
	FolderFlagUsage = "Process every repository found in this folder instead of the current directory"
	// RecursiveFlagName enables recursive repository discovery.
	RecursiveFlagName = "recursive"
	// RecursiveFlagShorthand is the shorthand for RecursiveFlagName.
	RecursiveFlagShorthand = "r"
	// RecursiveFlagUsage describes the recursive flag.
	RecursiveFlagUsage = "Search the folder recursively instead of only its immediate children"
	// SkipNestedFlagName stops recursive discovery from descending into repositories.
	SkipNestedFlagName = "skip-nested"
	// SkipNestedFlagUsage describes the skip-nested flag.
	SkipNestedFlagUsage = "Do not look for repositories nested inside another repository's working tree"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagShorthand is the shorthand for DryRunFlagName.
	DryRunFlagShorthand = "n"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Report what would be deleted without deleting anything"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Delete without asking; unmerged branches still require --force-delete"
	// ForceDeleteFlagName permits deleting unmerged branches.
	ForceDeleteFlagName = "force-delete"
	// ForceDeleteFlagShorthand is the shorthand for ForceDeleteFlagName.
	ForceDeleteFlagShorthand = "D"
	// ForceDeleteFlagUsage describes the force-delete flag.
	ForceDeleteFlagUsage = "Delete branches that are not fully merged into HEAD"
	// StaleDaysFlagName sets the staleness threshold.
	StaleDaysFlagName = "stale-days"
	// StaleDaysFlagShorthand is the shorthand for StaleDaysFlagName.
	StaleDaysFlagShorthand = "s"
	// StaleDaysFlagUsage describes the stale-days flag.
	StaleDaysFlagUsage = "Mark branches whose last commit is older than this many days as stale"
	// ExcludeStaleFlagName protects stale branches from deletion.
	ExcludeStaleFlagName = "exclude-stale"
	// ExcludeStaleFlagShorthand is the shorthand for ExcludeStaleFlagName.
	ExcludeStaleFlagShorthand = "e"
	// ExcludeStaleFlagUsage describes the exclude-stale flag.
	ExcludeStaleFlagUsage = "List stale branches but never delete them"
	// LogFileFlagName enables the append-only log file.
	LogFileFlagName = "log"
	// LogFileFlagShorthand is the shorthand for LogFileFlagName.
	LogFileFlagShorthand = "l"
	// LogFileFlagUsage describes the log flag.
	LogFileFlagUsage = "Append a plain-text record of the run to FILE"
	// CommandTimeoutFlagName bounds each git invocation.
	CommandTimeoutFlagName = "command-timeout"
	// CommandTimeoutFlagUsage describes the command-timeout flag.
	CommandTimeoutFlagUsage = "Maximum duration of a single git invocation (0 disables the limit)"
	// LogLevelFlagName selects the diagnostic log level.
	LogLevelFlagName = "log-level"
	// LogLevelFlagUsage describes the log-level flag.
	LogLevelFlagUsage = "Diagnostic log level written to standard error"
	// LogFormatFlagName selects the diagnostic log encoding.
	LogFormatFlagName = "log-format"
	// LogFormatFlagUsage describes the log-format flag.
	LogFormatFlagUsage = "Diagnostic log format written to standard error"
)
