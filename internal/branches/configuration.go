package branches

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/temirov/prune-gone/internal/utils/flags"
)

const (
	// DefaultStaleDaysConstant is the staleness threshold used when --stale-days is omitted.
	DefaultStaleDaysConstant = 30
	// DefaultCommandTimeoutConstant bounds a single git invocation when --command-timeout is omitted.
	DefaultCommandTimeoutConstant = 2 * time.Minute
	// DefaultLogFileNameConstant names the log file created next to the executable.
	DefaultLogFileNameConstant = "prune-gone.log"

	invalidStaleDaysMessageConstant       = "stale days must be a positive integer"
	invalidCommandTimeoutMessageConstant  = "command timeout must not be negative"
	folderNotFoundMessageConstant         = "folder does not exist"
	folderNotDirectoryMessageConstant     = "folder is not a directory"
	invalidStaleDaysTemplateConstant      = "%w: %d"
	invalidCommandTimeoutTemplateConstant = "%w: %s"
	folderResolutionTemplateConstant      = "%w: %s"
	folderStatTemplateConstant            = "unable to access folder %s: %w"
)

// ErrInvalidStaleDays indicates a non-positive staleness threshold.
var ErrInvalidStaleDays = errors.New(invalidStaleDaysMessageConstant)

// ErrInvalidCommandTimeout indicates a negative command timeout.
var ErrInvalidCommandTimeout = errors.New(invalidCommandTimeoutMessageConstant)

// ErrFolderNotFound indicates that --folder names a missing path.
var ErrFolderNotFound = errors.New(folderNotFoundMessageConstant)

// ErrFolderNotDirectory indicates that --folder names something other than a directory.
var ErrFolderNotDirectory = errors.New(folderNotDirectoryMessageConstant)

// CommandConfiguration captures raw flag values for the prune command. Keys match the flag names.
type CommandConfiguration struct {
	Folder         string        `mapstructure:"folder"`
	Recursive      bool          `mapstructure:"recursive"`
	SkipNested     bool          `mapstructure:"skip-nested"`
	DryRun         bool          `mapstructure:"dry-run"`
	AssumeYes      bool          `mapstructure:"yes"`
	ForceDelete    bool          `mapstructure:"force-delete"`
	StaleDays      int           `mapstructure:"stale-days"`
	ExcludeStale   bool          `mapstructure:"exclude-stale"`
	LogFilePath    string        `mapstructure:"log"`
	CommandTimeout time.Duration `mapstructure:"command-timeout"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		StaleDays:      DefaultStaleDaysConstant,
		CommandTimeout: DefaultCommandTimeoutConstant,
	}
}

// DefaultConfigurationValues returns the defaults keyed by flag name.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		flags.StaleDaysFlagName:      defaults.StaleDays,
		flags.CommandTimeoutFlagName: defaults.CommandTimeout.String(),
	}
}

// FolderResolver normalizes a user supplied folder path.
type FolderResolver interface {
	Resolve(candidatePath string) (string, error)
}

// PathStatter reports metadata for a path.
type PathStatter interface {
	Stat(path string) (fs.FileInfo, error)
}

// ResolutionInputs carries the environment needed to turn flag values into a Configuration.
type ResolutionInputs struct {
	FolderResolver     FolderResolver
	FileSystem         PathStatter
	WorkingDirectory   string
	LogRequested       bool
	DefaultLogFilePath string
}

// Configuration is the validated, resolved run configuration. It is passed by value and never modified.
type Configuration struct {
	WorkingDirectory       string
	Folder                 string
	Recursive              bool
	SkipNestedRepositories bool
	DryRun                 bool
	AssumeYes              bool
	ForceDelete            bool
	StaleDays              int
	ExcludeStale           bool
	LogEnabled             bool
	LogFilePath            string
	CommandTimeout         time.Duration
}

// MultiRepository reports whether the run targets a folder of repositories.
func (configuration Configuration) MultiRepository() bool {
	return len(configuration.Folder) > 0
}

// Resolve validates the command configuration and produces a Configuration.
func (configuration CommandConfiguration) Resolve(inputs ResolutionInputs) (Configuration, error) {
	if configuration.StaleDays <= 0 {
		return Configuration{}, fmt.Errorf(invalidStaleDaysTemplateConstant, ErrInvalidStaleDays, configuration.StaleDays)
	}
	if configuration.CommandTimeout < 0 {
		return Configuration{}, fmt.Errorf(invalidCommandTimeoutTemplateConstant, ErrInvalidCommandTimeout, configuration.CommandTimeout)
	}

	folder, folderError := resolveFolder(configuration.Folder, inputs)
	if folderError != nil {
		return Configuration{}, folderError
	}

	resolved := Configuration{
		WorkingDirectory:       inputs.WorkingDirectory,
		Folder:                 folder,
		Recursive:              configuration.Recursive,
		SkipNestedRepositories: configuration.SkipNested,
		DryRun:                 configuration.DryRun,
		AssumeYes:              configuration.AssumeYes,
		ForceDelete:            configuration.ForceDelete,
		StaleDays:              configuration.StaleDays,
		ExcludeStale:           configuration.ExcludeStale,
		CommandTimeout:         configuration.CommandTimeout,
	}

	if inputs.LogRequested {
		resolved.LogEnabled = true
		resolved.LogFilePath = strings.TrimSpace(configuration.LogFilePath)
		if len(resolved.LogFilePath) == 0 {
			resolved.LogFilePath = inputs.DefaultLogFilePath
		}
	}

	return resolved, nil
}

func resolveFolder(rawFolder string, inputs ResolutionInputs) (string, error) {
	trimmedFolder := strings.TrimSpace(rawFolder)
	if len(trimmedFolder) == 0 {
		return "", nil
	}

	folder := trimmedFolder
	if inputs.FolderResolver != nil {
		resolvedFolder, resolveError := inputs.FolderResolver.Resolve(trimmedFolder)
		if resolveError != nil {
			return "", resolveError
		}
		folder = resolvedFolder
	}

	if inputs.FileSystem == nil {
		return folder, nil
	}

	info, statError := inputs.FileSystem.Stat(folder)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return "", fmt.Errorf(folderResolutionTemplateConstant, ErrFolderNotFound, folder)
		}
		return "", fmt.Errorf(folderStatTemplateConstant, folder, statError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(folderResolutionTemplateConstant, ErrFolderNotDirectory, folder)
	}
	return folder, nil
}
