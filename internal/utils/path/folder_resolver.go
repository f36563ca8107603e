// Package pathutils normalizes user-supplied folder paths.
package pathutils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                 = "~"
	tildeForwardSlashPrefixConstant     = "~/"
	windowsOperatingSystemConstant      = "windows"
	windowsBackslashConstant            = `\`
	forwardSlashConstant                = "/"
	windowsSubsystemMountPrefixConstant = "/mnt/"
	msysMountPrefixConstant             = "/"
	noDriveMountMessageConstant         = "no mount for drive"
	windowsPathNormalizationTemplate    = "unable to normalize Windows path \"%s\": %w %s"
)

var (
	tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)
	windowsDrivePathPattern      = regexp.MustCompile(`^([A-Za-z]):([\\/].*)?$`)
)

// ErrNoDriveMount indicates a Windows drive path whose drive is not mounted on this host.
var ErrNoDriveMount = errors.New(noDriveMountMessageConstant)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// PathStatter reports file information for a path.
type PathStatter func(path string) (fs.FileInfo, error)

// FolderResolver converts a user-supplied folder argument into a host path by
// trimming whitespace, expanding a leading tilde, and translating Windows drive
// paths such as C:\Users\me into the WSL (/mnt/c/Users/me) or MSYS
// (/c/Users/me) mount of the same drive when running outside Windows.
type FolderResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	statPath              PathStatter
	operatingSystem       string
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewFolderResolver constructs a FolderResolver using operating system lookups.
func NewFolderResolver() *FolderResolver {
	return NewFolderResolverWithDependencies(os.UserHomeDir, os.Stat, runtime.GOOS)
}

// NewFolderResolverWithDependencies constructs a FolderResolver with custom lookups.
func NewFolderResolverWithDependencies(provider HomeDirectoryProvider, statPath PathStatter, operatingSystem string) *FolderResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	if statPath == nil {
		statPath = os.Stat
	}
	if len(operatingSystem) == 0 {
		operatingSystem = runtime.GOOS
	}
	return &FolderResolver{homeDirectoryProvider: provider, statPath: statPath, operatingSystem: operatingSystem}
}

// Resolve normalizes candidatePath. An empty input resolves to an empty path.
func (resolver *FolderResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", nil
	}

	if driveMatch := windowsDrivePathPattern.FindStringSubmatch(trimmedPath); driveMatch != nil && resolver.operatingSystem != windowsOperatingSystemConstant {
		return resolver.translateWindowsDrivePath(trimmedPath, driveMatch[1], driveMatch[2])
	}

	return filepath.Clean(resolver.expandHome(trimmedPath)), nil
}

func (resolver *FolderResolver) translateWindowsDrivePath(originalPath string, driveLetter string, remainder string) (string, error) {
	lowerDrive := strings.ToLower(driveLetter)
	relativePath := strings.ReplaceAll(remainder, windowsBackslashConstant, forwardSlashConstant)

	for _, mountPrefix := range []string{windowsSubsystemMountPrefixConstant, msysMountPrefixConstant} {
		mountRoot := mountPrefix + lowerDrive
		mountInfo, statError := resolver.statPath(mountRoot)
		if statError != nil || !mountInfo.IsDir() {
			continue
		}
		return filepath.Clean(mountRoot + relativePath), nil
	}

	return "", fmt.Errorf(windowsPathNormalizationTemplate, originalPath, ErrNoDriveMount, strings.ToUpper(driveLetter))
}

func (resolver *FolderResolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	resolvedHomeDirectory := resolver.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildeSymbolConstant {
		return resolvedHomeDirectory
	}
	if strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant) {
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	}
	if strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix) {
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	}
	return candidatePath
}

func (resolver *FolderResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
