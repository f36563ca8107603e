package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/temirov/prune-gone/internal/repos/filesystem"
	"github.com/temirov/prune-gone/internal/repos/shared"
)

const (
	unreadableFolderTemplateConstant = "%w: %s: %v"
	scanModeSingleNameConstant       = "single"
	scanModeChildrenNameConstant     = "one-level"
	scanModeRecursiveNameConstant    = "recursive"
)

// ErrFolderUnreadable indicates that the scan root could not be listed.
var ErrFolderUnreadable = errors.New("unable to read folder")

// ScanMode selects how repositories are located.
type ScanMode int

const (
	// ScanModeSingle yields only the working directory.
	ScanModeSingle ScanMode = iota
	// ScanModeChildren yields immediate child directories of the folder that are repositories.
	ScanModeChildren
	// ScanModeRecursive yields every repository at or below the folder.
	ScanModeRecursive
)

// String returns the display name of the scan mode.
func (mode ScanMode) String() string {
	switch mode {
	case ScanModeChildren:
		return scanModeChildrenNameConstant
	case ScanModeRecursive:
		return scanModeRecursiveNameConstant
	default:
		return scanModeSingleNameConstant
	}
}

// ScanOptions describes a single scan.
type ScanOptions struct {
	WorkingDirectory       string
	Folder                 string
	Recursive              bool
	SkipNestedRepositories bool
}

// Mode derives the scan mode from the options.
func (options ScanOptions) Mode() ScanMode {
	if len(options.Folder) == 0 {
		return ScanModeSingle
	}
	if options.Recursive {
		return ScanModeRecursive
	}
	return ScanModeChildren
}

// Scanner locates git repositories on disk.
type Scanner struct {
	fileSystem shared.FileSystem
}

// NewScanner constructs a Scanner backed by the operating system filesystem.
func NewScanner() *Scanner {
	return NewScannerWithFileSystem(filesystem.OSFileSystem{})
}

// NewScannerWithFileSystem constructs a Scanner over the provided filesystem.
func NewScannerWithFileSystem(fileSystem shared.FileSystem) *Scanner {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &Scanner{fileSystem: fileSystem}
}

// Repositories lazily yields repository roots for the options. A folder that cannot be read is yielded as an error.
func (scanner *Scanner) Repositories(options ScanOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		switch options.Mode() {
		case ScanModeSingle:
			yield(options.WorkingDirectory, nil)
		case ScanModeChildren:
			scanner.yieldChildren(options.Folder, yield)
		case ScanModeRecursive:
			scanner.yieldRecursive(options.Folder, options.SkipNestedRepositories, yield)
		}
	}
}

func (scanner *Scanner) yieldChildren(folder string, yield func(string, error) bool) {
	entries, readError := scanner.fileSystem.ReadDir(folder)
	if readError != nil {
		yield("", fmt.Errorf(unreadableFolderTemplateConstant, ErrFolderUnreadable, folder, readError))
		return
	}

	for _, entry := range entries {
		childPath := filepath.Join(folder, entry.Name())
		if !scanner.isDirectory(entry, childPath) {
			continue
		}
		if !scanner.hasGitMetadata(childPath) {
			continue
		}
		if !yield(childPath, nil) {
			return
		}
	}
}

func (scanner *Scanner) yieldRecursive(folder string, skipNested bool, yield func(string, error) bool) {
	_ = filepath.WalkDir(folder, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if path == folder {
				yield("", fmt.Errorf(unreadableFolderTemplateConstant, ErrFolderUnreadable, folder, walkError))
				return fs.SkipAll
			}
			if directoryEntry != nil && directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !directoryEntry.IsDir() {
			return nil
		}
		if path != folder && directoryEntry.Name() == shared.GitMetadataEntryNameConstant {
			return fs.SkipDir
		}
		if !scanner.hasGitMetadata(path) {
			return nil
		}
		if !yield(path, nil) {
			return fs.SkipAll
		}
		if skipNested {
			return fs.SkipDir
		}
		return nil
	})
}

func (scanner *Scanner) isDirectory(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, statError := scanner.fileSystem.Stat(path)
	return statError == nil && info.IsDir()
}

func (scanner *Scanner) hasGitMetadata(path string) bool {
	_, statError := scanner.fileSystem.Stat(filepath.Join(path, shared.GitMetadataEntryNameConstant))
	return statError == nil
}
