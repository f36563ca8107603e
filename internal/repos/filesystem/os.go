package filesystem

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appendFileFlagsConstant            = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	parentDirectoryPermissionsConstant = 0o755
)

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists directory entries sorted by name.
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// OpenAppend opens path for appending, creating the file and its parent directories when missing.
func (fileSystem OSFileSystem) OpenAppend(path string, permissions fs.FileMode) (io.WriteCloser, error) {
	if mkdirError := fileSystem.MkdirAll(filepath.Dir(path), parentDirectoryPermissionsConstant); mkdirError != nil {
		return nil, mkdirError
	}
	return os.OpenFile(path, appendFileFlagsConstant, permissions)
}
