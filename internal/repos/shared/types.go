package shared

import (
	"io"
	"io/fs"
	"time"
)

const (
	// GitMetadataEntryNameConstant names the entry that marks a directory as a git working tree.
	GitMetadataEntryNameConstant = ".git"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock reports the same instant on every call.
type FixedClock struct {
	Instant time.Time
}

// Now returns the configured instant.
func (clock FixedClock) Now() time.Time {
	return clock.Instant
}

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	MkdirAll(path string, permissions fs.FileMode) error
	OpenAppend(path string, permissions fs.FileMode) (io.WriteCloser, error)
}

// ConfirmationPrompter collects user confirmations prior to mutating actions.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}
