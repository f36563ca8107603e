package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prune-gone/internal/repos/filesystem"
)

const (
	appendedFilePermissions = 0o644
	firstLineContent        = "first\n"
	secondLineContent       = "second\n"
)

func TestOSFileSystemOpenAppendCreatesParentsAndAppends(testInstance *testing.T) {
	testInstance.Parallel()

	temporaryDirectory := testInstance.TempDir()
	logPath := filepath.Join(temporaryDirectory, "nested", "logs", "prune-gone.log")
	fileSystem := filesystem.OSFileSystem{}

	for _, content := range []string{firstLineContent, secondLineContent} {
		writer, openError := fileSystem.OpenAppend(logPath, appendedFilePermissions)
		require.NoError(testInstance, openError)
		_, writeError := writer.Write([]byte(content))
		require.NoError(testInstance, writeError)
		require.NoError(testInstance, writer.Close())
	}

	contents, readError := os.ReadFile(logPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, firstLineContent+secondLineContent, string(contents))
}

func TestOSFileSystemReadDirListsEntries(testInstance *testing.T) {
	testInstance.Parallel()

	temporaryDirectory := testInstance.TempDir()
	fileSystem := filesystem.OSFileSystem{}
	require.NoError(testInstance, fileSystem.MkdirAll(filepath.Join(temporaryDirectory, "beta"), 0o755))
	require.NoError(testInstance, fileSystem.MkdirAll(filepath.Join(temporaryDirectory, "alpha"), 0o755))

	entries, readError := fileSystem.ReadDir(temporaryDirectory)
	require.NoError(testInstance, readError)
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, "alpha", entries[0].Name())
	require.Equal(testInstance, "beta", entries[1].Name())

	_, statError := fileSystem.Stat(filepath.Join(temporaryDirectory, "missing"))
	require.ErrorIs(testInstance, statError, os.ErrNotExist)
}
