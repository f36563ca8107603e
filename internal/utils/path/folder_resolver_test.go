package pathutils_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/prune-gone/internal/utils/path"
)

const (
	testHomeDirectoryConstant   = "/home/tester"
	testLinuxOperatingSystem    = "linux"
	testWindowsOperatingSystem  = "windows"
	testNoMountErrorExpectation = `unable to normalize Windows path "C:\Users\me": no mount for drive C`
)

type stubDirectoryInfo struct {
	name string
}

func (info stubDirectoryInfo) Name() string       { return info.name }
func (info stubDirectoryInfo) Size() int64        { return 0 }
func (info stubDirectoryInfo) Mode() fs.FileMode  { return fs.ModeDir }
func (info stubDirectoryInfo) ModTime() time.Time { return time.Time{} }
func (info stubDirectoryInfo) IsDir() bool        { return true }
func (info stubDirectoryInfo) Sys() any           { return nil }

func statWithDirectories(directories ...string) pathutils.PathStatter {
	existing := make(map[string]struct{}, len(directories))
	for _, directory := range directories {
		existing[directory] = struct{}{}
	}
	return func(path string) (fs.FileInfo, error) {
		if _, found := existing[path]; found {
			return stubDirectoryInfo{name: filepath.Base(path)}, nil
		}
		return nil, os.ErrNotExist
	}
}

func staticHome() (string, error) {
	return testHomeDirectoryConstant, nil
}

func TestFolderResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name            string
		input           string
		mounts          []string
		operatingSystem string
		expectedPath    string
	}{
		{name: "empty_input", input: "   ", operatingSystem: testLinuxOperatingSystem, expectedPath: ""},
		{name: "trims_and_cleans", input: "  /srv/repos/./team/ \t", operatingSystem: testLinuxOperatingSystem, expectedPath: "/srv/repos/team"},
		{name: "expands_bare_tilde", input: "~", operatingSystem: testLinuxOperatingSystem, expectedPath: testHomeDirectoryConstant},
		{name: "expands_tilde_prefix", input: "~/Projects", operatingSystem: testLinuxOperatingSystem, expectedPath: testHomeDirectoryConstant + "/Projects"},
		{name: "leaves_other_users_alone", input: "~other/Projects", operatingSystem: testLinuxOperatingSystem, expectedPath: "~other/Projects"},
		{name: "windows_path_prefers_wsl_mount", input: `C:\Users\me`, mounts: []string{"/mnt/c", "/c"}, operatingSystem: testLinuxOperatingSystem, expectedPath: "/mnt/c/Users/me"},
		{name: "windows_path_falls_back_to_msys_mount", input: `d:/work/src`, mounts: []string{"/d"}, operatingSystem: testLinuxOperatingSystem, expectedPath: "/d/work/src"},
		{name: "windows_drive_root", input: `E:`, mounts: []string{"/mnt/e"}, operatingSystem: testLinuxOperatingSystem, expectedPath: "/mnt/e"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolver := pathutils.NewFolderResolverWithDependencies(staticHome, statWithDirectories(testCase.mounts...), testCase.operatingSystem)

			resolvedPath, resolveError := resolver.Resolve(testCase.input)
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}

func TestFolderResolverRejectsUnmountedDrive(testInstance *testing.T) {
	resolver := pathutils.NewFolderResolverWithDependencies(staticHome, statWithDirectories(), testLinuxOperatingSystem)

	_, resolveError := resolver.Resolve(`C:\Users\me`)
	require.ErrorIs(testInstance, resolveError, pathutils.ErrNoDriveMount)
	require.EqualError(testInstance, resolveError, testNoMountErrorExpectation)
}

func TestFolderResolverKeepsDrivePathsOnWindows(testInstance *testing.T) {
	resolver := pathutils.NewFolderResolverWithDependencies(staticHome, statWithDirectories(), testWindowsOperatingSystem)

	resolvedPath, resolveError := resolver.Resolve(`C:\Users\me`)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Clean(`C:\Users\me`), resolvedPath)
}

func TestFolderResolverIgnoresHomeLookupFailures(testInstance *testing.T) {
	failingHome := func() (string, error) { return "", errors.New("no home") }
	resolver := pathutils.NewFolderResolverWithDependencies(failingHome, nil, testLinuxOperatingSystem)

	resolvedPath, resolveError := resolver.Resolve("~/Projects")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "~/Projects", resolvedPath)
}
