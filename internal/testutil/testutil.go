// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"os/exec"
	"runtime"
	"testing"
)

// HelperProcessEnv is the environment variable that switches a test binary
// into helper-process mode. See HelperCommand.
const HelperProcessEnv = "CODESUBMIT_WANT_HELPER_PROCESS"

// MustSetenv sets the environment variable key to value for the duration of
// the test and restores the original value (or unsets it) on cleanup.
func MustSetenv(t testing.TB, key, value string) {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
			return
		}
		if err := os.Unsetenv(key); err != nil {
			t.Errorf("failed to unset env %s: %v", key, err)
		}
	})
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes data to path with 0o644 permissions.
// The test fails immediately if the write fails.
func MustWriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustClose closes the given io.Closer.
// The test fails immediately if the close fails.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}

// HelperCommand returns argv that re-executes the running test binary so that
// only TestHelperProcess runs, with mode and args after "--". The calling
// package must define TestHelperProcess and the child must see
// HelperProcessEnv=1 in its environment.
//
//	func TestHelperProcess(t *testing.T) {
//		mode, args, ok := testutil.HelperArgs()
//		if !ok {
//			return
//		}
//		...
//		os.Exit(0)
//	}
func HelperCommand(mode string, args ...string) []string {
	argv := []string{os.Args[0], "-test.run=^TestHelperProcess$", "--", mode}
	return append(argv, args...)
}

// HelperArgs returns the mode and arguments passed through HelperCommand.
// ok is false when the binary is not running as a helper process.
func HelperArgs() (mode string, args []string, ok bool) {
	if os.Getenv(HelperProcessEnv) != "1" {
		return "", nil, false
	}
	argv := os.Args
	for i, a := range argv {
		if a == "--" {
			argv = argv[i+1:]
			break
		}
	}
	if len(argv) == 0 {
		return "", nil, false
	}
	return argv[0], argv[1:], true
}

// RequireShell skips the test when no POSIX sh is available.
func RequireShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}
