// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv),
// file operations (MustMkdirAll, MustWriteFile, MustClose), a FakeClock for
// deterministic timing, and HelperCommand for re-executing the test binary as
// a stand-in child process.
package testutil
