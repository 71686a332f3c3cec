// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir for tests. os.UserHomeDir ignores
// a test-set HOME on some platforms, so fixtures point this at a temp dir
// instead.
var configDirOverride string

// SetConfigDirOverride points config-directory resolution at dir. Test
// use only.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the test override. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}
