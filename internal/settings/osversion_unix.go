//go:build linux || darwin || freebsd || netbsd || openbsd

package settings

import "golang.org/x/sys/unix"

// osVersion is the kernel release; on darwin that is the Darwin version,
// not the product version.
func osVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
