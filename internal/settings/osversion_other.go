//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package settings

func osVersion() string {
	return ""
}
