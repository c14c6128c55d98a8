package settings

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultProperties returns the system properties derived from the process:
// os.* in the form JVMs report them, user.home, user.dir and, when JAVA_HOME
// points at a JDK, java.home and java.version.
func DefaultProperties() map[string]string {
	props := OSProperties()
	if home, err := os.UserHomeDir(); err == nil {
		props["user.home"] = home
	}
	if wd, err := os.Getwd(); err == nil {
		props["user.dir"] = wd
	}
	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		props["java.home"] = javaHome
		if version, err := ReadJavaVersion(javaHome); err == nil {
			props["java.version"] = version
		} else {
			logrus.Debugf("No java.version from %s: %v", javaHome, err)
		}
	}
	return props
}

// OSProperties returns os.name, os.arch and os.version for the running host
func OSProperties() map[string]string {
	props := map[string]string{
		"os.name": javaOSName(runtime.GOOS),
		"os.arch": javaArch(runtime.GOARCH),
	}
	if v := osVersion(); v != "" {
		props["os.version"] = v
	}
	return props
}

// ReadJavaVersion reads JAVA_VERSION from the release file of a JDK
func ReadJavaVersion(javaHome string) (string, error) {
	f, err := os.Open(filepath.Join(javaHome, "release"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.TrimSpace(key) != "JAVA_VERSION" {
			continue
		}
		if value = strings.Trim(strings.TrimSpace(value), `"`); value != "" {
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", os.ErrNotExist
}

func javaOSName(goos string) string {
	switch goos {
	case "darwin":
		return "Mac OS X"
	case "linux", "android":
		return "Linux"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	case "solaris", "illumos":
		return "SunOS"
	case "aix":
		return "AIX"
	case "zos":
		return "z/OS"
	default:
		return goos
	}
}

func javaArch(goarch string) string {
	switch goarch {
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	case "ppc64le":
		return "ppc64le"
	default:
		return goarch
	}
}
