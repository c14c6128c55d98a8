package profile

import (
	"strings"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/settings"
)

// OSPredicate matches name, family, arch and version of the current
// operating system. Every declared field must match; each may be negated
// with a leading "!".
type OSPredicate struct{}

func (OSPredicate) Name() string { return "os" }

func (OSPredicate) Present(a *models.Activation) bool {
	return a != nil && a.OS != nil
}

func (OSPredicate) Match(a *models.Activation, ctx Context) bool {
	o := a.OS
	if o.Name == "" && o.Family == "" && o.Arch == "" && o.Version == "" {
		return false
	}

	current := currentOS(ctx.SystemProperties)

	if o.Family != "" && !negatable(o.Family, func(v string) bool { return isFamily(v, current) }) {
		return false
	}
	if o.Name != "" && !negatable(o.Name, func(v string) bool { return v == current.name }) {
		return false
	}
	if o.Arch != "" && !negatable(o.Arch, func(v string) bool { return v == current.arch }) {
		return false
	}
	if o.Version != "" && !negatable(o.Version, func(v string) bool { return v == current.version }) {
		return false
	}
	return true
}

type osInfo struct {
	name, arch, version string
	pathSeparator       string
}

// currentOS reads os.* system properties, falling back to the values of
// the running host
func currentOS(props map[string]string) osInfo {
	host := settings.OSProperties()
	value := func(key string) string {
		if v := props[key]; v != "" {
			return strings.ToLower(v)
		}
		return strings.ToLower(host[key])
	}
	info := osInfo{
		name:    value("os.name"),
		arch:    value("os.arch"),
		version: value("os.version"),
	}

	info.pathSeparator = ":"
	if strings.Contains(info.name, "windows") || strings.Contains(info.name, "os/2") {
		info.pathSeparator = ";"
	}
	return info
}

func negatable(expected string, match func(string) bool) bool {
	expected = strings.ToLower(strings.TrimSpace(expected))
	if strings.HasPrefix(expected, "!") {
		return !match(expected[1:])
	}
	return match(expected)
}

func isFamily(family string, info osInfo) bool {
	name := info.name
	switch family {
	case "windows":
		return strings.Contains(name, "windows")
	case "win9x":
		return strings.Contains(name, "windows") &&
			(strings.Contains(name, "95") || strings.Contains(name, "98") ||
				strings.Contains(name, "me") || strings.Contains(name, "ce"))
	case "winnt":
		return strings.Contains(name, "windows") && !isFamily("win9x", info)
	case "os/2":
		return strings.Contains(name, "os/2")
	case "netware":
		return strings.Contains(name, "netware")
	case "dos":
		return info.pathSeparator == ";" && !isFamily("netware", info)
	case "mac":
		return strings.Contains(name, "mac")
	case "tandem":
		return strings.Contains(name, "nonstop_kernel")
	case "unix":
		return info.pathSeparator == ":" && !isFamily("openvms", info) &&
			(!isFamily("mac", info) || strings.HasSuffix(name, "x"))
	case "z/os":
		return strings.Contains(name, "z/os") || strings.Contains(name, "os/390")
	case "os/400":
		return strings.Contains(name, "os/400")
	case "openvms":
		return strings.Contains(name, "openvms")
	default:
		return false
	}
}
