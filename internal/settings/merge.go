package settings

import "github.com/ralt/m2settings/internal/models"

// merge folds the recessive (global) document into the dominant (user) one.
// Entries keyed by id are only taken from the recessive side when the dominant
// side does not declare the same id; they are appended after dominant entries.
func merge(dominant, recessive *models.Settings) *models.Settings {
	out := *dominant

	if out.LocalRepository == "" {
		out.LocalRepository = recessive.LocalRepository
	}
	out.Offline = dominant.Offline || recessive.Offline

	out.ActiveProfiles = mergeValues(dominant.ActiveProfiles, recessive.ActiveProfiles)
	out.PluginGroups = mergeValues(dominant.PluginGroups, recessive.PluginGroups)

	out.Servers = mergeByID(dominant.Servers, recessive.Servers, func(s models.Server) string { return s.ID })
	out.Mirrors = mergeByID(dominant.Mirrors, recessive.Mirrors, func(m models.Mirror) string { return m.ID })
	out.Proxies = mergeByID(dominant.Proxies, recessive.Proxies, func(p models.Proxy) string { return p.ID })
	out.Profiles = mergeByID(dominant.Profiles, recessive.Profiles, func(p models.Profile) string { return p.ID })

	return &out
}

func mergeValues(dominant, recessive []string) []string {
	seen := make(map[string]bool, len(dominant))
	out := make([]string, 0, len(dominant)+len(recessive))
	for _, v := range dominant {
		seen[v] = true
		out = append(out, v)
	}
	for _, v := range recessive {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func mergeByID[T any](dominant, recessive []T, id func(T) string) []T {
	seen := make(map[string]bool, len(dominant))
	out := make([]T, 0, len(dominant)+len(recessive))
	for _, v := range dominant {
		seen[id(v)] = true
		out = append(out, v)
	}
	for _, v := range recessive {
		if !seen[id(v)] {
			out = append(out, v)
		}
	}
	return out
}
