package cli

import (
	"github.com/ralt/m2settings/internal/engine"
	"github.com/ralt/m2settings/internal/repository"
	"github.com/ralt/m2settings/internal/utils"
	"gopkg.in/yaml.v3"
)

// Report is the YAML document written by the resolve command
type Report struct {
	Sources         []Source                 `yaml:"sources"`
	LocalRepository string                   `yaml:"localRepository,omitempty"`
	ActiveProfiles  []string                 `yaml:"activeProfiles"`
	Properties      map[string]string        `yaml:"properties,omitempty"`
	Repositories    []repository.Declaration `yaml:"repositories"`
}

// Source records a settings document that took part in resolution
type Source struct {
	Role   string `yaml:"role"`
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256,omitempty"`
}

func newReport(sources []Source, result *engine.Result, props repository.Properties, repos *repository.List, showCredentials bool) *Report {
	r := &Report{
		Sources:        sources,
		ActiveProfiles: result.ActiveProfiles,
		Repositories:   repository.Declarations(repos, showCredentials),
	}
	if r.ActiveProfiles == nil {
		r.ActiveProfiles = []string{}
	}
	if result.Settings != nil {
		r.LocalRepository = result.Settings.LocalRepository
	}
	if len(props) > 0 {
		r.Properties = props
	}
	return r
}

// documentSources lists the existing settings documents with their digests
func documentSources(roles map[string]string) []Source {
	var sources []Source
	for _, role := range []string{"global", "user", "security"} {
		path := roles[role]
		if path == "" || !utils.FileExists(path) {
			continue
		}
		s := Source{Role: role, Path: path}
		if sum, err := utils.CalculateSHA256(path); err == nil {
			s.SHA256 = sum
		}
		sources = append(sources, s)
	}
	if sources == nil {
		sources = []Source{}
	}
	return sources
}

func (r *Report) marshal() ([]byte, error) {
	return yaml.Marshal(r)
}
