// Package config reads the optional TOML configuration file of the resolve
// command and merges it with command line flags.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/ralt/m2settings/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// File is the on-disk configuration
type File struct {
	UserSettings     string            `toml:"user_settings"`
	GlobalSettings   string            `toml:"global_settings"`
	SecuritySettings string            `toml:"security_settings"`
	ActiveProfiles   []string          `toml:"active_profiles"`
	ProjectDir       string            `toml:"project_dir"`
	ExportProperties bool              `toml:"export_properties"`
	Repositories     string            `toml:"repositories"`
	MavenLocal       bool              `toml:"maven_local"`
	MavenCentral     bool              `toml:"maven_central"`
	Output           string            `toml:"output"`
	Properties       map[string]string `toml:"properties"`
}

// binding ties a config key to the flag overriding it
type binding struct {
	key   string
	flag  string
	apply func(f *File, cfg *models.ResolveConfig)
}

var bindings = []binding{
	{"user_settings", "settings", func(f *File, c *models.ResolveConfig) { c.UserSettings = f.UserSettings }},
	{"global_settings", "global-settings", func(f *File, c *models.ResolveConfig) { c.GlobalSettings = f.GlobalSettings }},
	{"security_settings", "security-settings", func(f *File, c *models.ResolveConfig) { c.SecuritySettings = f.SecuritySettings }},
	{"active_profiles", "profiles", func(f *File, c *models.ResolveConfig) { c.ActiveProfiles = f.ActiveProfiles }},
	{"project_dir", "project-dir", func(f *File, c *models.ResolveConfig) { c.ProjectDir = f.ProjectDir }},
	{"export_properties", "export-properties", func(f *File, c *models.ResolveConfig) { c.ExportProperties = f.ExportProperties }},
	{"repositories", "repositories", func(f *File, c *models.ResolveConfig) { c.RepositoriesFile = f.Repositories }},
	{"maven_local", "maven-local", func(f *File, c *models.ResolveConfig) { c.MavenLocal = f.MavenLocal }},
	{"maven_central", "maven-central", func(f *File, c *models.ResolveConfig) { c.MavenCentral = f.MavenCentral }},
	{"output", "output", func(f *File, c *models.ResolveConfig) { c.OutputPath = f.Output }},
}

// Load decodes the configuration file at path
func Load(path string) (*File, toml.MetaData, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, meta, &models.SettingsError{
			Type: models.ErrInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("failed to parse config: %w", err),
		}
	}

	for _, key := range meta.Undecoded() {
		logrus.Warnf("Unknown configuration key %s in %s", key, path)
	}

	return &f, meta, nil
}

// Merge loads the configuration file at path into cfg. Keys defined in the
// file replace defaults; flags changed on the command line win over the file.
// Properties are merged per key with -D definitions taking precedence.
func Merge(path string, cfg *models.ResolveConfig, flags *pflag.FlagSet) error {
	f, meta, err := Load(path)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if !meta.IsDefined(b.key) {
			continue
		}
		if flags != nil && flags.Changed(b.flag) {
			logrus.Debugf("Flag --%s overrides %s from %s", b.flag, b.key, path)
			continue
		}
		b.apply(f, cfg)
	}

	if len(f.Properties) > 0 {
		if cfg.Properties == nil {
			cfg.Properties = make(map[string]string, len(f.Properties))
		}
		for k, v := range f.Properties {
			if _, set := cfg.Properties[k]; !set {
				cfg.Properties[k] = v
			}
		}
	}

	return nil
}
