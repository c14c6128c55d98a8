package repository

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ralt/m2settings/internal/models"
	"gopkg.in/yaml.v3"
)

const maskedPassword = "********"

// Declaration is the serialised form of a repository entry
type Declaration struct {
	Name        string              `yaml:"name"`
	Kind        Kind                `yaml:"kind,omitempty"`
	URL         string              `yaml:"url,omitempty"`
	Dirs        []string            `yaml:"dirs,omitempty"`
	Credentials *models.Credentials `yaml:"credentials,omitempty"`
}

// Document is a YAML file listing repository declarations
type Document struct {
	Repositories []Declaration `yaml:"repositories"`
}

// LoadFile reads a repositories document
func LoadFile(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a repositories document into a list
func Parse(data []byte) (*List, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return NewList(), nil
		}
		return nil, fmt.Errorf("failed to parse repositories: %w", err)
	}

	list := NewList()
	for i, d := range doc.Repositories {
		if d.Name == "" {
			return nil, fmt.Errorf("repositories[%d]: name is required", i)
		}
		if _, exists := list.Lookup(d.Name); exists {
			return nil, fmt.Errorf("repositories[%d]: duplicate name %s", i, d.Name)
		}

		switch d.Kind {
		case "", KindMaven:
			if d.URL == "" {
				return nil, fmt.Errorf("repositories[%d]: url is required for %s", i, d.Name)
			}
			entry := NewMavenEntry(d.Name, d.URL)
			if d.Credentials != nil {
				entry.SetCredentials(*d.Credentials)
			}
			list.Add(entry)
		case KindFlatDir:
			list.Add(NewFlatDirEntry(d.Name, d.Dirs...))
		default:
			return nil, fmt.Errorf("repositories[%d]: unknown kind %q", i, d.Kind)
		}
	}

	return list, nil
}

// Declarations converts the list back into its serialised form. Passwords are
// masked unless showCredentials is set.
func Declarations(l *List, showCredentials bool) []Declaration {
	out := make([]Declaration, 0, l.Len())
	for _, r := range l.Repositories() {
		switch e := r.(type) {
		case models.MavenRepository:
			d := Declaration{Name: e.Name(), Kind: KindMaven, URL: e.URL()}
			if c := e.Credentials(); !c.IsZero() {
				if !showCredentials {
					c.Password = maskedPassword
				}
				d.Credentials = &c
			}
			out = append(out, d)
		case *FlatDirEntry:
			out = append(out, Declaration{Name: e.Name(), Kind: KindFlatDir, Dirs: e.Dirs()})
		default:
			out = append(out, Declaration{Name: r.Name()})
		}
	}
	return out
}

// Marshal encodes the list as a repositories document
func Marshal(l *List, showCredentials bool) ([]byte, error) {
	return yaml.Marshal(Document{Repositories: Declarations(l, showCredentials)})
}
