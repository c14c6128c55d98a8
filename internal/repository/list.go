// Package repository provides an ordered, in-memory repository collection and
// property sink for callers of the resolution engine.
package repository

import (
	"path/filepath"
	"sort"

	"github.com/ralt/m2settings/internal/models"
)

// Well-known declaration names
const (
	MavenLocalName   = "MavenLocal"
	MavenCentralName = "MavenRepo"
	MavenCentralURL  = "https://repo.maven.apache.org/maven2/"
)

// Kind of a repository declaration
type Kind string

const (
	KindMaven   Kind = "maven"
	KindFlatDir Kind = "flat"
)

// MavenEntry is a Maven layout repository
type MavenEntry struct {
	name        string
	url         string
	credentials models.Credentials
}

// NewMavenEntry creates a Maven repository declaration
func NewMavenEntry(name, url string) *MavenEntry {
	return &MavenEntry{name: name, url: url}
}

func (m *MavenEntry) Name() string                        { return m.name }
func (m *MavenEntry) URL() string                         { return m.url }
func (m *MavenEntry) Credentials() models.Credentials     { return m.credentials }
func (m *MavenEntry) SetCredentials(c models.Credentials) { m.credentials = c }

// FlatDirEntry is a flat directory repository; it has no URL and never
// carries credentials
type FlatDirEntry struct {
	name string
	dirs []string
}

// NewFlatDirEntry creates a flat directory declaration
func NewFlatDirEntry(name string, dirs ...string) *FlatDirEntry {
	return &FlatDirEntry{name: name, dirs: dirs}
}

func (f *FlatDirEntry) Name() string   { return f.name }
func (f *FlatDirEntry) Dirs() []string { return f.dirs }

// List is an ordered repository collection. It is not safe for concurrent use.
type List struct {
	entries []models.Repository
}

// NewList creates a list holding the given entries in order
func NewList(entries ...models.Repository) *List {
	return &List{entries: append([]models.Repository(nil), entries...)}
}

// Repositories returns a snapshot of the entries
func (l *List) Repositories() []models.Repository {
	return append([]models.Repository(nil), l.entries...)
}

// Lookup returns the first entry with the given name
func (l *List) Lookup(name string) (models.Repository, bool) {
	for _, e := range l.entries {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

// Add appends an entry
func (l *List) Add(r models.Repository) {
	l.entries = append(l.entries, r)
}

// AddMaven appends a new Maven repository
func (l *List) AddMaven(name, url string) models.MavenRepository {
	entry := NewMavenEntry(name, url)
	l.entries = append(l.entries, entry)
	return entry
}

// Remove deletes the entry, compared by identity
func (l *List) Remove(r models.Repository) {
	for i, e := range l.entries {
		if e == r {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// Names returns the entry names in order
func (l *List) Names() []string {
	names := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		names = append(names, e.Name())
	}
	return names
}

// Len returns the number of entries
func (l *List) Len() int {
	return len(l.entries)
}

// MavenLocalURL returns the url of the local cache declaration
func MavenLocalURL(localRepository string) string {
	return "file://" + filepath.ToSlash(localRepository)
}

// Properties is a map backed property sink
type Properties map[string]string

// Property returns the value for key
func (p Properties) Property(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// SetProperty stores value under key
func (p Properties) SetProperty(key, value string) {
	p[key] = value
}

// Keys returns the keys in sorted order
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
