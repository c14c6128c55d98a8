package models

import (
	"encoding/xml"
	"sort"
	"strings"
)

// Settings represents an effective Maven settings document
type Settings struct {
	XMLName         xml.Name  `xml:"settings"`
	LocalRepository string    `xml:"localRepository,omitempty"`
	Offline         bool      `xml:"offline,omitempty"`
	PluginGroups    []string  `xml:"pluginGroups>pluginGroup,omitempty"`
	Servers         []Server  `xml:"servers>server,omitempty"`
	Mirrors         []Mirror  `xml:"mirrors>mirror,omitempty"`
	Proxies         []Proxy   `xml:"proxies>proxy,omitempty"`
	Profiles        []Profile `xml:"profiles>profile,omitempty"`
	ActiveProfiles  []string  `xml:"activeProfiles>activeProfile,omitempty"`
}

// Server returns the first server with the given id, or nil
func (s *Settings) Server(id string) *Server {
	for i := range s.Servers {
		if s.Servers[i].ID == id {
			return &s.Servers[i]
		}
	}
	return nil
}

// Profile returns the first profile with the given id, or nil
func (s *Settings) Profile(id string) *Profile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return &s.Profiles[i]
		}
	}
	return nil
}

// Server is a credential record matched to repositories by id
type Server struct {
	ID         string `xml:"id"`
	Username   string `xml:"username,omitempty"`
	Password   string `xml:"password,omitempty"`
	PrivateKey string `xml:"privateKey,omitempty"`
	Passphrase string `xml:"passphrase,omitempty"`

	// Set when the element was present in the document, even if empty
	usernameSet, passwordSet bool
}

// UnmarshalXML records whether username and password were declared
func (s *Server) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var doc struct {
		ID         string  `xml:"id"`
		Username   *string `xml:"username"`
		Password   *string `xml:"password"`
		PrivateKey string  `xml:"privateKey"`
		Passphrase string  `xml:"passphrase"`
	}
	if err := d.DecodeElement(&doc, &start); err != nil {
		return err
	}

	*s = Server{ID: doc.ID, PrivateKey: doc.PrivateKey, Passphrase: doc.Passphrase}
	if doc.Username != nil {
		s.Username, s.usernameSet = *doc.Username, true
	}
	if doc.Password != nil {
		s.Password, s.passwordSet = *doc.Password, true
	}
	return nil
}

// HasCredentials reports whether both username and password are declared.
// An empty <password/> element counts as declared.
func (s *Server) HasCredentials() bool {
	if s == nil {
		return false
	}
	return (s.Username != "" || s.usernameSet) && (s.Password != "" || s.passwordSet)
}

// Mirror redirects a class of repositories to a single endpoint
type Mirror struct {
	ID       string `xml:"id"`
	Name     string `xml:"name,omitempty"`
	URL      string `xml:"url"`
	MirrorOf string `xml:"mirrorOf"`
	Layout   string `xml:"layout,omitempty"`
	Blocked  bool   `xml:"blocked,omitempty"`
}

// DisplayName returns the mirror name, falling back to its id
func (m Mirror) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// Patterns returns the trimmed, non-empty tokens of the mirrorOf expression
func (m Mirror) Patterns() []string {
	var tokens []string
	for _, token := range strings.Split(m.MirrorOf, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Proxy describes an HTTP proxy declaration
type Proxy struct {
	ID            string `xml:"id,omitempty"`
	Active        *bool  `xml:"active,omitempty"`
	Protocol      string `xml:"protocol,omitempty"`
	Host          string `xml:"host"`
	Port          int32  `xml:"port,omitempty"`
	Username      string `xml:"username,omitempty"`
	Password      string `xml:"password,omitempty"`
	NonProxyHosts string `xml:"nonProxyHosts,omitempty"`
}

// IsActive reports whether the proxy is enabled; proxies default to active
func (p Proxy) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Profile is a conditionally activated bundle of properties and repositories
type Profile struct {
	ID                 string          `xml:"id"`
	Activation         *Activation     `xml:"activation,omitempty"`
	Properties         Properties      `xml:"properties,omitempty"`
	Repositories       []RepositoryRef `xml:"repositories>repository,omitempty"`
	PluginRepositories []RepositoryRef `xml:"pluginRepositories>pluginRepository,omitempty"`
}

// RepositoryRef is a repository declared inside a profile
type RepositoryRef struct {
	ID     string `xml:"id"`
	Name   string `xml:"name,omitempty"`
	URL    string `xml:"url"`
	Layout string `xml:"layout,omitempty"`
}

// Activation holds the predicates that switch a profile on
type Activation struct {
	ActiveByDefault bool                `xml:"activeByDefault,omitempty"`
	JDK             string              `xml:"jdk,omitempty"`
	OS              *ActivationOS       `xml:"os,omitempty"`
	Property        *ActivationProperty `xml:"property,omitempty"`
	File            *ActivationFile     `xml:"file,omitempty"`
}

// IsEmpty reports whether no predicate is declared
func (a *Activation) IsEmpty() bool {
	return a == nil ||
		(!a.ActiveByDefault && strings.TrimSpace(a.JDK) == "" &&
			a.OS == nil && a.Property == nil && a.File == nil)
}

// ActivationOS matches the operating system the resolution runs on
type ActivationOS struct {
	Name    string `xml:"name,omitempty"`
	Family  string `xml:"family,omitempty"`
	Arch    string `xml:"arch,omitempty"`
	Version string `xml:"version,omitempty"`
}

// ActivationProperty matches a system or user property
type ActivationProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value,omitempty"`
}

// ActivationFile matches the presence or absence of a path
type ActivationFile struct {
	Exists  string `xml:"exists,omitempty"`
	Missing string `xml:"missing,omitempty"`
}

// Properties is a free-form key/value block whose element names are the keys
type Properties map[string]string

// UnmarshalXML reads <properties><key>value</key>...</properties>
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if *p == nil {
		*p = make(Properties)
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			(*p)[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML writes each property as its own element
func (p Properties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(p) == 0 {
		return nil
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, key := range p.Keys() {
		if err := e.EncodeElement(p[key], xml.StartElement{Name: xml.Name{Local: key}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// Keys returns the property keys in sorted order
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
