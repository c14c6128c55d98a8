package models

// Credentials is a username/password pair attached to a repository
type Credentials struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// IsZero reports whether no credentials are set
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// Repository is a named entry in a caller-owned repository collection
type Repository interface {
	Name() string
}

// MavenRepository is a Repository addressed by URL that can carry credentials.
// Entries that do not implement it are ignored by mirrors and credential injection.
type MavenRepository interface {
	Repository
	URL() string
	Credentials() Credentials
	SetCredentials(Credentials)
}

// RepositoryCollection is the mutable, caller-owned list of repository declarations
type RepositoryCollection interface {
	// Repositories returns a snapshot of the entries in declaration order
	Repositories() []Repository

	// Lookup returns the entry with the given name
	Lookup(name string) (Repository, bool)

	// AddMaven appends a new Maven repository declaration
	AddMaven(name, url string) MavenRepository

	// Remove deletes the entry from the collection
	Remove(r Repository)
}

// PropertySink receives properties contributed by active profiles
type PropertySink interface {
	Property(key string) (string, bool)
	SetProperty(key, value string)
}
