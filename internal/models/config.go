package models

// ResolveConfig contains configuration for a settings resolution run
type ResolveConfig struct {
	// Settings documents
	UserSettings     string
	GlobalSettings   string
	SecuritySettings string

	// Profile activation
	ActiveProfiles   []string // Ids prefixed with "!" are deactivated
	ProjectDir       string
	Properties       map[string]string // User properties passed with -D
	ExportProperties bool              // Expose user properties to property activation

	// Repository declarations
	RepositoriesFile string
	MavenLocal       bool
	MavenCentral     bool

	// Output
	OutputPath      string
	ShowCredentials bool

	// Signing
	GPGKeyPath    string
	GPGPassphrase string
}
