package settings

import (
	"os"
	"path/filepath"

	"github.com/ralt/m2settings/internal/models"
)

// Locations are the well-known settings document paths for one resolution pass
type Locations struct {
	GlobalSettings   string
	UserSettings     string
	SecuritySettings string
}

// DefaultLocations derives the document paths from the environment.
// The global document lives under $M2_HOME (or $MAVEN_HOME), the user and
// security documents under ~/.m2.
func DefaultLocations() Locations {
	var loc Locations

	mavenHome := os.Getenv("M2_HOME")
	if mavenHome == "" {
		mavenHome = os.Getenv("MAVEN_HOME")
	}
	if mavenHome != "" {
		loc.GlobalSettings = filepath.Join(mavenHome, "conf", "settings.xml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		m2 := filepath.Join(home, ".m2")
		loc.UserSettings = filepath.Join(m2, "settings.xml")
		loc.SecuritySettings = filepath.Join(m2, "settings-security.xml")
	}

	return loc
}

// LocalRepository returns the local cache directory: the document value when
// set, otherwise ~/.m2/repository.
func LocalRepository(s *models.Settings) string {
	if s != nil && s.LocalRepository != "" {
		return s.LocalRepository
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}
