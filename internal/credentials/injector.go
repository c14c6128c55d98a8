// Package credentials attaches server credentials to repository declarations.
package credentials

import (
	"github.com/ralt/m2settings/internal/models"
	"github.com/sirupsen/logrus"
)

// Inject sets the username and password of every Maven repository whose name
// matches the id of a server carrying both. Running it twice yields the same
// result, and it must run after mirror reconciliation so mirror declarations
// are covered too.
func Inject(servers []models.Server, repos models.RepositoryCollection) {
	byID := make(map[string]*models.Server, len(servers))
	for i := range servers {
		// first declaration wins, as in the settings document
		if _, exists := byID[servers[i].ID]; !exists {
			byID[servers[i].ID] = &servers[i]
		}
	}

	for _, repo := range repos.Repositories() {
		maven, ok := repo.(models.MavenRepository)
		if !ok {
			continue
		}

		server, ok := byID[maven.Name()]
		if !ok || !server.HasCredentials() {
			continue
		}

		logrus.Infof("Setting credentials for repository - id: %s - url: %s", maven.Name(), maven.URL())
		maven.SetCredentials(models.Credentials{
			Username: server.Username,
			Password: server.Password,
		})
	}
}
