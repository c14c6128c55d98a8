package profile

import (
	"github.com/ralt/m2settings/internal/models"
	"github.com/sirupsen/logrus"
)

// Apply copies the properties and repositories of active profiles into the
// caller's sink and collection. Later profiles overwrite equal property keys.
// A profile repository is only added when no declaration with the same name
// exists; declarations already present always win.
func Apply(profiles []models.Profile, sink models.PropertySink, repos models.RepositoryCollection) {
	if sink != nil {
		for _, p := range profiles {
			for _, key := range p.Properties.Keys() {
				sink.SetProperty(key, p.Properties[key])
			}
		}
	}

	if repos == nil {
		return
	}

	for _, p := range profiles {
		for _, ref := range p.Repositories {
			if ref.ID == "" || ref.URL == "" {
				logrus.Warnf("Skipping repository without id or url in profile %s", p.ID)
				continue
			}
			if _, exists := repos.Lookup(ref.ID); exists {
				logrus.Debugf("Repository %s already defined, keeping existing declaration", ref.ID)
				continue
			}
			logrus.Infof("Adding Maven repository - id: %s - url: %s", ref.ID, ref.URL)
			repos.AddMaven(ref.ID, ref.URL)
		}
	}
}
