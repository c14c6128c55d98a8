// Package engine runs a complete settings resolution pass: load the settings
// documents, activate profiles, apply them, substitute mirrors and attach
// credentials to the caller's repository declarations.
package engine

import (
	"strings"

	"github.com/ralt/m2settings/internal/credentials"
	"github.com/ralt/m2settings/internal/mirror"
	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/profile"
	"github.com/ralt/m2settings/internal/repository"
	"github.com/ralt/m2settings/internal/settings"
	"github.com/sirupsen/logrus"
)

// Request describes one resolution pass
type Request struct {
	Locations settings.Locations

	// UserSettings overrides Locations.UserSettings when set
	UserSettings string

	// Profiles lists requested profile ids; a "!" prefix deactivates
	Profiles []string

	ProjectDir       string
	SystemProperties map[string]string
	UserProperties   map[string]string

	// ExportProperties exposes UserProperties to property activation
	ExportProperties bool

	// MavenLocal and MavenCentral add the well-known declarations when
	// the collection does not already have them
	MavenLocal   bool
	MavenCentral bool

	Repositories models.RepositoryCollection
	Properties   models.PropertySink
}

// Result summarises a resolution pass
type Result struct {
	Settings       *models.Settings
	ActiveProfiles []string
}

// Engine wires the resolution components together
type Engine struct {
	loaderOpts []settings.Option
	mirrorOpts []mirror.Option
	activator  *profile.Activator
}

// Option configures an Engine
type Option func(*Engine)

// WithLoaderOptions passes options to the settings loader
func WithLoaderOptions(opts ...settings.Option) Option {
	return func(e *Engine) {
		e.loaderOpts = append(e.loaderOpts, opts...)
	}
}

// WithMirrorOptions passes options to the mirror reconciler
func WithMirrorOptions(opts ...mirror.Option) Option {
	return func(e *Engine) {
		e.mirrorOpts = append(e.mirrorOpts, opts...)
	}
}

// WithActivator replaces the profile activator
func WithActivator(a *profile.Activator) Option {
	return func(e *Engine) {
		e.activator = a
	}
}

// New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{
		activator: profile.NewActivator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve runs the pass. A load failure is returned before the collection or
// the property sink is touched.
func (e *Engine) Resolve(req Request) (*Result, error) {
	systemProps := req.SystemProperties
	if systemProps == nil {
		systemProps = settings.DefaultProperties()
	}

	interpolation := make(map[string]string, len(systemProps)+len(req.UserProperties))
	for k, v := range systemProps {
		interpolation[k] = v
	}
	for k, v := range req.UserProperties {
		interpolation[k] = v
	}

	loaderOpts := append([]settings.Option{settings.WithProperties(interpolation)}, e.loaderOpts...)
	s, err := settings.NewLoader(req.Locations, loaderOpts...).Load(req.UserSettings)
	if err != nil {
		return nil, err
	}

	repos := req.Repositories
	if repos == nil {
		repos = repository.NewList()
	}
	sink := req.Properties
	if sink == nil {
		sink = repository.Properties{}
	}

	if req.MavenLocal {
		addIfMissing(repos, repository.MavenLocalName, repository.MavenLocalURL(settings.LocalRepository(s)))
	}
	if req.MavenCentral {
		addIfMissing(repos, repository.MavenCentralName, repository.MavenCentralURL)
	}

	explicit, inactive := SplitProfiles(req.Profiles)
	ctx := profile.Context{
		ProjectDir:         req.ProjectDir,
		SystemProperties:   systemProps,
		InactiveProfileIDs: inactive,
	}
	if req.ExportProperties {
		ctx.UserProperties = req.UserProperties
	}

	active := e.activator.Activate(s, explicit, ctx)
	logrus.Infof("Active profiles: [%s]", strings.Join(profile.IDs(active), ", "))

	profile.Apply(active, sink, repos)

	mirrorOpts := append([]mirror.Option{mirror.WithServers(s.Servers)}, e.mirrorOpts...)
	mirror.NewReconciler(mirrorOpts...).Reconcile(s.Mirrors, repos)

	credentials.Inject(s.Servers, repos)

	return &Result{
		Settings:       s,
		ActiveProfiles: profile.IDs(active),
	}, nil
}

// SplitProfiles separates requested profile ids from "!"-prefixed
// deactivations. Blank entries are dropped.
func SplitProfiles(ids []string) (active, inactive []string) {
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if rest, ok := strings.CutPrefix(id, "!"); ok {
			if rest = strings.TrimSpace(rest); rest != "" {
				inactive = append(inactive, rest)
			}
			continue
		}
		if id != "" {
			active = append(active, id)
		}
	}
	return active, inactive
}

func addIfMissing(repos models.RepositoryCollection, name, url string) {
	if _, exists := repos.Lookup(name); exists {
		return
	}
	logrus.Infof("Adding Maven repository - id: %s - url: %s", name, url)
	repos.AddMaven(name, url)
}
