package profile

import (
	"github.com/ralt/m2settings/internal/models"
	"github.com/sirupsen/logrus"
)

// Context carries the environment profile predicates are evaluated against
type Context struct {
	// ProjectDir anchors relative file activation paths
	ProjectDir string

	// SystemProperties such as java.version and os.name
	SystemProperties map[string]string

	// UserProperties take precedence over system properties for property
	// activation. Only populated when the caller opts in.
	UserProperties map[string]string

	// InactiveProfileIDs are never activated, whatever else applies
	InactiveProfileIDs []string
}

// Predicate is one kind of activation rule
type Predicate interface {
	// Name identifies the predicate in log output
	Name() string

	// Present reports whether the activation declares this kind of rule
	Present(a *models.Activation) bool

	// Match evaluates the rule. Malformed rules evaluate to false.
	Match(a *models.Activation, ctx Context) bool
}

// Activator selects the active profiles of a settings document
type Activator struct {
	predicates []Predicate
}

// Option configures an Activator
type Option func(*Activator)

// WithPredicates replaces the predicate set
func WithPredicates(predicates ...Predicate) Option {
	return func(a *Activator) {
		a.predicates = predicates
	}
}

// NewActivator creates an activator with the JDK, OS, property and file predicates
func NewActivator(opts ...Option) *Activator {
	a := &Activator{
		predicates: []Predicate{
			JDKPredicate{},
			OSPredicate{},
			PropertyPredicate{},
			FilePredicate{},
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Activate returns the active profiles in declaration order. A profile is
// active when its id was requested explicitly or by the document, or when any
// declared predicate matches. Profiles marked activeByDefault are used only if
// nothing else is active.
func (a *Activator) Activate(s *models.Settings, explicitIDs []string, ctx Context) []models.Profile {
	candidates := make(map[string]bool)
	for _, id := range explicitIDs {
		candidates[id] = true
	}
	for _, id := range s.ActiveProfiles {
		candidates[id] = true
	}

	inactive := make(map[string]bool)
	for _, id := range ctx.InactiveProfileIDs {
		inactive[id] = true
	}

	seen := make(map[string]bool)
	var active, byDefault []models.Profile

	for _, p := range s.Profiles {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		if inactive[p.ID] {
			logrus.Debugf("Profile %s explicitly deactivated", p.ID)
			continue
		}

		switch {
		case candidates[p.ID]:
			logrus.Debugf("Profile %s activated by id", p.ID)
			active = append(active, p)
		case a.matches(p, ctx):
			active = append(active, p)
		case p.Activation != nil && p.Activation.ActiveByDefault:
			byDefault = append(byDefault, p)
		}
	}

	if len(active) == 0 {
		for _, p := range byDefault {
			logrus.Debugf("Profile %s activated by default", p.ID)
		}
		return byDefault
	}

	return active
}

func (a *Activator) matches(p models.Profile, ctx Context) bool {
	if p.Activation.IsEmpty() {
		return false
	}
	for _, pred := range a.predicates {
		if !pred.Present(p.Activation) {
			continue
		}
		if pred.Match(p.Activation, ctx) {
			logrus.Debugf("Profile %s activated by %s", p.ID, pred.Name())
			return true
		}
	}
	return false
}

// IDs returns the ids of the given profiles
func IDs(profiles []models.Profile) []string {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
