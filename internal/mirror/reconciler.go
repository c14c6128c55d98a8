package mirror

import (
	"net"
	"net/url"
	"strings"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/repository"
	"github.com/sirupsen/logrus"
)

// mirrorOf tokens
const (
	tokenAll      = "*"
	tokenExternal = "external:*"
	tokenCentral  = "central"
)

// Category of a mirror; only one category takes effect per pass
type Category int

const (
	CategoryNone Category = iota
	CategoryGlobal
	CategoryExternal
	CategoryCentral
)

// String returns the string representation of Category
func (c Category) String() string {
	switch c {
	case CategoryGlobal:
		return "global"
	case CategoryExternal:
		return "external"
	case CategoryCentral:
		return "central"
	default:
		return "none"
	}
}

// Reconciler substitutes repository declarations with mirrors
type Reconciler struct {
	localName      string
	centralURL     string
	servers        []models.Server
	resolver       HostResolver
	interfaceAddrs func() ([]net.Addr, error)
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithLocalRepositoryName sets the name of the reserved local cache entry
func WithLocalRepositoryName(name string) Option {
	return func(r *Reconciler) {
		r.localName = name
	}
}

// WithCentralURL sets the address a central mirror replaces
func WithCentralURL(u string) Option {
	return func(r *Reconciler) {
		r.centralURL = u
	}
}

// WithServers sets the credential records attached to mirror declarations
func WithServers(servers []models.Server) Option {
	return func(r *Reconciler) {
		r.servers = servers
	}
}

// WithHostResolver replaces the resolver used by external mirrors
func WithHostResolver(resolver HostResolver) Option {
	return func(r *Reconciler) {
		r.resolver = resolver
	}
}

// WithInterfaceAddrs replaces the lookup of local interface addresses
func WithInterfaceAddrs(fn func() ([]net.Addr, error)) Option {
	return func(r *Reconciler) {
		r.interfaceAddrs = fn
	}
}

// NewReconciler creates a reconciler that skips MavenLocal and targets Maven Central
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		localName:      repository.MavenLocalName,
		centralURL:     repository.MavenCentralURL,
		resolver:       NetResolver{},
		interfaceAddrs: net.InterfaceAddrs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Select returns the mirror that takes effect: the first global mirror, else
// the first external mirror, else the first central mirror.
func Select(mirrors []models.Mirror) (*models.Mirror, Category) {
	for _, c := range []struct {
		token    string
		category Category
	}{
		{tokenAll, CategoryGlobal},
		{tokenExternal, CategoryExternal},
		{tokenCentral, CategoryCentral},
	} {
		for i := range mirrors {
			if hasToken(mirrors[i], c.token) {
				return &mirrors[i], c.category
			}
		}
	}
	return nil, CategoryNone
}

// Reconcile applies the selected mirror to repos. Every matching declaration
// is removed and, if any was, a single declaration for the mirror is added.
func (r *Reconciler) Reconcile(mirrors []models.Mirror, repos models.RepositoryCollection) {
	mirror, category := Select(mirrors)
	if mirror == nil {
		return
	}

	logrus.Infof("Found %s mirror %s in settings. Replacing matching repositories with mirror located at %s",
		category, mirror.ID, mirror.URL)

	var predicate func(models.MavenRepository) bool
	switch category {
	case CategoryGlobal:
		predicate = func(models.MavenRepository) bool { return true }
	case CategoryExternal:
		bound := interfaceIPs(r.interfaceAddrs)
		predicate = func(repo models.MavenRepository) bool { return r.isExternal(repo, bound) }
	case CategoryCentral:
		predicate = r.isCentral
	}

	excluded := exclusions(*mirror)

	var removals []models.Repository
	for _, repo := range repos.Repositories() {
		maven, ok := repo.(models.MavenRepository)
		if !ok {
			continue
		}
		if strings.EqualFold(maven.Name(), r.localName) {
			continue
		}
		if sameURL(maven.URL(), mirror.URL) {
			continue
		}
		if excluded[maven.Name()] {
			logrus.Debugf("Repository %s excluded from mirror %s", maven.Name(), mirror.ID)
			continue
		}
		if !predicate(maven) {
			continue
		}
		removals = append(removals, repo)
	}

	if len(removals) == 0 {
		logrus.Debugf("Mirror %s matched no repositories", mirror.ID)
		return
	}

	for _, repo := range removals {
		logrus.Infof("Removing repository %s in favour of mirror %s", repo.Name(), mirror.ID)
		repos.Remove(repo)
	}

	name := mirror.DisplayName()
	if _, exists := repos.Lookup(name); exists {
		logrus.Warnf("Repository %s already declared, not adding mirror %s", name, mirror.ID)
		return
	}

	added := repos.AddMaven(name, mirror.URL)
	for i := range r.servers {
		server := &r.servers[i]
		if server.ID != mirror.ID {
			continue
		}
		if server.HasCredentials() {
			logrus.Infof("Setting credentials for repository - id: %s - url: %s", name, mirror.URL)
			added.SetCredentials(models.Credentials{Username: server.Username, Password: server.Password})
		}
		break
	}
}

// isExternal matches repositories that are neither file based nor hosted on
// this machine. Unresolvable hosts count as external.
func (r *Reconciler) isExternal(repo models.MavenRepository, bound []net.IP) bool {
	u, err := url.Parse(repo.URL())
	if err != nil {
		logrus.Debugf("Ignoring repository %s with malformed url: %v", repo.Name(), err)
		return false
	}
	if strings.EqualFold(u.Scheme, "file") {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}

	ips := []net.IP{net.ParseIP(host)}
	if ips[0] == nil {
		ips, err = r.resolver.LookupIP(host)
		if err != nil {
			logrus.Debugf("Could not resolve %s, treating repository %s as external: %v", host, repo.Name(), err)
			return true
		}
	}

	for _, ip := range ips {
		if isLocalIP(ip, bound) {
			return false
		}
	}
	return true
}

// isCentral matches repositories whose url is a prefix of the central url
func (r *Reconciler) isCentral(repo models.MavenRepository) bool {
	u := repo.URL()
	return u != "" && strings.HasPrefix(r.centralURL, u)
}

func hasToken(m models.Mirror, token string) bool {
	for _, t := range m.Patterns() {
		if t == token {
			return true
		}
	}
	return false
}

func exclusions(m models.Mirror) map[string]bool {
	excluded := make(map[string]bool)
	for _, t := range m.Patterns() {
		if name, ok := strings.CutPrefix(t, "!"); ok && name != "" {
			excluded[name] = true
		}
	}
	return excluded
}

func sameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
