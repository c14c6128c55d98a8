package profile

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ralt/m2settings/internal/models"
	"github.com/sirupsen/logrus"
)

var pathExpression = regexp.MustCompile(`\$\{([^}]+)\}`)

// FilePredicate matches on the existence (exists) or absence (missing) of a
// path. Relative paths are resolved against the project directory.
type FilePredicate struct{}

func (FilePredicate) Name() string { return "file" }

func (FilePredicate) Present(a *models.Activation) bool {
	return a != nil && a.File != nil
}

func (FilePredicate) Match(a *models.Activation, ctx Context) bool {
	exists := strings.TrimSpace(a.File.Exists)
	missing := strings.TrimSpace(a.File.Missing)

	var path string
	switch {
	case exists != "" && missing != "":
		logrus.Debugf("Ignoring file activation declaring both exists and missing")
		return false
	case exists != "":
		path = exists
	case missing != "":
		path = missing
	default:
		return false
	}

	path, ok := resolvePath(path, ctx)
	if !ok {
		return false
	}

	_, err := os.Stat(path)
	found := err == nil
	if missing != "" {
		return !found
	}
	return found
}

// resolvePath interpolates ${basedir} and properties and anchors relative
// paths at the project directory. Unresolvable expressions fail the match.
func resolvePath(path string, ctx Context) (string, bool) {
	ok := true
	path = pathExpression.ReplaceAllStringFunc(path, func(expr string) string {
		key := expr[2 : len(expr)-1]
		switch key {
		case "basedir", "project.basedir":
			if ctx.ProjectDir == "" {
				ok = false
			}
			return ctx.ProjectDir
		}
		if v, found := ctx.UserProperties[key]; found {
			return v
		}
		if v, found := ctx.SystemProperties[key]; found {
			return v
		}
		if name, env := strings.CutPrefix(key, "env."); env {
			if v, found := os.LookupEnv(name); found {
				return v
			}
		}
		ok = false
		return expr
	})
	if !ok {
		return "", false
	}

	if !filepath.IsAbs(path) {
		if ctx.ProjectDir == "" {
			return "", false
		}
		path = filepath.Join(ctx.ProjectDir, path)
	}
	return filepath.Clean(path), true
}
