package settings

import (
	"fmt"
	"strings"

	"github.com/ralt/m2settings/internal/models"
)

// Severity of a validation problem
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Problem is a single validation finding
type Problem struct {
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	if p.Severity == SeverityError {
		return "error: " + p.Message
	}
	return "warning: " + p.Message
}

// Validate checks the structural rules of a settings document
func Validate(s *models.Settings) []Problem {
	var problems []Problem
	add := func(sev Severity, format string, args ...interface{}) {
		problems = append(problems, Problem{Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	serverIDs := make(map[string]bool)
	for i, server := range s.Servers {
		if strings.TrimSpace(server.ID) == "" {
			add(SeverityError, "servers.server[%d].id must not be empty", i)
			continue
		}
		if serverIDs[server.ID] {
			add(SeverityError, "servers.server.id must be unique but found duplicate server with id %s", server.ID)
		}
		serverIDs[server.ID] = true
	}

	for i, mirror := range s.Mirrors {
		if strings.TrimSpace(mirror.ID) == "" {
			add(SeverityError, "mirrors.mirror[%d].id must not be empty", i)
		}
		if strings.TrimSpace(mirror.URL) == "" {
			add(SeverityError, "mirrors.mirror[%s].url is missing", mirror.ID)
		}
		if strings.TrimSpace(mirror.MirrorOf) == "" {
			add(SeverityError, "mirrors.mirror[%s].mirrorOf is missing", mirror.ID)
		}
	}

	profileIDs := make(map[string]bool)
	for _, profile := range s.Profiles {
		if profileIDs[profile.ID] {
			add(SeverityWarning, "profiles.profile.id must be unique but found duplicate profile with id %s", profile.ID)
		}
		profileIDs[profile.ID] = true

		for _, repo := range profile.Repositories {
			if strings.TrimSpace(repo.ID) == "" {
				add(SeverityWarning, "profiles.profile[%s].repositories.repository.id is missing", profile.ID)
			}
			if strings.TrimSpace(repo.URL) == "" {
				add(SeverityWarning, "profiles.profile[%s].repositories.repository[%s].url is missing", profile.ID, repo.ID)
			}
		}

		if a := profile.Activation; a != nil && a.File != nil && a.File.Exists != "" && a.File.Missing != "" {
			add(SeverityWarning, "profiles.profile[%s].activation.file declares both exists and missing", profile.ID)
		}
	}

	return problems
}
