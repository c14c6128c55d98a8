package credentials

import (
	"encoding/xml"
	"testing"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/repository"
)

func TestInject(t *testing.T) {
	internal := repository.NewMavenEntry("internal", "https://nexus.example.com")
	partial := repository.NewMavenEntry("partial", "https://partial.example.com")
	untouched := repository.NewMavenEntry("untouched", "https://other.example.com")
	untouched.SetCredentials(models.Credentials{Username: "keep", Password: "me"})

	repos := repository.NewList(internal, partial, untouched, repository.NewFlatDirEntry("internal-libs", "lib"))
	servers := []models.Server{
		{ID: "internal", Username: "ci", Password: "token"},
		{ID: "internal", Username: "second", Password: "ignored"},
		{ID: "partial", Username: "nopassword"},
		{ID: "internal-libs", Username: "x", Password: "y"},
	}

	Inject(servers, repos)

	if c := internal.Credentials(); c.Username != "ci" || c.Password != "token" {
		t.Errorf("internal credentials = %+v", c)
	}
	if c := partial.Credentials(); !c.IsZero() {
		t.Errorf("partial server should not set credentials, got %+v", c)
	}
	if c := untouched.Credentials(); c.Username != "keep" {
		t.Errorf("credentials without a server were changed: %+v", c)
	}
}

func TestInjectIsIdempotent(t *testing.T) {
	entry := repository.NewMavenEntry("internal", "https://nexus.example.com")
	repos := repository.NewList(entry)
	servers := []models.Server{{ID: "internal", Username: "ci", Password: "token"}}

	Inject(servers, repos)
	first := entry.Credentials()
	Inject(servers, repos)

	if entry.Credentials() != first {
		t.Errorf("second injection changed credentials: %+v -> %+v", first, entry.Credentials())
	}
	if repos.Len() != 1 {
		t.Errorf("injection changed the collection: %v", repos.Names())
	}
}

func TestInjectOverwritesExisting(t *testing.T) {
	entry := repository.NewMavenEntry("internal", "https://nexus.example.com")
	entry.SetCredentials(models.Credentials{Username: "old", Password: "old"})

	Inject([]models.Server{{ID: "internal", Username: "new", Password: "new"}}, repository.NewList(entry))

	if c := entry.Credentials(); c.Username != "new" || c.Password != "new" {
		t.Errorf("credentials = %+v, want new/new", c)
	}
}

func TestInjectEmptyDeclaredPassword(t *testing.T) {
	var server models.Server
	if err := xml.Unmarshal([]byte(`<server><id>internal</id><username>ci</username><password></password></server>`), &server); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	entry := repository.NewMavenEntry("internal", "https://nexus.example.com")
	Inject([]models.Server{server}, repository.NewList(entry))

	if c := entry.Credentials(); c.Username != "ci" || c.Password != "" {
		t.Errorf("credentials = %+v, want ci with an empty password", c)
	}
}
