package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/pbe"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestLoadMergesGlobalAndUser(t *testing.T) {
	tmpDir := t.TempDir()

	globalPath := filepath.Join(tmpDir, "conf", "settings.xml")
	writeFile(t, globalPath, `<settings>
  <localRepository>/global/repo</localRepository>
  <servers>
    <server><id>shared</id><username>global</username><password>g</password></server>
    <server><id>global-only</id><username>g2</username><password>p2</password></server>
  </servers>
  <mirrors>
    <mirror><id>corp</id><url>https://global.example.com</url><mirrorOf>*</mirrorOf></mirror>
  </mirrors>
  <activeProfiles><activeProfile>common</activeProfile><activeProfile>global</activeProfile></activeProfiles>
</settings>`)

	userPath := filepath.Join(tmpDir, "user", "settings.xml")
	writeFile(t, userPath, `<?xml version="1.0" encoding="UTF-8"?>
<settings xmlns="http://maven.apache.org/SETTINGS/1.0.0">
  <servers>
    <server><id>shared</id><username>user</username><password>u</password></server>
  </servers>
  <profiles>
    <profile>
      <id>common</id>
      <properties><foo>bar</foo><empty></empty></properties>
      <repositories>
        <repository><id>extra</id><url>https://repo.example.com/maven</url></repository>
      </repositories>
    </profile>
  </profiles>
  <activeProfiles><activeProfile>common</activeProfile></activeProfiles>
</settings>`)

	loader := NewLoader(Locations{GlobalSettings: globalPath})
	s, err := loader.Load(userPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.LocalRepository != "/global/repo" {
		t.Errorf("LocalRepository = %q, want /global/repo", s.LocalRepository)
	}

	if len(s.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(s.Servers))
	}
	if s.Servers[0].ID != "shared" || s.Servers[0].Username != "user" {
		t.Errorf("user server should dominate: %+v", s.Servers[0])
	}
	if s.Servers[1].ID != "global-only" {
		t.Errorf("global server should be appended: %+v", s.Servers[1])
	}

	if got := strings.Join(s.ActiveProfiles, ","); got != "common,global" {
		t.Errorf("ActiveProfiles = %s, want common,global", got)
	}

	if len(s.Mirrors) != 1 || s.Mirrors[0].ID != "corp" {
		t.Errorf("unexpected mirrors: %+v", s.Mirrors)
	}

	p := s.Profile("common")
	if p == nil {
		t.Fatal("profile common not found")
	}
	if p.Properties["foo"] != "bar" {
		t.Errorf("property foo = %q, want bar", p.Properties["foo"])
	}
	if v, ok := p.Properties["empty"]; !ok || v != "" {
		t.Errorf("property empty = %q (present %v)", v, ok)
	}
	if len(p.Repositories) != 1 || p.Repositories[0].URL != "https://repo.example.com/maven" {
		t.Errorf("unexpected profile repositories: %+v", p.Repositories)
	}
}

func TestLoadMissingDocumentsYieldEmptySettings(t *testing.T) {
	tmpDir := t.TempDir()

	loader := NewLoader(Locations{GlobalSettings: filepath.Join(tmpDir, "nope.xml")})
	s, err := loader.Load(filepath.Join(tmpDir, "missing.xml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Servers) != 0 || len(s.Profiles) != 0 || len(s.Mirrors) != 0 {
		t.Errorf("expected empty settings, got %+v", s)
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	tmpDir := t.TempDir()
	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><servers><server></settings>`)

	_, err := NewLoader(Locations{}).Load(userPath)
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	if !models.IsSettingsLoad(err) {
		t.Errorf("expected settings load error, got %v", err)
	}
}

func TestLoadRejectsInvalidMirror(t *testing.T) {
	tmpDir := t.TempDir()
	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><mirrors><mirror><id>m</id><mirrorOf>*</mirrorOf></mirror></mirrors></settings>`)

	_, err := NewLoader(Locations{}).Load(userPath)
	if !models.IsSettingsLoad(err) {
		t.Fatalf("expected settings load error, got %v", err)
	}
}

func TestLoadInterpolatesExpressions(t *testing.T) {
	tmpDir := t.TempDir()
	userPath := filepath.Join(tmpDir, "settings.xml")
	t.Setenv("M2SETTINGS_TEST_TOKEN", "from-env")
	writeFile(t, userPath, `<settings>
  <localRepository>${user.home}/repo</localRepository>
  <servers><server><id>s</id><username>${env.M2SETTINGS_TEST_TOKEN}</username><password>${unknown}</password></server></servers>
</settings>`)

	loader := NewLoader(Locations{}, WithProperties(map[string]string{"user.home": "/home/tester"}))
	s, err := loader.Load(userPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.LocalRepository != "/home/tester/repo" {
		t.Errorf("LocalRepository = %q", s.LocalRepository)
	}
	if s.Servers[0].Username != "from-env" {
		t.Errorf("Username = %q, want from-env", s.Servers[0].Username)
	}
	if s.Servers[0].Password != "${unknown}" {
		t.Errorf("unknown expression should be kept, got %q", s.Servers[0].Password)
	}
}

func TestLoadDecryptsCredentials(t *testing.T) {
	tmpDir := t.TempDir()
	c := pbe.New()

	encMaster, err := c.EncryptDecorated("master-pw", pbe.SecurityMasterKey)
	if err != nil {
		t.Fatalf("Failed to encrypt master: %v", err)
	}
	encPassword, err := c.EncryptDecorated("s3cret", "master-pw")
	if err != nil {
		t.Fatalf("Failed to encrypt password: %v", err)
	}
	encPassphrase, err := c.EncryptDecorated("phrase", "master-pw")
	if err != nil {
		t.Fatalf("Failed to encrypt passphrase: %v", err)
	}

	securityPath := filepath.Join(tmpDir, "settings-security.xml")
	writeFile(t, securityPath, "<settingsSecurity><master>"+encMaster+"</master></settingsSecurity>")

	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><servers>
  <server><id>corp</id><username>me</username><password>`+encPassword+`</password><passphrase>`+encPassphrase+`</passphrase></server>
  <server><id>plain</id><username>you</username><password>clear</password></server>
</servers></settings>`)

	s, err := NewLoader(Locations{SecuritySettings: securityPath}).Load(userPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	corp := s.Server("corp")
	if corp.Password != "s3cret" {
		t.Errorf("Password = %q, want s3cret", corp.Password)
	}
	if corp.Passphrase != "phrase" {
		t.Errorf("Passphrase = %q, want phrase", corp.Passphrase)
	}
	if s.Server("plain").Password != "clear" {
		t.Errorf("plain password should be untouched")
	}
}

func TestLoadFollowsSecurityRelocation(t *testing.T) {
	tmpDir := t.TempDir()
	c := pbe.New()

	encMaster, _ := c.EncryptDecorated("master-pw", pbe.SecurityMasterKey)
	encPassword, _ := c.EncryptDecorated("s3cret", "master-pw")

	relocated := filepath.Join(tmpDir, "usb", "security.xml")
	writeFile(t, relocated, "<settingsSecurity><master>"+encMaster+"</master></settingsSecurity>")

	securityPath := filepath.Join(tmpDir, "settings-security.xml")
	writeFile(t, securityPath, "<settingsSecurity><relocation>"+relocated+"</relocation></settingsSecurity>")

	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><servers><server><id>corp</id><username>me</username><password>`+encPassword+`</password></server></servers></settings>`)

	s, err := NewLoader(Locations{SecuritySettings: securityPath}).Load(userPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Server("corp").Password != "s3cret" {
		t.Errorf("Password = %q, want s3cret", s.Server("corp").Password)
	}
}

func TestLoadEncryptedWithoutSecurityConfig(t *testing.T) {
	tmpDir := t.TempDir()
	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><servers><server><id>corp</id><username>me</username><password>{COQLCE6DU6GtcS5P=}</password></server></servers></settings>`)

	_, err := NewLoader(Locations{SecuritySettings: filepath.Join(tmpDir, "absent.xml")}).Load(userPath)
	if err == nil {
		t.Fatal("expected error for encrypted credential without security config")
	}
	if !models.IsCredentialDecryption(err) {
		t.Errorf("expected credential decryption error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no security config") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestLoadCorruptMasterPassword(t *testing.T) {
	tmpDir := t.TempDir()

	securityPath := filepath.Join(tmpDir, "settings-security.xml")
	writeFile(t, securityPath, "<settingsSecurity><master>{not-base64!}</master></settingsSecurity>")

	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><servers><server><id>corp</id><username>me</username><password>{abc}</password></server></servers></settings>`)

	_, err := NewLoader(Locations{SecuritySettings: securityPath}).Load(userPath)
	if !models.IsCredentialDecryption(err) {
		t.Fatalf("expected credential decryption error, got %v", err)
	}
}

func TestLoadDecryptsProxyPassword(t *testing.T) {
	tmpDir := t.TempDir()
	c := pbe.New()

	encMaster, err := c.EncryptDecorated("master-pw", pbe.SecurityMasterKey)
	if err != nil {
		t.Fatalf("Failed to encrypt master: %v", err)
	}
	encProxy, err := c.EncryptDecorated("proxy-pw", "master-pw")
	if err != nil {
		t.Fatalf("Failed to encrypt proxy password: %v", err)
	}

	securityPath := filepath.Join(tmpDir, "settings-security.xml")
	writeFile(t, securityPath, "<settingsSecurity><master>"+encMaster+"</master></settingsSecurity>")

	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><proxies>
  <proxy><id>corp</id><host>proxy.example.com</host><port>3128</port><username>me</username><password>`+encProxy+`</password></proxy>
</proxies></settings>`)

	s, err := NewLoader(Locations{SecuritySettings: securityPath}).Load(userPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Proxies) != 1 {
		t.Fatalf("expected 1 proxy, got %d", len(s.Proxies))
	}
	if s.Proxies[0].Password != "proxy-pw" {
		t.Errorf("proxy Password = %q, want proxy-pw", s.Proxies[0].Password)
	}
}

func TestLoadWrongMasterPassword(t *testing.T) {
	tmpDir := t.TempDir()
	c := pbe.New()

	encMaster, err := c.EncryptDecorated("master-pw", pbe.SecurityMasterKey)
	if err != nil {
		t.Fatalf("Failed to encrypt master: %v", err)
	}
	// Valid token, but encrypted under a different master
	encPassword, err := c.EncryptDecorated("s3cret", "another-master")
	if err != nil {
		t.Fatalf("Failed to encrypt password: %v", err)
	}

	securityPath := filepath.Join(tmpDir, "settings-security.xml")
	writeFile(t, securityPath, "<settingsSecurity><master>"+encMaster+"</master></settingsSecurity>")

	userPath := filepath.Join(tmpDir, "settings.xml")
	writeFile(t, userPath, `<settings><servers><server><id>corp</id><username>me</username><password>`+encPassword+`</password></server></servers></settings>`)

	_, err = NewLoader(Locations{SecuritySettings: securityPath}).Load(userPath)
	if !models.IsCredentialDecryption(err) {
		t.Fatalf("expected credential decryption error, got %v", err)
	}
}
