package test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestIntegration builds the binary and resolves settings from a fake home
// directory the way a user would run it
func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	projectRoot, err := getProjectRoot()
	if err != nil {
		t.Fatalf("Failed to find project root: %v", err)
	}

	binDir := t.TempDir()
	t.Log("Building m2settings binary...")
	bin, err := buildM2settings(projectRoot, binDir)
	if err != nil {
		t.Fatalf("Failed to build m2settings: %v", err)
	}

	home := t.TempDir()
	mavenHome := t.TempDir()
	env := append(os.Environ(), "HOME="+home, "M2_HOME="+mavenHome, "MAVEN_HOME=")

	t.Run("EncryptedCredentials", func(t *testing.T) {
		testEncryptedCredentials(t, bin, env, home, mavenHome)
	})
}

func testEncryptedCredentials(t *testing.T, bin string, env []string, home, mavenHome string) {
	m2 := filepath.Join(home, ".m2")
	if err := os.MkdirAll(m2, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", m2, err)
	}

	// Encrypt the master password, then a server password with it
	master := run(t, bin, env, "", "encrypt", "--master", "integration-master")
	writeFile(t, filepath.Join(m2, "settings-security.xml"),
		fmt.Sprintf("<settingsSecurity><master>%s</master></settingsSecurity>", master))
	password := run(t, bin, env, "", "encrypt", "s3cret-token")

	writeFile(t, filepath.Join(mavenHome, "conf", "settings.xml"), `<settings>
  <mirrors>
    <mirror><id>nexus</id><name>Nexus</name><url>https://nexus.example.com/central</url><mirrorOf>central</mirrorOf></mirror>
  </mirrors>
</settings>`)
	writeFile(t, filepath.Join(m2, "settings.xml"), fmt.Sprintf(`<settings>
  <servers>
    <server><id>nexus</id><username>ci</username><password>%s</password></server>
  </servers>
</settings>`, password))

	output := filepath.Join(t.TempDir(), "report.yaml")
	run(t, bin, env, "", "resolve", "--maven-local", "--maven-central", "--show-credentials", "--output", output)

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	report := string(data)

	for _, want := range []string{
		"name: MavenLocal",
		"name: Nexus",
		"url: https://nexus.example.com/central",
		"username: ci",
		"password: s3cret-token",
		"role: global",
		"role: security",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report is missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "name: MavenRepo") {
		t.Errorf("Maven Central should be replaced by the mirror:\n%s", report)
	}

	t.Log("✓ Encrypted credentials test passed")
}

func run(t *testing.T, bin string, env []string, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("m2settings %s failed: %v\nOutput: %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod)")
}

func buildM2settings(projectRoot, outDir string) (string, error) {
	bin := filepath.Join(outDir, "m2settings")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/m2settings")
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return bin, cmd.Run()
}
