package settings

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/m2settings/internal/pbe"
	"github.com/sirupsen/logrus"
)

const maxRelocations = 8

// SecuritySettings is the master-password store
type SecuritySettings struct {
	XMLName    xml.Name `xml:"settingsSecurity"`
	Master     string   `xml:"master,omitempty"`
	Relocation string   `xml:"relocation,omitempty"`
}

// ReadSecuritySettings reads a settings-security document, following
// relocation entries. It returns nil and no error when the file does not exist.
func ReadSecuritySettings(path string) (*SecuritySettings, error) {
	for depth := 0; depth <= maxRelocations; depth++ {
		if path == "" {
			return nil, nil
		}

		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat security settings: %w", err)
		}
		if info.IsDir() {
			return nil, nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read security settings: %w", err)
		}

		var sec SecuritySettings
		if err := xml.Unmarshal(data, &sec); err != nil {
			return nil, fmt.Errorf("failed to parse security settings %s: %w", path, err)
		}

		relocation := strings.TrimSpace(sec.Relocation)
		if relocation == "" {
			return &sec, nil
		}

		if !filepath.IsAbs(relocation) {
			relocation = filepath.Join(filepath.Dir(path), relocation)
		}
		logrus.Debugf("Security settings %s relocated to %s", path, relocation)
		path = relocation
	}

	return nil, fmt.Errorf("too many security settings relocations")
}

// MasterPassword decrypts the master password held by the document
func (s *SecuritySettings) MasterPassword(c *pbe.Cipher) (string, error) {
	master := strings.TrimSpace(s.Master)
	if master == "" {
		return "", fmt.Errorf("security settings declare no master password")
	}
	if !pbe.IsEncrypted(master) {
		return master, nil
	}
	clear, err := c.DecryptDecorated(master, pbe.SecurityMasterKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt master password: %w", err)
	}
	return clear, nil
}
