package settings

import (
	"fmt"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/pbe"
	"github.com/sirupsen/logrus"
)

// Loader builds effective settings from the global and user documents
type Loader struct {
	locations  Locations
	properties map[string]string
	cipher     *pbe.Cipher
}

// Option configures a Loader
type Option func(*Loader)

// WithProperties sets the properties available to ${...} interpolation
func WithProperties(props map[string]string) Option {
	return func(l *Loader) {
		for k, v := range props {
			l.properties[k] = v
		}
	}
}

// NewLoader creates a loader for the given document locations
func NewLoader(locations Locations, opts ...Option) *Loader {
	l := &Loader{
		locations:  locations,
		properties: DefaultProperties(),
		cipher:     pbe.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and merges the global and user documents and decrypts
// server and proxy credentials in place. An empty userSettings path falls
// back to the user document of the loader's locations.
func (l *Loader) Load(userSettings string) (*models.Settings, error) {
	if userSettings == "" {
		userSettings = l.locations.UserSettings
	}

	logrus.Debugf("Reading global settings from %s", l.locations.GlobalSettings)
	global, err := readDocument(l.locations.GlobalSettings, l.properties)
	if err != nil {
		return nil, &models.SettingsError{
			Type: models.ErrSettingsLoad,
			Path: l.locations.GlobalSettings,
			Err:  err,
		}
	}

	logrus.Debugf("Reading user settings from %s", userSettings)
	user, err := readDocument(userSettings, l.properties)
	if err != nil {
		return nil, &models.SettingsError{
			Type: models.ErrSettingsLoad,
			Path: userSettings,
			Err:  err,
		}
	}

	effective := merge(user, global)

	for _, problem := range Validate(effective) {
		if problem.Severity == SeverityError {
			return nil, &models.SettingsError{
				Type: models.ErrSettingsLoad,
				Path: userSettings,
				Err:  fmt.Errorf("invalid settings: %s", problem.Message),
			}
		}
		logrus.Warnf("Settings %s", problem)
	}

	if err := l.decryptCredentials(effective); err != nil {
		return nil, &models.SettingsError{
			Type: models.ErrCredentialDecryption,
			Path: l.locations.SecuritySettings,
			Err:  err,
		}
	}

	return effective, nil
}

func (l *Loader) decryptCredentials(s *models.Settings) error {
	var fields []*string
	for i := range s.Servers {
		fields = append(fields, &s.Servers[i].Password, &s.Servers[i].Passphrase)
	}
	for i := range s.Proxies {
		fields = append(fields, &s.Proxies[i].Password)
	}

	encrypted := false
	for _, f := range fields {
		if pbe.IsEncrypted(*f) {
			encrypted = true
			break
		}
	}
	if !encrypted {
		return nil
	}

	sec, err := ReadSecuritySettings(l.locations.SecuritySettings)
	if err != nil {
		return fmt.Errorf("unable to decrypt local Maven settings credentials: %w", err)
	}
	if sec == nil {
		return fmt.Errorf("encrypted credential with no security config")
	}

	master, err := sec.MasterPassword(l.cipher)
	if err != nil {
		return fmt.Errorf("unable to decrypt local Maven settings credentials: %w", err)
	}

	for _, f := range fields {
		if !pbe.IsEncrypted(*f) {
			continue
		}
		clear, err := l.cipher.DecryptDecorated(*f, master)
		if err != nil {
			return fmt.Errorf("unable to decrypt local Maven settings credentials: %w", err)
		}
		*f = clear
	}

	return nil
}
