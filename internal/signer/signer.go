// Package signer produces detached OpenPGP signatures for resolution reports.
package signer

import (
	"fmt"
	"os"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/utils"
)

// SignatureExt is appended to the signed file name
const SignatureExt = ".asc"

// Signer signs report data
type Signer interface {
	// SignDetached creates an armored detached signature
	SignDetached(data []byte) ([]byte, error)

	// PublicKey returns the armored public key
	PublicKey() ([]byte, error)
}

// SignFile writes a detached signature of the file at path next to it and
// returns the signature path
func SignFile(s Signer, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &models.SettingsError{
			Type: models.ErrFileOp,
			Path: path,
			Err:  fmt.Errorf("failed to read file to sign: %w", err),
		}
	}

	sig, err := s.SignDetached(data)
	if err != nil {
		return "", &models.SettingsError{
			Type: models.ErrSigning,
			Path: path,
			Err:  err,
		}
	}

	sigPath := path + SignatureExt
	if err := utils.WriteFile(sigPath, sig, 0644); err != nil {
		return "", &models.SettingsError{
			Type: models.ErrFileOp,
			Path: sigPath,
			Err:  fmt.Errorf("failed to write signature: %w", err),
		}
	}

	return sigPath, nil
}
