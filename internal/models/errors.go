package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrSettingsLoad ErrorType = iota
	ErrCredentialDecryption
	ErrInvalidConfig
	ErrFileOp
	ErrSigning
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrSettingsLoad:
		return "SettingsLoad"
	case ErrCredentialDecryption:
		return "CredentialDecryption"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrFileOp:
		return "FileOp"
	case ErrSigning:
		return "Signing"
	default:
		return "Unknown"
	}
}

// SettingsError represents an error during a settings resolution pass
type SettingsError struct {
	Type ErrorType
	Path string
	Err  error
}

// Error implements the error interface
func (e *SettingsError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *SettingsError) Unwrap() error {
	return e.Err
}

// IsSettingsLoad reports whether err is a settings document load failure
func IsSettingsLoad(err error) bool {
	return hasType(err, ErrSettingsLoad)
}

// IsCredentialDecryption reports whether err is a credential decryption failure
func IsCredentialDecryption(err error) bool {
	return hasType(err, ErrCredentialDecryption)
}

func hasType(err error, t ErrorType) bool {
	var se *SettingsError
	if !errors.As(err, &se) {
		return false
	}
	return se.Type == t
}
