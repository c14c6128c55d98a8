package settings

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/ralt/m2settings/internal/models"
)

var expressionPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// readDocument reads and decodes one settings document.
// A missing file yields an empty document.
func readDocument(path string, props map[string]string) (*models.Settings, error) {
	if path == "" {
		return &models.Settings{}, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &models.Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("settings path is a directory")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	return parseDocument(data, props)
}

// parseDocument interpolates expressions and decodes the XML
func parseDocument(data []byte, props map[string]string) (*models.Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &models.Settings{}, nil
	}

	data = []byte(interpolate(string(data), props))

	var s models.Settings
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return &s, nil
}

// interpolate replaces ${env.NAME} and ${property} expressions.
// Unknown expressions are left untouched.
func interpolate(text string, props map[string]string) string {
	return expressionPattern.ReplaceAllStringFunc(text, func(expr string) string {
		key := strings.TrimSpace(expr[2 : len(expr)-1])
		if name, ok := strings.CutPrefix(key, "env."); ok {
			if value, ok := os.LookupEnv(name); ok {
				return xmlEscape(value)
			}
			return expr
		}
		if value, ok := props[key]; ok {
			return xmlEscape(value)
		}
		return expr
	})
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
