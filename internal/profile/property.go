package profile

import (
	"strings"

	"github.com/ralt/m2settings/internal/models"
)

// PropertyPredicate matches a user or system property.
//
//	<name>env</name>                  property is set
//	<name>!env</name>                 property is not set
//	<name>env</name><value>ci</value> property equals ci
//	<value>!ci</value>                property differs from ci
type PropertyPredicate struct{}

func (PropertyPredicate) Name() string { return "property" }

func (PropertyPredicate) Present(a *models.Activation) bool {
	return a != nil && a.Property != nil
}

func (PropertyPredicate) Match(a *models.Activation, ctx Context) bool {
	name := strings.TrimSpace(a.Property.Name)
	reverseName := false
	if strings.HasPrefix(name, "!") {
		reverseName = true
		name = name[1:]
	}
	if name == "" {
		return false
	}

	actual, ok := ctx.UserProperties[name]
	if !ok {
		actual, ok = ctx.SystemProperties[name]
	}

	expected := strings.TrimSpace(a.Property.Value)
	if expected != "" {
		reverseValue := false
		if strings.HasPrefix(expected, "!") {
			reverseValue = true
			expected = expected[1:]
		}
		result := ok && expected == actual
		if reverseValue {
			return !result
		}
		return result
	}

	result := ok && actual != ""
	if reverseName {
		return !result
	}
	return result
}
