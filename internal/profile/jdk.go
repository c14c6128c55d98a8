package profile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ralt/m2settings/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
)

// JDKPredicate matches the java.version system property against a prefix
// ("1.8", "!11") or a version range ("[1.8,11)", "(,1.7],[17,)").
type JDKPredicate struct{}

func (JDKPredicate) Name() string { return "jdk" }

func (JDKPredicate) Present(a *models.Activation) bool {
	return a != nil && strings.TrimSpace(a.JDK) != ""
}

func (JDKPredicate) Match(a *models.Activation, ctx Context) bool {
	version, ok := ctx.SystemProperties["java.version"]
	if !ok || version == "" {
		return false
	}
	ok, err := MatchJDK(a.JDK, version)
	if err != nil {
		logrus.Debugf("Ignoring jdk activation %q: %v", a.JDK, err)
		return false
	}
	return ok
}

// MatchJDK evaluates a jdk activation expression against a runtime version
func MatchJDK(expr, version string) (bool, error) {
	expr = strings.TrimSpace(expr)
	reverse := false
	if strings.HasPrefix(expr, "!") {
		reverse = true
		expr = expr[1:]
	}
	if expr == "" {
		return false, fmt.Errorf("empty jdk expression")
	}

	var result bool
	if strings.HasPrefix(expr, "[") || strings.HasPrefix(expr, "(") {
		ranges, err := parseRanges(expr)
		if err != nil {
			return false, err
		}
		v, ok := canonicalVersion(version)
		if !ok {
			return false, fmt.Errorf("unparsable version %q", version)
		}
		for _, r := range ranges {
			if r.contains(v) {
				result = true
				break
			}
		}
	} else {
		result = strings.HasPrefix(version, expr)
	}

	if reverse {
		return !result, nil
	}
	return result, nil
}

type versionRange struct {
	lower, upper         string // canonical semver, empty when unbounded
	lowerIncl, upperIncl bool
}

func (r versionRange) contains(v string) bool {
	if r.lower != "" {
		c := semver.Compare(v, r.lower)
		if c < 0 || (c == 0 && !r.lowerIncl) {
			return false
		}
	}
	if r.upper != "" {
		c := semver.Compare(v, r.upper)
		if c > 0 || (c == 0 && !r.upperIncl) {
			return false
		}
	}
	return true
}

func parseRanges(expr string) ([]versionRange, error) {
	tokens := strings.Split(expr, ",")
	var ranges []versionRange

	for i := 0; i < len(tokens); i++ {
		open := strings.TrimSpace(tokens[i])
		if open == "" {
			return nil, fmt.Errorf("empty range in %q", expr)
		}
		if open[0] != '[' && open[0] != '(' {
			return nil, fmt.Errorf("range must start with [ or ( in %q", expr)
		}

		// Single version: [1.8]
		if len(open) > 1 && strings.HasSuffix(open, "]") {
			v, ok := canonicalVersion(open[1 : len(open)-1])
			if !ok || open[0] != '[' {
				return nil, fmt.Errorf("invalid exact version %q", open)
			}
			ranges = append(ranges, versionRange{lower: v, upper: v, lowerIncl: true, upperIncl: true})
			continue
		}

		if i+1 >= len(tokens) {
			return nil, fmt.Errorf("unterminated range in %q", expr)
		}
		i++
		closing := strings.TrimSpace(tokens[i])
		if closing == "" || (!strings.HasSuffix(closing, "]") && !strings.HasSuffix(closing, ")")) {
			return nil, fmt.Errorf("range must end with ] or ) in %q", expr)
		}

		r := versionRange{
			lowerIncl: open[0] == '[',
			upperIncl: strings.HasSuffix(closing, "]"),
		}
		if lower := strings.TrimSpace(open[1:]); lower != "" {
			v, ok := canonicalVersion(lower)
			if !ok {
				return nil, fmt.Errorf("invalid lower bound %q", lower)
			}
			r.lower = v
		}
		if upper := strings.TrimSpace(closing[:len(closing)-1]); upper != "" {
			v, ok := canonicalVersion(upper)
			if !ok {
				return nil, fmt.Errorf("invalid upper bound %q", upper)
			}
			r.upper = v
		}
		ranges = append(ranges, r)
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("no ranges in %q", expr)
	}
	return ranges, nil
}

// canonicalVersion maps Java style versions (1.8.0_292, 17.0.2, 21-ea) onto
// vMAJOR.MINOR.PATCH using their leading numeric components.
func canonicalVersion(version string) (string, bool) {
	parts := strings.FieldsFunc(strings.TrimSpace(version), func(r rune) bool {
		return r == '.' || r == '-' || r == '_' || r == '+'
	})

	var nums []string
	for _, part := range parts {
		end := strings.IndexFunc(part, func(r rune) bool { return !unicode.IsDigit(r) })
		if end == 0 {
			break
		}
		if end > 0 {
			part = part[:end]
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		nums = append(nums, strconv.Itoa(n))
		if end > 0 || len(nums) == 3 {
			break
		}
	}

	if len(nums) == 0 {
		return "", false
	}
	for len(nums) < 3 {
		nums = append(nums, "0")
	}

	v := "v" + strings.Join(nums, ".")
	return v, semver.IsValid(v)
}
