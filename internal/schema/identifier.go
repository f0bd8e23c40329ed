package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierRe is the allow-list for identifiers this service generates.
// Every identifier is quoted on use, so a leading digit is acceptable.
var identifierRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const maxIdentifierLen = 63 // postgres identifier limit

// ValidateIdentifier checks that name is safe to embed in schema and data
// statements: non-empty, within the engine's length limit, and drawn from the
// alphanumeric + underscore allow-list.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier is required")
	}
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("identifier must be at most %d characters", maxIdentifierLen)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("identifier %q must match [A-Za-z0-9_]+", name)
	}
	return nil
}

// QuoteIdentifier wraps an identifier in double quotes, doubling any embedded
// double-quote characters per standard SQL.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
