// Package schema derives safe column identifiers and unique table names for
// uploaded data sets.
package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReservedIDColumn is the synthetic primary key every provisioned table
// carries. Source headers must not claim it.
const ReservedIDColumn = "id"

// ConflictError reports headers whose sanitized identifiers collide. Columns
// are never silently dropped.
type ConflictError struct {
	Column string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate column after sanitization: %s", e.Column)
}

// PlanColumns sanitizes the raw header labels into ordered column
// identifiers. Characters outside the alphanumeric + underscore allow-list
// become underscores; case and order are preserved. A blank header becomes
// column_N. A header that sanitizes to the reserved id column is suffixed to
// id_1; if two headers then share an identifier, a ConflictError is returned.
func PlanColumns(headers []string) ([]string, error) {
	columns := make([]string, len(headers))
	seen := make(map[string]struct{}, len(headers))

	for idx, header := range headers {
		name := sanitize(header)
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}
		if name == ReservedIDColumn {
			name = ReservedIDColumn + "_1"
		}
		if _, dup := seen[name]; dup {
			return nil, &ConflictError{Column: name}
		}
		seen[name] = struct{}{}
		columns[idx] = name
	}

	return columns, nil
}

func sanitize(header string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(header) {
		switch {
		case r == '_' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if len(name) > maxIdentifierLen {
		name = name[:maxIdentifierLen]
	}
	return name
}

// NewTableName generates a globally unique table name by combining a UTC
// timestamp with a random suffix. Two names generated in the same instant,
// even by different processes, remain distinct.
func NewTableName() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("upload_%s_%s", time.Now().UTC().Format("20060102_150405"), suffix)
}
