package cassandra

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed schema.cql
var schemaCQL string

var schemaTemplate = template.Must(template.New("schema").Parse(schemaCQL))

// SchemaStatements renders the embedded schema for keyspace and splits it into single CQL statements.
func SchemaStatements(keyspace string) ([]string, error) {
	if keyspace == "" {
		return nil, fmt.Errorf("keyspace is required")
	}
	var b strings.Builder
	if err := schemaTemplate.Execute(&b, struct{ Keyspace string }{keyspace}); err != nil {
		return nil, fmt.Errorf("cannot render schema: %w", err)
	}
	return splitStatements(b.String()), nil
}

// splitStatements splits a CQL script on ";" terminators. Line comments ("--" and "//") are dropped and
// semicolons inside single-quoted literals are kept.
func splitStatements(script string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for _, line := range strings.Split(script, "\n") {
		if !inQuote {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "//") {
				continue
			}
		}
		for _, r := range line {
			switch {
			case r == '\'':
				inQuote = !inQuote
				cur.WriteRune(r)
			case r == ';' && !inQuote:
				flush()
			default:
				cur.WriteRune(r)
			}
		}
		cur.WriteByte('\n')
	}
	flush()
	return out
}
