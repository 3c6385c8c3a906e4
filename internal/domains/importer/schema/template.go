package schema

import "strings"

// RenderTemplate produces the downloadable CSV template for an entity
// type: the canonical header row followed by the sample rows. Fields are
// quoted only when they contain a comma or a quote, with embedded quotes
// doubled.
func RenderTemplate(entityType EntityType) (string, error) {
	ent, err := Get(entityType)
	if err != nil {
		return "", err
	}

	headers := make([]string, 0, len(ent.Fields))
	for _, f := range ent.Fields {
		headers = append(headers, f.Name)
	}

	var b strings.Builder
	writeCSVLine(&b, headers)
	for _, row := range ent.SampleRows {
		writeCSVLine(&b, row)
	}
	return b.String(), nil
}

func writeCSVLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteCSVField(field))
	}
	b.WriteByte('\n')
}

func quoteCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
