package model

import "smallbiz-backend/internal/domains/importer/schema"

// ParsedFile is the output of the delimited-text parser: the raw header
// row plus every data row as an ordered sequence of (header, value)
// pairs. Nothing is typed at this stage; normalization and coercion
// happen downstream so that both use the same alias table.
type ParsedFile struct {
	Headers []string
	Rows    []ParsedRow
}

// ParsedRow is one data row. Number is 1-based over data rows.
type ParsedRow struct {
	Number int
	Fields []ParsedField
}

// ParsedField is one cell, keyed by its original header text.
type ParsedField struct {
	Header string
	Value  string
}

// RawMap returns the row keyed by the original header spellings, for
// persistence alongside row errors. First occurrence wins on duplicate
// headers.
func (r ParsedRow) RawMap() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		if _, ok := m[f.Header]; !ok {
			m[f.Header] = f.Value
		}
	}
	return m
}

// CanonicalMap returns the row keyed by canonical field names for the
// given entity type, applying the same alias normalization used during
// header validation. First occurrence wins when two source columns
// normalize onto the same canonical name.
func (r ParsedRow) CanonicalMap(entityType schema.EntityType) map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		key := schema.Normalize(entityType, f.Header)
		if _, ok := m[key]; !ok {
			m[key] = f.Value
		}
	}
	return m
}
