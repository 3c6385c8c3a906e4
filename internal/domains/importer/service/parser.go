package service

import (
	"path/filepath"
	"strings"

	"smallbiz-backend/internal/domains/importer/model"
)

// ParseFile dispatches on the file extension and parses delimited text
// into headers plus ordered rows. Spreadsheet formats are rejected with
// a directive to re-export as CSV; anything else is unsupported.
func ParseFile(fileName string, content []byte) (*model.ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return parseCSV(content)
	case ".xlsx", ".xls":
		return nil, model.ErrSpreadsheetNotSupported
	default:
		return nil, model.ErrUnsupportedFormat
	}
}

// parseCSV is a deliberately naive parser: lines split on newline,
// fields split on comma, each field trimmed and stripped of one layer of
// surrounding double quotes. Embedded commas or newlines inside quoted
// fields are not handled; this matches the documented template format.
func parseCSV(content []byte) (*model.ParsedFile, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var rows []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) < 2 {
		return nil, model.ErrEmptyFile
	}

	headers := splitCSVLine(rows[0])
	parsed := &model.ParsedFile{Headers: headers}

	for i, line := range rows[1:] {
		cells := splitCSVLine(line)
		row := model.ParsedRow{Number: i + 1}
		for j, header := range headers {
			value := ""
			if j < len(cells) {
				value = cells[j]
			}
			row.Fields = append(row.Fields, model.ParsedField{Header: header, Value: value})
		}
		parsed.Rows = append(parsed.Rows, row)
	}

	return parsed, nil
}

func splitCSVLine(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, part := range parts {
		fields[i] = stripQuotes(strings.TrimSpace(part))
	}
	return fields
}

// stripQuotes removes a single layer of surrounding double quotes and
// collapses doubled quotes inside it.
func stripQuotes(field string) string {
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		inner := field[1 : len(field)-1]
		return strings.ReplaceAll(inner, `""`, `"`)
	}
	return field
}
