package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"smallbiz-backend/internal/domains/importer/model"
	"smallbiz-backend/internal/domains/importer/schema"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// duplicateKeySep joins required-field values into the composite key
// used for duplicate detection.
const duplicateKeySep = "|"

// Validator checks parsed files against an entity schema. It is
// stateless; one instance can serve every import.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateHeaders normalizes each raw header and checks that every
// required canonical field is present. Extra or unrecognized columns are
// never an error. At most one error is returned, listing all missing
// required fields.
func (v *Validator) ValidateHeaders(entityType schema.EntityType, rawHeaders []string) []model.HeaderError {
	required, err := schema.RequiredFields(entityType)
	if err != nil {
		return []model.HeaderError{{
			Type:    model.ErrorTypeMissingHeaders,
			Message: err.Error(),
		}}
	}

	present := make(map[string]bool, len(rawHeaders))
	for _, h := range rawHeaders {
		present[schema.Normalize(entityType, h)] = true
	}

	var missing []string
	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return []model.HeaderError{{
		Type:          model.ErrorTypeMissingHeaders,
		MissingFields: missing,
		Message:       fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
	}}
}

// ValidateRow checks one row: required-field presence, semantic type
// conformity and numeric constraints. Errors reference the row's 1-based
// number and the offending raw value.
func (v *Validator) ValidateRow(entityType schema.EntityType, row model.ParsedRow) []model.RowError {
	ent, err := schema.Get(entityType)
	if err != nil {
		return nil
	}

	values := row.CanonicalMap(entityType)
	var errs []model.RowError

	for _, field := range ent.Fields {
		raw, ok := values[field.Name]
		blank := !ok || strings.TrimSpace(raw) == ""

		if field.Required && blank {
			errs = append(errs, model.RowError{
				Row:     row.Number,
				Field:   field.Name,
				Type:    model.ErrorTypeMissingRequired,
				Message: fmt.Sprintf("%s is required", field.Name),
			})
			continue
		}
		if blank {
			continue
		}

		if typeErr := v.validateType(field, row.Number, raw); typeErr != nil {
			errs = append(errs, *typeErr)
		}
		if constraintErr := v.validateConstraints(field, row.Number, raw); constraintErr != nil {
			errs = append(errs, *constraintErr)
		}
	}

	return errs
}

func (v *Validator) validateType(field schema.Field, rowNum int, raw string) *model.RowError {
	switch field.Type {
	case schema.FieldString:
		return nil
	case schema.FieldNumber:
		if _, ok := CleanNumberValue(raw); !ok {
			return &model.RowError{
				Row:     rowNum,
				Field:   field.Name,
				Type:    model.ErrorTypeInvalidType,
				Value:   raw,
				Message: fmt.Sprintf("%s must be a number", field.Name),
			}
		}
	case schema.FieldEmail:
		if !emailPattern.MatchString(strings.TrimSpace(raw)) {
			return &model.RowError{
				Row:     rowNum,
				Field:   field.Name,
				Type:    model.ErrorTypeInvalidType,
				Value:   raw,
				Message: fmt.Sprintf("%s must be a valid email address", field.Name),
			}
		}
	case schema.FieldDate:
		if _, ok := ParseDate(raw); !ok {
			return &model.RowError{
				Row:     rowNum,
				Field:   field.Name,
				Type:    model.ErrorTypeInvalidType,
				Value:   raw,
				Message: fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field.Name),
			}
		}
	}
	return nil
}

// validateConstraints applies declared min/max bounds. The check only
// fires when the raw, unstripped value parses as a plain number; type
// validation already reports non-numeric values separately.
func (v *Validator) validateConstraints(field schema.Field, rowNum int, raw string) *model.RowError {
	if field.Min == nil && field.Max == nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}

	if field.Min != nil && n < *field.Min {
		return &model.RowError{
			Row:     rowNum,
			Field:   field.Name,
			Type:    model.ErrorTypeConstraintViolation,
			Value:   raw,
			Message: fmt.Sprintf("%s must be at least %g", field.Name, *field.Min),
		}
	}
	if field.Max != nil && n > *field.Max {
		return &model.RowError{
			Row:     rowNum,
			Field:   field.Name,
			Type:    model.ErrorTypeConstraintViolation,
			Value:   raw,
			Message: fmt.Sprintf("%s must be at most %g", field.Name, *field.Max),
		}
	}
	return nil
}

// ValidateFile runs header validation first and short-circuits on
// failure without touching any row. Otherwise it validates every row,
// aggregates all errors and reports duplicate rows as a single
// non-blocking warning.
func (v *Validator) ValidateFile(entityType schema.EntityType, file *model.ParsedFile) *model.ValidationReport {
	report := &model.ValidationReport{TotalRows: len(file.Rows)}

	if headerErrs := v.ValidateHeaders(entityType, file.Headers); len(headerErrs) > 0 {
		report.HeaderErrors = headerErrs
		report.IsValid = false
		return report
	}

	for _, row := range file.Rows {
		report.Errors = append(report.Errors, v.ValidateRow(entityType, row)...)
	}

	if warning := v.detectDuplicates(entityType, file.Rows); warning != nil {
		report.Warnings = append(report.Warnings, *warning)
	}

	report.IsValid = len(report.Errors) == 0

	// Reported formula: total minus errors that are not missing_required.
	// An approximation when multiple error types hit one row; kept as the
	// product documents it.
	nonMissing := 0
	for _, e := range report.Errors {
		if e.Type != model.ErrorTypeMissingRequired {
			nonMissing++
		}
	}
	report.ValidRows = report.TotalRows - nonMissing

	return report
}

// detectDuplicates builds a composite key per row from the raw values of
// all required fields in declaration order. Every row that repeats an
// earlier key is a duplicate; the warning lists all involved rows.
func (v *Validator) detectDuplicates(entityType schema.EntityType, rows []model.ParsedRow) *model.Warning {
	required, err := schema.RequiredFields(entityType)
	if err != nil {
		return nil
	}

	seen := make(map[string][]int)
	order := make([]string, 0)
	for _, row := range rows {
		values := row.CanonicalMap(entityType)
		parts := make([]string, 0, len(required))
		for _, name := range required {
			parts = append(parts, values[name])
		}
		key := strings.Join(parts, duplicateKeySep)
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], row.Number)
	}

	var duplicateRows []int
	for _, key := range order {
		if nums := seen[key]; len(nums) > 1 {
			duplicateRows = append(duplicateRows, nums...)
		}
	}
	if len(duplicateRows) == 0 {
		return nil
	}
	sort.Ints(duplicateRows)

	return &model.Warning{
		Type:    model.WarningTypeDuplicateRows,
		Rows:    duplicateRows,
		Message: fmt.Sprintf("duplicate rows detected: %s", joinInts(duplicateRows)),
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
