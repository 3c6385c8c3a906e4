package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smallbiz-backend/internal/domains/importer/model"
	"smallbiz-backend/internal/domains/importer/schema"
)

func makeFile(headers []string, rows ...[]string) *model.ParsedFile {
	file := &model.ParsedFile{Headers: headers}
	for i, cells := range rows {
		row := model.ParsedRow{Number: i + 1}
		for j, header := range headers {
			value := ""
			if j < len(cells) {
				value = cells[j]
			}
			row.Fields = append(row.Fields, model.ParsedField{Header: header, Value: value})
		}
		file.Rows = append(file.Rows, row)
	}
	return file
}

func TestValidateHeadersMissingRequired(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateHeaders(schema.EntityProducts, []string{"name", "category"})
	require.Len(t, errs, 1)
	assert.Equal(t, model.ErrorTypeMissingHeaders, errs[0].Type)
	assert.Equal(t, []string{"price"}, errs[0].MissingFields)
	assert.Contains(t, errs[0].Message, "price")
}

func TestValidateHeadersAliasSatisfiesRequirement(t *testing.T) {
	v := NewValidator()

	// unit_price normalizes onto price, Product Name onto name
	errs := v.ValidateHeaders(schema.EntityProducts, []string{"Product Name", "unit_price"})
	assert.Empty(t, errs)
}

func TestValidateHeadersIgnoresExtraColumns(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateHeaders(schema.EntityCustomers, []string{"name", "email", "loyalty_tier", "region"})
	assert.Empty(t, errs)
}

func TestValidateHeadersAllMissingListedTogether(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateHeaders(schema.EntityBills, []string{"notes"})
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"customer_name", "total_amount"}, errs[0].MissingFields)
}

func TestValidateRowMissingRequired(t *testing.T) {
	v := NewValidator()
	file := makeFile([]string{"name", "email"}, []string{"", "  "})

	errs := v.ValidateRow(schema.EntityCustomers, file.Rows[0])
	require.Len(t, errs, 2)

	assert.Equal(t, 1, errs[0].Row)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, model.ErrorTypeMissingRequired, errs[0].Type)
	assert.Equal(t, "name is required", errs[0].Message)

	assert.Equal(t, "email", errs[1].Field)
	assert.Equal(t, model.ErrorTypeMissingRequired, errs[1].Type)
}

func TestValidateRowInvalidTypes(t *testing.T) {
	v := NewValidator()

	file := makeFile([]string{"name", "price"}, []string{"Tea", "twelve"})
	errs := v.ValidateRow(schema.EntityProducts, file.Rows[0])
	require.Len(t, errs, 1)
	assert.Equal(t, model.ErrorTypeInvalidType, errs[0].Type)
	assert.Equal(t, "twelve", errs[0].Value)
	assert.Equal(t, "price must be a number", errs[0].Message)

	file = makeFile([]string{"name", "email"}, []string{"Priya", "not-an-email"})
	errs = v.ValidateRow(schema.EntityCustomers, file.Rows[0])
	require.Len(t, errs, 1)
	assert.Equal(t, "email must be a valid email address", errs[0].Message)

	file = makeFile([]string{"customer_name", "total_amount", "due_date"}, []string{"Asha", "100", "soon"})
	errs = v.ValidateRow(schema.EntityBills, file.Rows[0])
	require.Len(t, errs, 1)
	assert.Equal(t, "due_date must be a valid date (YYYY-MM-DD)", errs[0].Message)
}

func TestValidateRowConstraints(t *testing.T) {
	v := NewValidator()

	file := makeFile([]string{"name", "price"}, []string{"Tea", "-5"})
	errs := v.ValidateRow(schema.EntityProducts, file.Rows[0])
	require.Len(t, errs, 1)
	assert.Equal(t, model.ErrorTypeConstraintViolation, errs[0].Type)
	assert.Equal(t, "price must be at least 0", errs[0].Message)
}

func TestValidateRowCurrencyFormattedNumberPasses(t *testing.T) {
	v := NewValidator()

	file := makeFile([]string{"name", "price"}, []string{"Tea", "₹1,234.50"})
	errs := v.ValidateRow(schema.EntityProducts, file.Rows[0])
	assert.Empty(t, errs)
}

func TestValidateFileHeaderFailureShortCircuits(t *testing.T) {
	v := NewValidator()
	file := makeFile([]string{"name"}, []string{""}) // row itself is also bad

	report := v.ValidateFile(schema.EntityProducts, file)
	require.Len(t, report.HeaderErrors, 1)
	assert.False(t, report.IsValid)
	assert.Empty(t, report.Errors, "row validation must not run after header failure")
	assert.Equal(t, 1, report.TotalRows)
}

func TestValidateFileDuplicateWarning(t *testing.T) {
	v := NewValidator()
	file := makeFile([]string{"name", "price"},
		[]string{"Tea", "120"},
		[]string{"Coffee", "200"},
		[]string{"Tea", "120"},
	)

	report := v.ValidateFile(schema.EntityProducts, file)
	assert.True(t, report.IsValid, "duplicates warn, never block")
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, model.WarningTypeDuplicateRows, report.Warnings[0].Type)
	assert.Equal(t, []int{1, 3}, report.Warnings[0].Rows)
	assert.Equal(t, "duplicate rows detected: 1, 3", report.Warnings[0].Message)
}

func TestValidateFileValidRowsFormula(t *testing.T) {
	v := NewValidator()
	file := makeFile([]string{"name", "price"},
		[]string{"Tea", "120"},
		[]string{"", "99"},        // missing_required: does not reduce ValidRows
		[]string{"Coffee", "bad"}, // invalid_type: reduces ValidRows
	)

	report := v.ValidateFile(schema.EntityProducts, file)
	assert.False(t, report.IsValid)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.ValidRows)
	require.Len(t, report.Errors, 2)
}

func TestTemplateRoundTrip(t *testing.T) {
	v := NewValidator()

	for _, entity := range []schema.EntityType{schema.EntityProducts, schema.EntityBills, schema.EntityCustomers} {
		csv, err := schema.RenderTemplate(entity)
		require.NoError(t, err)

		parsed, err := ParseFile(fmt.Sprintf("%s_template.csv", entity), []byte(csv))
		require.NoError(t, err, entity)

		report := v.ValidateFile(entity, parsed)
		assert.True(t, report.IsValid, "template for %s must validate cleanly", entity)
		assert.Empty(t, report.HeaderErrors, entity)
		assert.Empty(t, report.Errors, entity)
		assert.Empty(t, report.Warnings, entity)
		assert.Equal(t, 2, report.ValidRows, entity)
	}
}
