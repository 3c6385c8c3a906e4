package schema

import (
	"errors"
	"strings"
)

// ErrUnknownEntityType is returned for any entity type outside the
// supported set (products, bills, customers).
var ErrUnknownEntityType = errors.New("unknown entity type")

// EntityType identifies which target table an import file is meant for.
type EntityType string

const (
	EntityProducts  EntityType = "products"
	EntityBills     EntityType = "bills"
	EntityCustomers EntityType = "customers"
)

// ParseEntityType validates a raw entity type string.
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(strings.ToLower(strings.TrimSpace(raw))) {
	case EntityProducts:
		return EntityProducts, nil
	case EntityBills:
		return EntityBills, nil
	case EntityCustomers:
		return EntityCustomers, nil
	}
	return "", ErrUnknownEntityType
}

// FieldType is the semantic type used for row-level validation.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldEmail  FieldType = "email"
	FieldDate   FieldType = "date"
)

// Field describes one canonical column of an entity schema.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Min      *float64
	Max      *float64

	// Aliases are header spellings that normalize onto Name.
	// Matching is case-insensitive on the trimmed header.
	Aliases []string
}

// Entity is the full column schema for one entity type, plus the sample
// rows and instructions used to render a downloadable template.
type Entity struct {
	Type         EntityType
	Fields       []Field
	SampleRows   [][]string
	Instructions []string
}

func floatPtr(v float64) *float64 { return &v }

var entities = map[EntityType]*Entity{
	EntityProducts: {
		Type: EntityProducts,
		Fields: []Field{
			{Name: "name", Type: FieldString, Required: true,
				Aliases: []string{"product_name", "product name", "item_name", "product"}},
			{Name: "price", Type: FieldNumber, Required: true, Min: floatPtr(0),
				Aliases: []string{"unit_price", "unit price", "selling_price", "rate", "mrp"}},
			{Name: "category", Type: FieldString,
				Aliases: []string{"catagory", "product_category", "product category", "type"}},
			{Name: "stock_quantity", Type: FieldNumber, Min: floatPtr(0),
				Aliases: []string{"quantity", "stock", "qty", "stock_qty", "stock quantity"}},
			{Name: "min_stock_level", Type: FieldNumber, Min: floatPtr(0),
				Aliases: []string{"min_stock", "reorder_level", "reorder level"}},
			{Name: "sku", Type: FieldString,
				Aliases: []string{"product_id", "product id", "product_code", "item_code"}},
			{Name: "brand", Type: FieldString,
				Aliases: []string{"supplier_name", "supplier name", "manufacturer"}},
			{Name: "description", Type: FieldString,
				Aliases: []string{"details", "product_description"}},
		},
		SampleRows: [][]string{
			{"Masala Tea 250g", "149.50", "Beverages", "120", "10", "SKU-001", "Chai Works", "Loose leaf assam blend"},
			{"Notebook A5", "49", "Stationery", "300", "25", "SKU-002", "PaperCo", "Ruled 200 pages"},
		},
		Instructions: []string{
			"name and price are required for every row",
			"price accepts plain numbers or currency-formatted values (e.g. ₹1,234.50)",
			"stock_quantity and min_stock_level default to 0 when left blank",
		},
	},
	EntityBills: {
		Type: EntityBills,
		Fields: []Field{
			{Name: "customer_name", Type: FieldString, Required: true,
				Aliases: []string{"customer", "customer name", "client_name", "client", "billed_to"}},
			{Name: "total_amount", Type: FieldNumber, Required: true, Min: floatPtr(0),
				Aliases: []string{"amount", "total", "grand_total", "grand total", "bill_amount"}},
			{Name: "status", Type: FieldString,
				Aliases: []string{"payment_status", "payment status", "bill_status"}},
			{Name: "due_date", Type: FieldDate,
				Aliases: []string{"due", "due date", "payment_due_date", "payment_date"}},
			{Name: "notes", Type: FieldString,
				Aliases: []string{"remarks", "comments"}},
		},
		SampleRows: [][]string{
			{"Asha Traders", "2450.00", "draft", "2025-02-15", "Monthly supplies"},
			{"Ravi Stores", "899", "paid", "2025-01-31", ""},
		},
		Instructions: []string{
			"customer_name and total_amount are required for every row",
			"status defaults to draft when left blank",
			"due_date must use the YYYY-MM-DD format",
		},
	},
	EntityCustomers: {
		Type: EntityCustomers,
		Fields: []Field{
			{Name: "name", Type: FieldString, Required: true,
				Aliases: []string{"customer_name", "customer name", "full_name", "full name", "contact_name"}},
			{Name: "email", Type: FieldEmail, Required: true,
				Aliases: []string{"email_address", "email address", "e-mail", "mail"}},
			{Name: "phone", Type: FieldString,
				Aliases: []string{"phone_number", "phone number", "mobile", "contact_number"}},
			{Name: "address", Type: FieldString,
				Aliases: []string{"billing_address", "location"}},
			{Name: "company", Type: FieldString,
				Aliases: []string{"company_name", "company name", "organization", "business_name"}},
		},
		SampleRows: [][]string{
			{"Priya Sharma", "priya@example.com", "+91-9876543210", "12 MG Road Bengaluru", "Sharma Retail"},
			{"Arun Mehta", "arun.mehta@example.com", "+91-9123456780", "4 Park Street Kolkata", ""},
		},
		Instructions: []string{
			"name and email are required for every row",
			"email must be a valid address (e.g. owner@shop.com)",
		},
	},
}

// aliasTables maps lowercase header spellings onto canonical field names,
// built once per entity at init. Canonical names map to themselves.
var aliasTables = buildAliasTables()

func buildAliasTables() map[EntityType]map[string]string {
	tables := make(map[EntityType]map[string]string, len(entities))
	for et, ent := range entities {
		table := make(map[string]string)
		for _, f := range ent.Fields {
			table[strings.ToLower(f.Name)] = f.Name
			for _, alias := range f.Aliases {
				table[strings.ToLower(alias)] = f.Name
			}
		}
		tables[et] = table
	}
	return tables
}

// Get returns the schema for an entity type.
func Get(entityType EntityType) (*Entity, error) {
	ent, ok := entities[entityType]
	if !ok {
		return nil, ErrUnknownEntityType
	}
	return ent, nil
}

// Normalize maps a raw header or field name onto its canonical name.
// Unknown names pass through trimmed but otherwise unchanged, so extra
// columns in a source file are carried as-is and ignored downstream.
func Normalize(entityType EntityType, rawName string) string {
	trimmed := strings.TrimSpace(rawName)
	table, ok := aliasTables[entityType]
	if !ok {
		return trimmed
	}
	if canonical, ok := table[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Headers returns the canonical column names in declaration order.
func Headers(entityType EntityType) ([]string, error) {
	ent, err := Get(entityType)
	if err != nil {
		return nil, err
	}
	headers := make([]string, 0, len(ent.Fields))
	for _, f := range ent.Fields {
		headers = append(headers, f.Name)
	}
	return headers, nil
}

// RequiredFields returns the required canonical field names in
// declaration order.
func RequiredFields(entityType EntityType) ([]string, error) {
	ent, err := Get(entityType)
	if err != nil {
		return nil, err
	}
	var required []string
	for _, f := range ent.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return required, nil
}

// OptionalFields returns headers minus the required set.
func OptionalFields(entityType EntityType) ([]string, error) {
	ent, err := Get(entityType)
	if err != nil {
		return nil, err
	}
	var optional []string
	for _, f := range ent.Fields {
		if !f.Required {
			optional = append(optional, f.Name)
		}
	}
	return optional, nil
}

// FieldByName looks up a canonical field definition.
func FieldByName(entityType EntityType, name string) (*Field, bool) {
	ent, ok := entities[entityType]
	if !ok {
		return nil, false
	}
	for i := range ent.Fields {
		if ent.Fields[i].Name == name {
			return &ent.Fields[i], true
		}
	}
	return nil, false
}
