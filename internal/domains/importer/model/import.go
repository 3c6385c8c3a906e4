package model

import (
	"time"

	"github.com/google/uuid"
)

// Import run status values. A run starts in processing and is moved
// exactly once to one of the terminal states.
const (
	RunStatusProcessing = "processing"
	RunStatusSuccess    = "success"
	RunStatusPartial    = "partial"
	RunStatusFailed     = "failed"
)

// Row error types reported by validation.
const (
	ErrorTypeMissingHeaders      = "missing_headers"
	ErrorTypeMissingRequired     = "missing_required"
	ErrorTypeInvalidType         = "invalid_type"
	ErrorTypeConstraintViolation = "constraint_violation"
)

// Categories for persisted row errors.
const (
	ErrorCategoryValidation = "validation"
	ErrorCategoryDatabase   = "database"
)

// WarningTypeDuplicateRows flags rows that repeat all required-field
// values of an earlier row. Duplicates never block an import.
const WarningTypeDuplicateRows = "duplicate_rows"

// ImportRun is one user-initiated import attempt (table: import_logs).
type ImportRun struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	BusinessID     uuid.UUID     `json:"business_id" db:"business_id"`
	UserID         uuid.UUID     `json:"user_id" db:"user_id"`
	EntityType     string        `json:"entity_type" db:"entity_type"`
	FileName       string        `json:"file_name" db:"file_name"`
	FileSizeBytes  int64         `json:"file_size_bytes" db:"file_size_bytes"`
	TotalRows      int           `json:"total_rows" db:"total_rows"`
	SuccessfulRows int           `json:"successful_rows" db:"successful_rows"`
	FailedRows     int           `json:"failed_rows" db:"failed_rows"`
	Status         string        `json:"status" db:"status"`
	HeaderErrors   []HeaderError `json:"header_errors,omitempty" db:"header_errors"` // JSONB
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// ImportRowError is one failed row of a run (table: import_log_details).
// RowData keeps the original header spellings and raw values so a user
// can locate the row in their source file.
type ImportRowError struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	RunID     uuid.UUID         `json:"import_log_id" db:"import_log_id"`
	RowNumber int               `json:"row_number" db:"row_number"`
	RowData   map[string]string `json:"row_data" db:"row_data"` // JSONB
	Message   string            `json:"message" db:"message"`
	Category  string            `json:"category" db:"category"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// HeaderError reports required columns missing from the header row.
type HeaderError struct {
	Type          string   `json:"type"`
	MissingFields []string `json:"missing_fields"`
	Message       string   `json:"message"`
}

// RowError is one validation failure on one row. Row numbers are
// 1-based over the data rows (the header row is not counted).
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Type    string `json:"type"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Warning is a non-blocking finding over the whole file.
type Warning struct {
	Type    string `json:"type"`
	Rows    []int  `json:"rows"`
	Message string `json:"message"`
}

// ValidationReport aggregates the outcome of validating one file.
//
// ValidRows is TotalRows minus the count of errors whose type is not
// missing_required. This mirrors the documented reporting formula and is
// an approximation, not an exact distinct-row count, when several error
// types hit the same row.
type ValidationReport struct {
	HeaderErrors []HeaderError `json:"header_errors,omitempty"`
	Errors       []RowError    `json:"errors,omitempty"`
	Warnings     []Warning     `json:"warnings,omitempty"`
	IsValid      bool          `json:"is_valid"`
	TotalRows    int           `json:"total_rows"`
	ValidRows    int           `json:"valid_rows"`
}

// ImportResult is the structured outcome returned to the caller. The
// error list is capped for display; Message carries a "+N more" summary
// when errors were truncated.
type ImportResult struct {
	RunID          uuid.UUID     `json:"run_id"`
	Success        bool          `json:"success"`
	Status         string        `json:"status"`
	TotalRows      int           `json:"total_rows"`
	SuccessfulRows int           `json:"successful_rows"`
	FailedRows     int           `json:"failed_rows"`
	HeaderErrors   []HeaderError `json:"header_errors,omitempty"`
	Errors         []RowError    `json:"errors,omitempty"`
	Warnings       []Warning     `json:"warnings,omitempty"`
	Message        string        `json:"message,omitempty"`
}
