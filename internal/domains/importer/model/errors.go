package model

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions outside the
	// known set.
	ErrUnsupportedFormat = errors.New("unsupported file format, please upload a CSV file")

	// ErrSpreadsheetNotSupported is returned for .xlsx/.xls uploads.
	// Spreadsheet parsing is deliberately not implemented; users are
	// directed to export as CSV instead.
	ErrSpreadsheetNotSupported = errors.New("spreadsheet files are not supported yet, please save the file as CSV and retry")

	// ErrEmptyFile is returned when a file has no data rows below the
	// header.
	ErrEmptyFile = errors.New("file has no data rows")

	// ErrRunNotFound is returned when an import run does not exist in
	// the requesting business's scope.
	ErrRunNotFound = errors.New("import run not found")
)
