package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	billRepo "smallbiz-backend/internal/domains/bill/repository"
	businessRepo "smallbiz-backend/internal/domains/business/repository"
	customerRepo "smallbiz-backend/internal/domains/customer/repository"
	"smallbiz-backend/internal/domains/importer/model"
	"smallbiz-backend/internal/domains/importer/repository"
	"smallbiz-backend/internal/domains/importer/schema"
	productRepo "smallbiz-backend/internal/domains/product/repository"
)

// maxDisplayErrors caps the error list returned to the caller; the full
// list is always persisted with the run.
const maxDisplayErrors = 5

// InsertPolicy makes the per-row isolated write behavior explicit. With
// ContinueOnRowError set, one failed insert records a row error and the
// batch carries on; there is no cross-row transaction, so a partially
// failed run leaves the successful rows committed.
type InsertPolicy struct {
	ContinueOnRowError bool
}

func DefaultInsertPolicy() InsertPolicy {
	return InsertPolicy{ContinueOnRowError: true}
}

// ProcessorInterface is the top-level import orchestration.
type ProcessorInterface interface {
	// ProcessFile runs the whole pipeline for one uploaded file:
	// business-scope precondition, parse, validate, persist the run,
	// insert rows and finalize.
	ProcessFile(ctx context.Context, userID uuid.UUID, entityType, fileName string, content []byte) (*model.ImportResult, error)

	GetRun(ctx context.Context, userID, runID uuid.UUID) (*model.ImportRun, []model.ImportRowError, error)
	ListRuns(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ImportRun, error)
}

type processor struct {
	validator  *Validator
	imports    repository.RepositoryInterface
	businesses businessRepo.RepositoryInterface
	products   productRepo.RepositoryInterface
	bills      billRepo.RepositoryInterface
	customers  customerRepo.RepositoryInterface
	policy     InsertPolicy
}

func NewProcessor(
	validator *Validator,
	imports repository.RepositoryInterface,
	businesses businessRepo.RepositoryInterface,
	products productRepo.RepositoryInterface,
	bills billRepo.RepositoryInterface,
	customers customerRepo.RepositoryInterface,
	policy InsertPolicy,
) ProcessorInterface {
	return &processor{
		validator:  validator,
		imports:    imports,
		businesses: businesses,
		products:   products,
		bills:      bills,
		customers:  customers,
		policy:     policy,
	}
}

func (p *processor) ProcessFile(ctx context.Context, userID uuid.UUID, entityType, fileName string, content []byte) (result *model.ImportResult, err error) {
	entity, err := schema.ParseEntityType(entityType)
	if err != nil {
		return nil, err
	}

	// Imports are scoped to exactly one active business; without one the
	// whole operation fails fast.
	biz, err := p.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseFile(fileName, content)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("business_id", biz.ID.String()).
		Str("user_id", userID.String()).
		Str("entity_type", string(entity)).
		Str("file_name", fileName).
		Int("total_rows", len(parsed.Rows)).
		Msg("Starting import")

	// File processing must never take down the calling surface: anything
	// unexpected past this point becomes a failure result.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Import processing panicked")
			result = &model.ImportResult{
				Success: false,
				Status:  model.RunStatusFailed,
				Message: fmt.Sprintf("import failed: %v", rec),
			}
			err = nil
		}
	}()

	report := p.validator.ValidateFile(entity, parsed)

	run := &model.ImportRun{
		ID:            uuid.New(),
		BusinessID:    biz.ID,
		UserID:        userID,
		EntityType:    string(entity),
		FileName:      fileName,
		FileSizeBytes: int64(len(content)),
		TotalRows:     report.TotalRows,
	}

	if len(report.HeaderErrors) > 0 {
		return p.failRun(ctx, run, report, nil)
	}

	if !report.IsValid {
		// Row validation is all-or-nothing at the file level: any row
		// error fails the run and nothing is inserted, but every error
		// is persisted for inspection.
		rowErrors := validationRowErrors(run.ID, parsed, report.Errors)
		return p.failRun(ctx, run, report, rowErrors)
	}

	run.Status = model.RunStatusProcessing
	if err := p.imports.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	successful, failed, dbErrors := p.insertRows(ctx, entity, biz.ID, run.ID, parsed)

	status := model.RunStatusPartial
	switch {
	case failed == 0:
		status = model.RunStatusSuccess
	case successful == 0:
		status = model.RunStatusFailed
	}

	if err := p.imports.CompleteRun(ctx, run.ID, status, successful, failed, dbErrors); err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", run.ID.String()).
		Str("status", status).
		Int("successful_rows", successful).
		Int("failed_rows", failed).
		Msg("Import finished")

	result = &model.ImportResult{
		RunID:          run.ID,
		Success:        status == model.RunStatusSuccess,
		Status:         status,
		TotalRows:      report.TotalRows,
		SuccessfulRows: successful,
		FailedRows:     failed,
		Warnings:       report.Warnings,
	}
	result.Errors, result.Message = capErrors(rowErrorsToReport(dbErrors))
	return result, nil
}

// failRun persists a run that never reached the insert phase, already in
// the failed terminal state.
func (p *processor) failRun(ctx context.Context, run *model.ImportRun, report *model.ValidationReport, rowErrors []model.ImportRowError) (*model.ImportResult, error) {
	now := time.Now()
	run.Status = model.RunStatusFailed
	run.HeaderErrors = report.HeaderErrors
	run.FailedRows = distinctRows(report.Errors)
	run.CompletedAt = &now

	if err := p.imports.CreateFailedRun(ctx, run, rowErrors); err != nil {
		return nil, err
	}

	log.Warn().
		Str("run_id", run.ID.String()).
		Int("header_errors", len(report.HeaderErrors)).
		Int("row_errors", len(report.Errors)).
		Msg("Import rejected by validation")

	result := &model.ImportResult{
		RunID:        run.ID,
		Success:      false,
		Status:       model.RunStatusFailed,
		TotalRows:    report.TotalRows,
		FailedRows:   run.FailedRows,
		HeaderErrors: report.HeaderErrors,
		Warnings:     report.Warnings,
	}
	result.Errors, result.Message = capErrors(report.Errors)
	return result, nil
}

// insertRows writes each validated row independently, in source order.
// Failures are tracked per row and never abort the remaining rows under
// the default policy.
func (p *processor) insertRows(ctx context.Context, entity schema.EntityType, businessID, runID uuid.UUID, parsed *model.ParsedFile) (successful, failed int, dbErrors []model.ImportRowError) {
	for _, row := range parsed.Rows {
		if err := p.insertRow(ctx, entity, businessID, row); err != nil {
			failed++
			dbErrors = append(dbErrors, model.ImportRowError{
				ID:        uuid.New(),
				RunID:     runID,
				RowNumber: row.Number,
				RowData:   row.RawMap(),
				Message:   err.Error(),
				Category:  model.ErrorCategoryDatabase,
			})
			log.Warn().Err(err).Int("row", row.Number).Msg("Row insert failed")
			if !p.policy.ContinueOnRowError {
				break
			}
			continue
		}
		successful++
	}
	return successful, failed, dbErrors
}

func (p *processor) insertRow(ctx context.Context, entity schema.EntityType, businessID uuid.UUID, row model.ParsedRow) error {
	values := row.CanonicalMap(entity)

	switch entity {
	case schema.EntityProducts:
		return p.products.Create(ctx, buildProduct(businessID, values))
	case schema.EntityBills:
		return p.bills.Create(ctx, buildBill(businessID, values))
	case schema.EntityCustomers:
		return p.customers.Create(ctx, buildCustomer(businessID, values))
	}
	return schema.ErrUnknownEntityType
}

func (p *processor) GetRun(ctx context.Context, userID, runID uuid.UUID) (*model.ImportRun, []model.ImportRowError, error) {
	biz, err := p.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	run, err := p.imports.GetRun(ctx, biz.ID, runID)
	if err != nil {
		return nil, nil, err
	}

	rowErrors, err := p.imports.ListRowErrors(ctx, runID)
	if err != nil {
		return nil, nil, err
	}

	return run, rowErrors, nil
}

func (p *processor) ListRuns(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ImportRun, error) {
	biz, err := p.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.imports.ListRuns(ctx, biz.ID, limit, offset)
}

// validationRowErrors converts the report's row errors into persistable
// records, attaching each row's original data.
func validationRowErrors(runID uuid.UUID, parsed *model.ParsedFile, errs []model.RowError) []model.ImportRowError {
	rowErrors := make([]model.ImportRowError, 0, len(errs))
	for _, e := range errs {
		var rowData map[string]string
		if e.Row >= 1 && e.Row <= len(parsed.Rows) {
			rowData = parsed.Rows[e.Row-1].RawMap()
		}
		rowErrors = append(rowErrors, model.ImportRowError{
			ID:        uuid.New(),
			RunID:     runID,
			RowNumber: e.Row,
			RowData:   rowData,
			Message:   e.Message,
			Category:  model.ErrorCategoryValidation,
		})
	}
	return rowErrors
}

func rowErrorsToReport(rowErrors []model.ImportRowError) []model.RowError {
	errs := make([]model.RowError, 0, len(rowErrors))
	for _, re := range rowErrors {
		errs = append(errs, model.RowError{
			Row:     re.RowNumber,
			Type:    re.Category,
			Message: re.Message,
		})
	}
	return errs
}

// capErrors truncates long error lists for display and summarizes the
// remainder.
func capErrors(errs []model.RowError) ([]model.RowError, string) {
	if len(errs) <= maxDisplayErrors {
		return errs, ""
	}
	hidden := len(errs) - maxDisplayErrors
	return errs[:maxDisplayErrors], fmt.Sprintf("+%d more errors, see the import log for the full list", hidden)
}

func distinctRows(errs []model.RowError) int {
	rows := make(map[int]struct{}, len(errs))
	for _, e := range errs {
		rows[e.Row] = struct{}{}
	}
	return len(rows)
}
