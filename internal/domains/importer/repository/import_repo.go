package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smallbiz-backend/internal/domains/importer/model"
	"smallbiz-backend/pkg/database"
)

// RepositoryInterface tracks import runs and their row-level errors.
type RepositoryInterface interface {
	// CreateRun inserts a run in its initial state (status processing,
	// no completion timestamp).
	CreateRun(ctx context.Context, run *model.ImportRun) error

	// CreateFailedRun inserts a run already in the failed terminal state
	// together with its validation row errors, in one transaction. Used
	// when header or row validation rejects the whole file.
	CreateFailedRun(ctx context.Context, run *model.ImportRun, rowErrors []model.ImportRowError) error

	// CompleteRun moves a processing run to its terminal state, sets the
	// completion timestamp and batch-inserts the per-row insert errors.
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, successful, failed int, rowErrors []model.ImportRowError) error

	GetRun(ctx context.Context, businessID, runID uuid.UUID) (*model.ImportRun, error)
	ListRuns(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.ImportRun, error)
	ListRowErrors(ctx context.Context, runID uuid.UUID) ([]model.ImportRowError, error)
}

type importRepository struct {
	pool *pgxpool.Pool
}

func NewImportRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &importRepository{pool: pool}
}

const insertRunQuery = `
        INSERT INTO import_logs (
            id, business_id, user_id, entity_type, file_name, file_size_bytes,
            total_rows, successful_rows, failed_rows, status, header_errors,
            created_at, completed_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

const insertRowErrorQuery = `
        INSERT INTO import_log_details (
            id, import_log_id, row_number, row_data, message, category, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

func (r *importRepository) CreateRun(ctx context.Context, run *model.ImportRun) error {
	run.CreatedAt = time.Now()

	headerErrors, err := marshalHeaderErrors(run.HeaderErrors)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, insertRunQuery,
		run.ID,
		run.BusinessID,
		run.UserID,
		run.EntityType,
		run.FileName,
		run.FileSizeBytes,
		run.TotalRows,
		run.SuccessfulRows,
		run.FailedRows,
		run.Status,
		headerErrors,
		run.CreatedAt,
		run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}

	return nil
}

func (r *importRepository) CreateFailedRun(ctx context.Context, run *model.ImportRun, rowErrors []model.ImportRowError) error {
	run.CreatedAt = time.Now()

	headerErrors, err := marshalHeaderErrors(run.HeaderErrors)
	if err != nil {
		return err
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertRunQuery,
			run.ID,
			run.BusinessID,
			run.UserID,
			run.EntityType,
			run.FileName,
			run.FileSizeBytes,
			run.TotalRows,
			run.SuccessfulRows,
			run.FailedRows,
			run.Status,
			headerErrors,
			run.CreatedAt,
			run.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create import run: %w", err)
		}
		return insertRowErrorsTx(ctx, tx, rowErrors)
	})
}

func (r *importRepository) CompleteRun(ctx context.Context, runID uuid.UUID, status string, successful, failed int, rowErrors []model.ImportRowError) error {
	query := `
        UPDATE import_logs
        SET status = $1,
            successful_rows = $2,
            failed_rows = $3,
            completed_at = $4
        WHERE id = $5
    `

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query, status, successful, failed, time.Now(), runID)
		if err != nil {
			return fmt.Errorf("failed to complete import run: %w", err)
		}
		return insertRowErrorsTx(ctx, tx, rowErrors)
	})
}

// insertRowErrorsTx batch-inserts row errors inside a transaction.
func insertRowErrorsTx(ctx context.Context, tx pgx.Tx, rowErrors []model.ImportRowError) error {
	if len(rowErrors) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	now := time.Now()
	for _, re := range rowErrors {
		rowData, err := json.Marshal(re.RowData)
		if err != nil {
			return fmt.Errorf("failed to marshal row data: %w", err)
		}
		batch.Queue(insertRowErrorQuery,
			re.ID, re.RunID, re.RowNumber, rowData, re.Message, re.Category, now)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range rowErrors {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert import row error: %w", err)
		}
	}

	return nil
}

func (r *importRepository) GetRun(ctx context.Context, businessID, runID uuid.UUID) (*model.ImportRun, error) {
	query := `
        SELECT id, business_id, user_id, entity_type, file_name, file_size_bytes,
               total_rows, successful_rows, failed_rows, status, header_errors,
               created_at, completed_at
        FROM import_logs
        WHERE id = $1 AND business_id = $2
    `

	run, err := scanRun(r.pool.QueryRow(ctx, query, runID, businessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}

	return run, nil
}

func (r *importRepository) ListRuns(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.ImportRun, error) {
	query := `
        SELECT id, business_id, user_id, entity_type, file_name, file_size_bytes,
               total_rows, successful_rows, failed_rows, status, header_errors,
               created_at, completed_at
        FROM import_logs
        WHERE business_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.pool.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []model.ImportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, nil
}

func (r *importRepository) ListRowErrors(ctx context.Context, runID uuid.UUID) ([]model.ImportRowError, error) {
	query := `
        SELECT id, import_log_id, row_number, row_data, message, category, created_at
        FROM import_log_details
        WHERE import_log_id = $1
        ORDER BY row_number
    `

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list import row errors: %w", err)
	}
	defer rows.Close()

	var rowErrors []model.ImportRowError
	for rows.Next() {
		var re model.ImportRowError
		var rowData []byte
		err := rows.Scan(&re.ID, &re.RunID, &re.RowNumber, &rowData, &re.Message, &re.Category, &re.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import row error: %w", err)
		}
		if len(rowData) > 0 {
			if err := json.Unmarshal(rowData, &re.RowData); err != nil {
				return nil, fmt.Errorf("failed to unmarshal row data: %w", err)
			}
		}
		rowErrors = append(rowErrors, re)
	}

	return rowErrors, nil
}

func marshalHeaderErrors(headerErrors []model.HeaderError) ([]byte, error) {
	if len(headerErrors) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(headerErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal header errors: %w", err)
	}
	return data, nil
}

func scanRun(row pgx.Row) (*model.ImportRun, error) {
	var run model.ImportRun
	var headerErrors []byte
	err := row.Scan(
		&run.ID,
		&run.BusinessID,
		&run.UserID,
		&run.EntityType,
		&run.FileName,
		&run.FileSizeBytes,
		&run.TotalRows,
		&run.SuccessfulRows,
		&run.FailedRows,
		&run.Status,
		&headerErrors,
		&run.CreatedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(headerErrors) > 0 {
		if err := json.Unmarshal(headerErrors, &run.HeaderErrors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal header errors: %w", err)
		}
	}
	return &run, nil
}
