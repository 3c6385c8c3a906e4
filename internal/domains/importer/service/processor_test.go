package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billModel "smallbiz-backend/internal/domains/bill/model"
	businessModel "smallbiz-backend/internal/domains/business/model"
	customerModel "smallbiz-backend/internal/domains/customer/model"
	"smallbiz-backend/internal/domains/importer/model"
	productModel "smallbiz-backend/internal/domains/product/model"
)

// ----- fakes -----

type fakeBusinessRepo struct {
	business *businessModel.Business
	err      error
}

func (f *fakeBusinessRepo) ResolveActiveBusiness(ctx context.Context, userID uuid.UUID) (*businessModel.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id uuid.UUID) (*businessModel.Business, error) {
	return f.business, nil
}

type fakeImportRepo struct {
	createdRun    *model.ImportRun
	failedRun     *model.ImportRun
	failedErrors  []model.ImportRowError
	completedID   uuid.UUID
	completedWith string
	successful    int
	failed        int
	rowErrors     []model.ImportRowError
}

func (f *fakeImportRepo) CreateRun(ctx context.Context, run *model.ImportRun) error {
	f.createdRun = run
	return nil
}

func (f *fakeImportRepo) CreateFailedRun(ctx context.Context, run *model.ImportRun, rowErrors []model.ImportRowError) error {
	f.failedRun = run
	f.failedErrors = rowErrors
	return nil
}

func (f *fakeImportRepo) CompleteRun(ctx context.Context, runID uuid.UUID, status string, successful, failed int, rowErrors []model.ImportRowError) error {
	f.completedID = runID
	f.completedWith = status
	f.successful = successful
	f.failed = failed
	f.rowErrors = rowErrors
	return nil
}

func (f *fakeImportRepo) GetRun(ctx context.Context, businessID, runID uuid.UUID) (*model.ImportRun, error) {
	if f.createdRun != nil && f.createdRun.ID == runID {
		return f.createdRun, nil
	}
	return nil, model.ErrRunNotFound
}

func (f *fakeImportRepo) ListRuns(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.ImportRun, error) {
	if f.createdRun == nil {
		return nil, nil
	}
	return []model.ImportRun{*f.createdRun}, nil
}

func (f *fakeImportRepo) ListRowErrors(ctx context.Context, runID uuid.UUID) ([]model.ImportRowError, error) {
	return f.rowErrors, nil
}

// fakeProductRepo fails Create for any product whose name is in failOn.
type fakeProductRepo struct {
	created []productModel.Product
	failOn  map[string]bool
}

func (f *fakeProductRepo) Create(ctx context.Context, product *productModel.Product) error {
	if f.failOn[product.Name] {
		return errors.New("duplicate key value violates unique constraint")
	}
	f.created = append(f.created, *product)
	return nil
}

func (f *fakeProductRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]productModel.Product, error) {
	return f.created, nil
}

type fakeBillRepo struct {
	created []billModel.Bill
}

func (f *fakeBillRepo) Create(ctx context.Context, bill *billModel.Bill) error {
	f.created = append(f.created, *bill)
	return nil
}

func (f *fakeBillRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]billModel.Bill, error) {
	return f.created, nil
}

type fakeCustomerRepo struct {
	created []customerModel.Customer
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *customerModel.Customer) error {
	f.created = append(f.created, *customer)
	return nil
}

func (f *fakeCustomerRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]customerModel.Customer, error) {
	return f.created, nil
}

// ----- helpers -----

type processorFixture struct {
	processor ProcessorInterface
	imports   *fakeImportRepo
	products  *fakeProductRepo
	bills     *fakeBillRepo
	customers *fakeCustomerRepo
	userID    uuid.UUID
}

func newFixture(t *testing.T, businessErr error) *processorFixture {
	t.Helper()

	f := &processorFixture{
		imports:   &fakeImportRepo{},
		products:  &fakeProductRepo{failOn: map[string]bool{}},
		bills:     &fakeBillRepo{},
		customers: &fakeCustomerRepo{},
		userID:    uuid.New(),
	}

	businesses := &fakeBusinessRepo{err: businessErr}
	if businessErr == nil {
		businesses.business = &businessModel.Business{ID: uuid.New(), Name: "Asha Traders", IsActive: true}
	}

	f.processor = NewProcessor(
		NewValidator(),
		f.imports,
		businesses,
		f.products,
		f.bills,
		f.customers,
		DefaultInsertPolicy(),
	)
	return f
}

func productCSV(rows ...string) []byte {
	content := "name,price\n"
	for _, r := range rows {
		content += r + "\n"
	}
	return []byte(content)
}

// ----- tests -----

func TestProcessFileNoActiveBusiness(t *testing.T) {
	f := newFixture(t, businessModel.ErrNoBusinessFound)

	_, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv", productCSV("Tea,120"))
	assert.ErrorIs(t, err, businessModel.ErrNoBusinessFound)
	assert.Nil(t, f.imports.createdRun, "nothing may be persisted without a business")
}

func TestProcessFileUnknownEntityType(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.processor.ProcessFile(context.Background(), f.userID, "invoices", "p.csv", productCSV("Tea,120"))
	assert.Error(t, err)
}

func TestProcessFileSpreadsheetRejected(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.xlsx", []byte("binary"))
	assert.ErrorIs(t, err, model.ErrSpreadsheetNotSupported)
	assert.Contains(t, err.Error(), "save the file as CSV")
}

func TestProcessFileFullSuccess(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv",
		productCSV("Tea,120", "Coffee,200"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.RunStatusSuccess, result.Status)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.SuccessfulRows)
	assert.Equal(t, 0, result.FailedRows)
	assert.Len(t, f.products.created, 2)

	require.NotNil(t, f.imports.createdRun)
	assert.Equal(t, model.RunStatusProcessing, f.imports.createdRun.Status)
	assert.Equal(t, model.RunStatusSuccess, f.imports.completedWith)
}

func TestProcessFilePartial(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 3; i++ {
		f.products.failOn[fmt.Sprintf("Dup%d", i)] = true
	}

	rows := make([]string, 0, 10)
	for i := 0; i < 7; i++ {
		rows = append(rows, fmt.Sprintf("Item%d,%d", i, 100+i))
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, fmt.Sprintf("Dup%d,50", i))
	}

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv", productCSV(rows...))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, model.RunStatusPartial, result.Status)
	assert.Equal(t, 7, result.SuccessfulRows)
	assert.Equal(t, 3, result.FailedRows)
	assert.Len(t, f.products.created, 7, "successful rows stay committed")

	assert.Equal(t, model.RunStatusPartial, f.imports.completedWith)
	require.Len(t, f.imports.rowErrors, 3)
	assert.Equal(t, model.ErrorCategoryDatabase, f.imports.rowErrors[0].Category)
	assert.Equal(t, 8, f.imports.rowErrors[0].RowNumber)
}

func TestProcessFileAllRowsFail(t *testing.T) {
	f := newFixture(t, nil)
	f.products.failOn["Tea"] = true
	f.products.failOn["Coffee"] = true

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv",
		productCSV("Tea,120", "Coffee,200"))
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusFailed, result.Status)
	assert.Equal(t, 0, result.SuccessfulRows)
	assert.Equal(t, 2, result.FailedRows)
}

func TestProcessFileHeaderValidationFails(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv",
		[]byte("name,category\nTea,Beverages\n"))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, model.RunStatusFailed, result.Status)
	require.Len(t, result.HeaderErrors, 1)
	assert.Equal(t, []string{"price"}, result.HeaderErrors[0].MissingFields)

	assert.Empty(t, f.products.created, "no inserts after header rejection")
	require.NotNil(t, f.imports.failedRun)
	assert.Equal(t, model.RunStatusFailed, f.imports.failedRun.Status)
	assert.NotNil(t, f.imports.failedRun.CompletedAt)
	assert.Empty(t, f.imports.failedErrors)
}

func TestProcessFileRowValidationAllOrNothing(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv",
		productCSV("Tea,120", "Coffee,notanumber"))
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusFailed, result.Status)
	assert.Empty(t, f.products.created, "a single bad row blocks every insert")

	require.NotNil(t, f.imports.failedRun)
	require.Len(t, f.imports.failedErrors, 1)
	assert.Equal(t, model.ErrorCategoryValidation, f.imports.failedErrors[0].Category)
	assert.Equal(t, 2, f.imports.failedErrors[0].RowNumber)
	assert.Equal(t, "notanumber", f.imports.failedErrors[0].RowData["price"])
}

func TestProcessFileErrorListCapped(t *testing.T) {
	f := newFixture(t, nil)

	rows := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, fmt.Sprintf("Item%d,notanumber", i))
	}

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv", productCSV(rows...))
	require.NoError(t, err)

	assert.Len(t, result.Errors, maxDisplayErrors)
	assert.Contains(t, result.Message, "+3 more errors")
	assert.Len(t, f.imports.failedErrors, 8, "full list is still persisted")
}

func TestProcessFileBillsAndCustomers(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "bills", "b.csv",
		[]byte("customer_name,total_amount,due_date\nAsha,2450.00,2025-02-15\n"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, f.bills.created, 1)
	assert.Equal(t, billModel.StatusDraft, f.bills.created[0].Status)
	require.NotNil(t, f.bills.created[0].DueDate)

	result, err = f.processor.ProcessFile(context.Background(), f.userID, "customers", "c.csv",
		[]byte("name,email\nPriya,priya@example.com\n"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, f.customers.created, 1)
	assert.Equal(t, "priya@example.com", f.customers.created[0].Email)
}

func TestGetRunAndListRuns(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.processor.ProcessFile(context.Background(), f.userID, "products", "p.csv", productCSV("Tea,120"))
	require.NoError(t, err)

	run, rowErrors, err := f.processor.GetRun(context.Background(), f.userID, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, run.ID)
	assert.Empty(t, rowErrors)

	runs, err := f.processor.ListRuns(context.Background(), f.userID, 20, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	_, _, err = f.processor.GetRun(context.Background(), f.userID, uuid.New())
	assert.ErrorIs(t, err, model.ErrRunNotFound)
}
