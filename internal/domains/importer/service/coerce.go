package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billModel "smallbiz-backend/internal/domains/bill/model"
	customerModel "smallbiz-backend/internal/domains/customer/model"
	productModel "smallbiz-backend/internal/domains/product/model"
)

// The build functions materialize a strongly-typed record from a row's
// canonical value map. They run only after validation has passed, so
// coercion here applies defaults rather than reporting errors, using the
// same numeric cleaning as the validator.

func buildProduct(businessID uuid.UUID, values map[string]string) *productModel.Product {
	price := decimal.Zero
	if n, ok := CleanNumberValue(values["price"]); ok {
		price = decimal.NewFromFloat(n)
	}

	return &productModel.Product{
		ID:            uuid.New(),
		BusinessID:    businessID,
		Name:          strings.TrimSpace(values["name"]),
		Price:         price,
		Category:      strings.TrimSpace(values["category"]),
		StockQuantity: intValue(values["stock_quantity"]),
		MinStockLevel: intValue(values["min_stock_level"]),
		SKU:           strings.TrimSpace(values["sku"]),
		Brand:         strings.TrimSpace(values["brand"]),
		Description:   strings.TrimSpace(values["description"]),
	}
}

func buildBill(businessID uuid.UUID, values map[string]string) *billModel.Bill {
	amount := decimal.Zero
	if n, ok := CleanNumberValue(values["total_amount"]); ok {
		amount = decimal.NewFromFloat(n)
	}

	status := strings.ToLower(strings.TrimSpace(values["status"]))
	if status == "" {
		status = billModel.StatusDraft
	}

	var dueDate *time.Time
	if t, ok := ParseDate(values["due_date"]); ok {
		dueDate = &t
	}

	return &billModel.Bill{
		ID:           uuid.New(),
		BusinessID:   businessID,
		CustomerName: strings.TrimSpace(values["customer_name"]),
		TotalAmount:  amount,
		Status:       status,
		DueDate:      dueDate,
		Notes:        strings.TrimSpace(values["notes"]),
	}
}

func buildCustomer(businessID uuid.UUID, values map[string]string) *customerModel.Customer {
	return &customerModel.Customer{
		ID:         uuid.New(),
		BusinessID: businessID,
		Name:       strings.TrimSpace(values["name"]),
		Email:      strings.TrimSpace(values["email"]),
		Phone:      strings.TrimSpace(values["phone"]),
		Address:    strings.TrimSpace(values["address"]),
		Company:    strings.TrimSpace(values["company"]),
	}
}

func intValue(raw string) int {
	if n, ok := CleanNumberValue(raw); ok {
		return int(n)
	}
	return 0
}
