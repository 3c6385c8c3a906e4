package service

import (
	"context"

	"github.com/google/uuid"

	businessRepo "smallbiz-backend/internal/domains/business/repository"
	"smallbiz-backend/internal/domains/customer/model"
	"smallbiz-backend/internal/domains/customer/repository"
)

type ServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Customer, error)
}

type customerService struct {
	customers  repository.RepositoryInterface
	businesses businessRepo.RepositoryInterface
}

func NewCustomerService(customers repository.RepositoryInterface, businesses businessRepo.RepositoryInterface) ServiceInterface {
	return &customerService{customers: customers, businesses: businesses}
}

func (s *customerService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Customer, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.customers.ListByBusiness(ctx, biz.ID, limit, offset)
}
