package service

import (
	"context"

	"github.com/google/uuid"

	billModel "smallbiz-backend/internal/domains/bill/model"
	"smallbiz-backend/internal/domains/bill/repository"
	businessRepo "smallbiz-backend/internal/domains/business/repository"
)

type ServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]billModel.Bill, error)
}

type billService struct {
	bills      repository.RepositoryInterface
	businesses businessRepo.RepositoryInterface
}

func NewBillService(bills repository.RepositoryInterface, businesses businessRepo.RepositoryInterface) ServiceInterface {
	return &billService{bills: bills, businesses: businesses}
}

func (s *billService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]billModel.Bill, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.bills.ListByBusiness(ctx, biz.ID, limit, offset)
}
