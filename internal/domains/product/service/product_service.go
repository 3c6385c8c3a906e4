package service

import (
	"context"

	"github.com/google/uuid"

	businessRepo "smallbiz-backend/internal/domains/business/repository"
	"smallbiz-backend/internal/domains/product/model"
	"smallbiz-backend/internal/domains/product/repository"
)

type ServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Product, error)
}

type productService struct {
	products   repository.RepositoryInterface
	businesses businessRepo.RepositoryInterface
}

func NewProductService(products repository.RepositoryInterface, businesses businessRepo.RepositoryInterface) ServiceInterface {
	return &productService{products: products, businesses: businesses}
}

func (s *productService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Product, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.products.ListByBusiness(ctx, biz.ID, limit, offset)
}
