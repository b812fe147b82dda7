package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewRequestService(store domain.Store, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if _, err := s.store.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		RequesterID: requesterID,
		Description: description,
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetOwn(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	if _, err := s.store.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.store.ListRequestsByRequester(ctx, requesterID)
}

func (s *RequestService) GetAll(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.AllRequests(ctx)
}
