package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewItemService(store domain.Store, logger *zerolog.Logger) *ItemService {
	return &ItemService{store: store, logger: logger}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	item.OwnerID = ownerID
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies a partial update; only the owner may change an item.
func (s *ItemService) Update(ctx context.Context, itemID, ownerID int64, upd models.ItemUpdate) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}
	return s.store.UpdateItem(ctx, itemID, upd)
}

func (s *ItemService) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	return s.store.GetItem(ctx, id)
}

func (s *ItemService) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.store.ListItemsByOwner(ctx, ownerID)
}
