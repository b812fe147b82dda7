package service

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService enforces the booking lifecycle: WAITING on creation,
// a single owner decision to APPROVED or REJECTED, and visibility
// rules on reads. Time-window validation is strict: start < end and
// start must not lie before "now".
type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *BookingService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}
	if item.OwnerID == bookerID {
		return nil, domain.ErrSelfBooking
	}

	now := s.clock.Now()
	if !req.Start.Before(req.End) || req.Start.Before(now) {
		return nil, domain.ErrInvalidTimeWindow
	}

	booking := &models.Booking{
		ItemID:   req.ItemID,
		BookerID: bookerID,
		Start:    req.Start,
		End:      req.End,
		Status:   models.StatusWaiting,
	}
	if err := s.store.SaveBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, item.OwnerID)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", booking.ItemID).
		Int64("booker_id", bookerID).
		Msg("booking created")

	return booking, nil
}

func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, ownerID int64, approved bool) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}

	// Decided bookings are terminal; a second decision must fail.
	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, bookingID, booking.Status)
	}

	eventType := events.EventBookingApproved
	decision := "approved"
	booking.Status = models.StatusApproved
	if !approved {
		eventType = events.EventBookingRejected
		decision = "rejected"
		booking.Status = models.StatusRejected
	}

	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingDecision(decision)
	s.publishEvent(eventType, booking, ownerID)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("status", booking.Status).
		Int64("owner_id", ownerID).
		Msg("booking decided")

	return booking, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	// Only the booker and the item's owner may see a booking.
	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, domain.ErrAccessDenied
	}
	return booking, nil
}

func (s *BookingService) GetBookingsByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	token, err := s.normalizeFilter(state)
	if err != nil {
		return nil, err
	}
	return s.store.ListBookingsByBooker(ctx, bookerID, token, s.clock.Now(), from, size)
}

func (s *BookingService) GetBookingsByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	token, err := s.normalizeFilter(state)
	if err != nil {
		return nil, err
	}
	return s.store.ListBookingsByOwner(ctx, ownerID, token, s.clock.Now(), from, size)
}

// normalizeFilter validates the state token strictly. The stores treat
// unknown tokens as match-nothing, but a typo'd filter should fail
// loudly rather than return an empty page.
func (s *BookingService) normalizeFilter(state string) (string, error) {
	token, ok := models.NormalizeFilter(state)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedState, state)
	}
	return token, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, ownerID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		OwnerID:   ownerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
